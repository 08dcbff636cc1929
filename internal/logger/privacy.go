package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// MinHashSaltLength is the shortest salt InitHashSalt accepts.
const MinHashSaltLength = 32

var hashSalt string

// InitHashSalt sets the salt used for username hashing.
// Panics when the salt is shorter than MinHashSaltLength.
func InitHashSalt(salt string) {
	if len(salt) < MinHashSaltLength {
		panic(fmt.Sprintf("LOG_HASH_SALT must be at least %d characters", MinHashSaltLength))
	}
	hashSalt = salt
}

// InitHashSaltForTesting sets the salt without length validation.
func InitHashSaltForTesting(salt string) {
	hashSalt = salt
}

// HashUsername creates a privacy-preserving hash of a username.
// This allows tracking user actions without exposing account names.
func HashUsername(username string) string {
	data := fmt.Sprintf("%s:%s", username, hashSalt)
	hash := sha256.Sum256([]byte(data))
	// Return first 8 characters for readability
	return hex.EncodeToString(hash[:])[:8]
}

// SanitizeDescription removes or truncates sensitive information from descriptions.
// This redacts the description but preserves length information for debugging.
func SanitizeDescription(desc string) string {
	if desc == "" {
		return "<empty>"
	}

	// Preserve length info but redact content
	words := strings.Fields(desc)
	wordCount := len(words)
	charCount := len(desc)

	return fmt.Sprintf("<redacted: %d words, %d chars>", wordCount, charCount)
}

// SanitizeText is a general-purpose sanitizer for any user-provided text.
func SanitizeText(text string) string {
	if text == "" {
		return "<empty>"
	}

	// For short text, show first few characters
	if len(text) <= 10 {
		return fmt.Sprintf("<%d chars>", len(text))
	}

	// For longer text, show prefix and length
	return fmt.Sprintf("%s...<%d chars>", text[:3], len(text))
}
