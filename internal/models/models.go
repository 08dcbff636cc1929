// Package models defines the domain entities for the expense ledger.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategory is the display bucket for expenses recorded without a category label.
const DefaultCategory = "Others"

// MaxCategoryNameLength is the maximum allowed length for category names.
const MaxCategoryNameLength = 50

// DefaultCategories are seeded for every new user.
var DefaultCategories = []string{
	"Food",
	"Transport",
	"Education",
	"Rent",
	"Entertainment",
	DefaultCategory,
}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NormalizeText converts CRLF and lone CR line endings to LF. Free-form text is
// stored normalized so exports read back exactly what was recorded.
func NormalizeText(s string) string {
	return lineEndings.Replace(s)
}

// User represents a registered ledger owner.
type User struct {
	Username     string
	PasswordHash string
	DisplayName  string
	Email        string
	CreatedAt    time.Time
}

// Category represents a named spending bucket owned by a user.
type Category struct {
	ID        int
	Username  string
	Name      string
	CreatedAt time.Time
}

// Expense represents a single dated, categorized spending entry.
type Expense struct {
	ID          int64
	Username    string
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
	Description string
	CreatedAt   time.Time
}

// WishlistItem represents a desired purchase.
type WishlistItem struct {
	ID                 int64
	Username           string
	Item               string
	Purchased          bool
	PurchasedExpenseID *int64
	PurchasedAt        *time.Time
	CreatedAt          time.Time
}

// Goal is the target spending amount for one calendar month.
type Goal struct {
	Username  string
	Year      int
	Month     int
	Amount    decimal.Decimal
	UpdatedAt time.Time
}
