package database

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB returns a database connection pool for testing.
// Skips the test if TEST_DATABASE_URL is not set.
func TestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := Connect(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
	})

	return pool
}

// CreateTestUser inserts a bare user row so foreign keys are satisfied.
func CreateTestUser(t *testing.T, db PGXDB, username string) {
	t.Helper()

	_, err := db.Exec(context.Background(), `
		INSERT INTO users (username, password_hash, display_name, email)
		VALUES ($1, 'x', $1, $1 || '@example.com')
		ON CONFLICT (username) DO NOTHING
	`, username)
	if err != nil {
		t.Fatalf("failed to create test user %s: %v", username, err)
	}
}
