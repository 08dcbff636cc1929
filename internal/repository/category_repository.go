// Package repository provides database access for domain entities.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"gitlab.com/yelinaung/expense-ledger/internal/database"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
)

// CategoryRepository handles category database operations.
type CategoryRepository struct {
	db database.PGXDB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db database.PGXDB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListByUser retrieves a user's categories in the order they were recorded.
func (r *CategoryRepository) ListByUser(ctx context.Context, username string) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, username, name, created_at FROM categories
		WHERE username = $1
		ORDER BY id
	`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Username, &cat.Name, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

// GetByName retrieves a user's category by exact name. Returns nil when absent.
func (r *CategoryRepository) GetByName(ctx context.Context, username, name string) (*models.Category, error) {
	var cat models.Category
	err := r.db.QueryRow(ctx, `
		SELECT id, username, name, created_at FROM categories WHERE username = $1 AND name = $2
	`, username, name).Scan(&cat.ID, &cat.Username, &cat.Name, &cat.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category by name: %w", err)
	}
	return &cat, nil
}

// Create adds a new category for a user.
func (r *CategoryRepository) Create(ctx context.Context, username, name string) (*models.Category, error) {
	var cat models.Category
	err := r.db.QueryRow(ctx, `
		INSERT INTO categories (username, name) VALUES ($1, $2)
		RETURNING id, username, name, created_at
	`, username, name).Scan(&cat.ID, &cat.Username, &cat.Name, &cat.CreatedAt)
	if err != nil {
		if constraint, ok := database.IsUniqueViolation(err); ok {
			return nil, &models.IntegrityError{Constraint: constraint, Err: models.ErrDuplicateCategory}
		}
		if constraint, ok := database.IsForeignKeyViolation(err); ok {
			return nil, &models.IntegrityError{Constraint: constraint, Err: models.ErrUserNotFound}
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &cat, nil
}

// SeedDefaults inserts the default categories for a user, skipping existing ones.
func (r *CategoryRepository) SeedDefaults(ctx context.Context, username string) error {
	if err := database.SeedCategories(ctx, r.db, username); err != nil {
		if constraint, ok := database.IsForeignKeyViolation(err); ok {
			return &models.IntegrityError{Constraint: constraint, Err: models.ErrUserNotFound}
		}
		return err
	}
	return nil
}
