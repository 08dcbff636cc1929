package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"gitlab.com/yelinaung/expense-ledger/internal/database"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
)

const wishlistColumns = `id, username, item, purchased, purchased_expense_id, purchased_at, created_at`

// WishlistRepository handles wishlist database operations.
type WishlistRepository struct {
	db database.PGXDB
}

// NewWishlistRepository creates a new WishlistRepository.
func NewWishlistRepository(db database.PGXDB) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// Create adds an unpurchased item to a user's wishlist.
func (r *WishlistRepository) Create(ctx context.Context, username, item string) (*models.WishlistItem, error) {
	var w models.WishlistItem
	err := r.db.QueryRow(ctx, `
		INSERT INTO wishlist_items (username, item) VALUES ($1, $2)
		RETURNING `+wishlistColumns,
		username, item,
	).Scan(&w.ID, &w.Username, &w.Item, &w.Purchased, &w.PurchasedExpenseID, &w.PurchasedAt, &w.CreatedAt)
	if err != nil {
		if constraint, ok := database.IsForeignKeyViolation(err); ok {
			return nil, &models.IntegrityError{Constraint: constraint, Err: models.ErrUserNotFound}
		}
		return nil, fmt.Errorf("failed to create wishlist item: %w", err)
	}
	return &w, nil
}

// ListByUser retrieves every wishlist item for a user in insertion order.
func (r *WishlistRepository) ListByUser(ctx context.Context, username string) ([]models.WishlistItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+wishlistColumns+`
		FROM wishlist_items WHERE username = $1
		ORDER BY id
	`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}
	defer rows.Close()

	return scanWishlistItems(rows)
}

// ListUnpurchased retrieves a user's items that have not been bought yet.
func (r *WishlistRepository) ListUnpurchased(ctx context.Context, username string) ([]models.WishlistItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+wishlistColumns+`
		FROM wishlist_items WHERE username = $1 AND NOT purchased
		ORDER BY id
	`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query unpurchased wishlist items: %w", err)
	}
	defer rows.Close()

	return scanWishlistItems(rows)
}

// FindUnpurchased returns the oldest unpurchased item whose text equals item
// exactly, or nil. The row is locked until the surrounding transaction ends.
func (r *WishlistRepository) FindUnpurchased(ctx context.Context, username, item string) (*models.WishlistItem, error) {
	var w models.WishlistItem
	err := r.db.QueryRow(ctx, `
		SELECT `+wishlistColumns+`
		FROM wishlist_items
		WHERE username = $1 AND item = $2 AND NOT purchased
		ORDER BY id
		LIMIT 1
		FOR UPDATE
	`, username, item).Scan(&w.ID, &w.Username, &w.Item, &w.Purchased, &w.PurchasedExpenseID, &w.PurchasedAt, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find wishlist item: %w", err)
	}
	return &w, nil
}

// MarkPurchased flips the oldest unpurchased item matching item to purchased and
// links it to the expense. Returns nil when no unpurchased match remains, so
// repeating the call has no further effect.
func (r *WishlistRepository) MarkPurchased(
	ctx context.Context,
	username, item string,
	expenseID int64,
) (*models.WishlistItem, error) {
	var w models.WishlistItem
	err := r.db.QueryRow(ctx, `
		UPDATE wishlist_items
		SET purchased = TRUE, purchased_expense_id = $3, purchased_at = NOW()
		WHERE id = (
			SELECT id FROM wishlist_items
			WHERE username = $1 AND item = $2 AND NOT purchased
			ORDER BY id
			LIMIT 1
			FOR UPDATE
		) AND NOT purchased
		RETURNING `+wishlistColumns,
		username, item, expenseID,
	).Scan(&w.ID, &w.Username, &w.Item, &w.Purchased, &w.PurchasedExpenseID, &w.PurchasedAt, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to mark wishlist item purchased: %w", err)
	}
	return &w, nil
}

// scanWishlistItems is a helper to scan wishlist rows.
func scanWishlistItems(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
},
) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	for rows.Next() {
		var w models.WishlistItem
		if err := rows.Scan(&w.ID, &w.Username, &w.Item, &w.Purchased, &w.PurchasedExpenseID, &w.PurchasedAt, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wishlist: %w", err)
	}
	return items, nil
}
