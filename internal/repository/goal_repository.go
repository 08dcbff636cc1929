package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"gitlab.com/yelinaung/expense-ledger/internal/database"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
)

// GoalRepository handles monthly goal database operations.
type GoalRepository struct {
	db database.PGXDB
}

// NewGoalRepository creates a new GoalRepository.
func NewGoalRepository(db database.PGXDB) *GoalRepository {
	return &GoalRepository{db: db}
}

// Upsert stores the goal for its (user, year, month), replacing any previous amount.
func (r *GoalRepository) Upsert(ctx context.Context, goal *models.Goal) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO goals (username, year, month, amount, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (username, year, month) DO UPDATE SET
			amount = EXCLUDED.amount,
			updated_at = NOW()
		RETURNING updated_at
	`, goal.Username, goal.Year, goal.Month, goal.Amount).Scan(&goal.UpdatedAt)
	if err != nil {
		if constraint, ok := database.IsForeignKeyViolation(err); ok {
			return &models.IntegrityError{Constraint: constraint, Err: models.ErrUserNotFound}
		}
		if constraint, ok := database.IsCheckViolation(err); ok {
			return &models.IntegrityError{Constraint: constraint, Err: models.ErrInvalidGoalAmount}
		}
		return fmt.Errorf("failed to upsert goal: %w", err)
	}
	return nil
}

// Get retrieves the goal for a month. Returns nil when no goal is set.
func (r *GoalRepository) Get(ctx context.Context, username string, year, month int) (*models.Goal, error) {
	var g models.Goal
	err := r.db.QueryRow(ctx, `
		SELECT username, year, month, amount, updated_at
		FROM goals WHERE username = $1 AND year = $2 AND month = $3
	`, username, year, month).Scan(&g.Username, &g.Year, &g.Month, &g.Amount, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return &g, nil
}

// ListByUser retrieves every goal a user has set, oldest month first.
func (r *GoalRepository) ListByUser(ctx context.Context, username string) ([]models.Goal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT username, year, month, amount, updated_at
		FROM goals WHERE username = $1
		ORDER BY year, month
	`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.Username, &g.Year, &g.Month, &g.Amount, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}
	return goals, nil
}
