package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"gitlab.com/yelinaung/expense-ledger/internal/database"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
)

const expenseColumns = `id, username, amount, category, spent_on, description, created_at`

// ExpenseRepository handles expense database operations.
type ExpenseRepository struct {
	db database.PGXDB
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(db database.PGXDB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create appends a new expense and fills in its ID and creation time.
func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO expenses (username, amount, category, spent_on, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, expense.Username, expense.Amount, expense.Category, expense.Date, expense.Description,
	).Scan(&expense.ID, &expense.CreatedAt)
	if err != nil {
		if constraint, ok := database.IsForeignKeyViolation(err); ok {
			return &models.IntegrityError{Constraint: constraint, Err: models.ErrUserNotFound}
		}
		if constraint, ok := database.IsCheckViolation(err); ok {
			return &models.IntegrityError{Constraint: constraint, Err: models.ErrInvalidAmount}
		}
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// GetByID retrieves a user's expense by ID. Returns nil when absent.
func (r *ExpenseRepository) GetByID(ctx context.Context, username string, id int64) (*models.Expense, error) {
	var exp models.Expense
	err := r.db.QueryRow(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses WHERE username = $1 AND id = $2
	`, username, id).Scan(&exp.ID, &exp.Username, &exp.Amount, &exp.Category, &exp.Date,
		&exp.Description, &exp.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return &exp, nil
}

// ListByUserAndDateRange retrieves a user's expenses dated within [startDate, endDate],
// both ends inclusive, ordered by date then insertion.
func (r *ExpenseRepository) ListByUserAndDateRange(
	ctx context.Context,
	username string,
	startDate, endDate time.Time,
) ([]models.Expense, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses
		WHERE username = $1 AND spent_on >= $2 AND spent_on <= $3
		ORDER BY spent_on, id
	`, username, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses by date range: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// ListByUserAndMonth retrieves a user's expenses dated within a calendar month.
func (r *ExpenseRepository) ListByUserAndMonth(
	ctx context.Context,
	username string,
	year int,
	month time.Month,
) ([]models.Expense, error) {
	period, err := models.MonthPeriod(year, month)
	if err != nil {
		return nil, err
	}
	return r.ListByUserAndDateRange(ctx, username, period.Start, period.End)
}

// scanExpenses is a helper to scan expense rows.
func scanExpenses(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
},
) ([]models.Expense, error) {
	var expenses []models.Expense
	for rows.Next() {
		var exp models.Expense
		if err := rows.Scan(
			&exp.ID, &exp.Username, &exp.Amount, &exp.Category, &exp.Date,
			&exp.Description, &exp.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return expenses, nil
}
