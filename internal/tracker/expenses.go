package tracker

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/expense-ledger/internal/database"
	"gitlab.com/yelinaung/expense-ledger/internal/logger"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
	"gitlab.com/yelinaung/expense-ledger/internal/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ExpenseInput is a proposed ledger entry.
type ExpenseInput struct {
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
	Description string
	// CheckWishlist asks RecordExpense to reconcile the description against
	// the user's unpurchased wishlist items.
	CheckWishlist bool
}

// Recorded is the outcome of a successful RecordExpense.
type Recorded struct {
	Expense *models.Expense
	// Purchased is the wishlist item linked to the expense, or nil.
	Purchased *models.WishlistItem
}

// PendingConfirmationError is returned when a wishlist-checked expense matches
// no unpurchased item. Nothing has been written; the caller re-submits with
// confirmed set to record the expense without linkage.
type PendingConfirmationError struct {
	Match MatchResult
}

func (e *PendingConfirmationError) Error() string {
	return models.ErrConfirmationRequired.Error()
}

func (e *PendingConfirmationError) Unwrap() error {
	return models.ErrConfirmationRequired
}

func (in ExpenseInput) validate() error {
	if strings.TrimSpace(in.Description) == "" {
		return models.NewValidationError("description", models.ErrMissingDescription)
	}
	if in.Amount.IsNegative() {
		return models.NewValidationError("amount", models.ErrInvalidAmount)
	}
	if in.Date.IsZero() {
		return models.NewValidationError("date", models.ErrMissingDate)
	}
	return nil
}

func (in ExpenseInput) toExpense(username string) *models.Expense {
	category := models.NormalizeText(strings.TrimSpace(in.Category))
	if category == "" {
		category = models.DefaultCategory
	}
	return &models.Expense{
		Username:    username,
		Amount:      in.Amount.Round(2),
		Category:    category,
		Date:        time.Date(in.Date.Year(), in.Date.Month(), in.Date.Day(), 0, 0, 0, 0, time.UTC),
		Description: models.NormalizeText(in.Description),
	}
}

// AddExpense appends an expense to the user's ledger without consulting the wishlist.
func (t *Tracker) AddExpense(ctx context.Context, rc models.RequestContext, in ExpenseInput) (_ *models.Expense, err error) {
	ctx, span, log := t.start(ctx, rc, "AddExpense")
	defer func() { finish(span, err) }()

	if err := rc.Validate(); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	expense := in.toExpense(rc.Username)
	if err := t.expenses.Create(ctx, expense); err != nil {
		log.Warn().Err(err).Msg("Failed to add expense")
		return nil, err
	}

	t.recorded.Add(ctx, 1, metric.WithAttributes(attribute.Bool("wishlist_linked", false)))
	log.Info().
		Int64("expense_id", expense.ID).
		Str("amount", expense.Amount.StringFixed(2)).
		Str("category", expense.Category).
		Str("description", logger.SanitizeDescription(expense.Description)).
		Msg("Expense added")
	return expense, nil
}

// AddExpenseWithWishlistCheck proposes an expense. When in.CheckWishlist is
// set and no unpurchased wishlist item matches, it returns a
// *PendingConfirmationError and writes nothing.
func (t *Tracker) AddExpenseWithWishlistCheck(
	ctx context.Context,
	rc models.RequestContext,
	in ExpenseInput,
) (*Recorded, error) {
	return t.RecordExpense(ctx, rc, in, false)
}

// RecordExpense writes an expense. With in.CheckWishlist set, an expense whose
// description exactly matches an unpurchased wishlist item is recorded and the
// oldest such item is marked purchased in one transaction. Without a match the
// expense is only recorded when confirmed is true.
func (t *Tracker) RecordExpense(
	ctx context.Context,
	rc models.RequestContext,
	in ExpenseInput,
	confirmed bool,
) (_ *Recorded, err error) {
	ctx, span, log := t.start(ctx, rc, "RecordExpense")
	defer func() { finish(span, err) }()
	span.SetAttributes(
		attribute.Bool("check_wishlist", in.CheckWishlist),
		attribute.Bool("confirmed", confirmed),
	)

	if err := rc.Validate(); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	if !in.CheckWishlist {
		expense, err := t.AddExpense(ctx, rc, in)
		if err != nil {
			return nil, err
		}
		return &Recorded{Expense: expense}, nil
	}

	expense := in.toExpense(rc.Username)
	var purchased *models.WishlistItem

	err = database.WithTx(ctx, t.db, func(tx database.PGXDB) error {
		wishlist := repository.NewWishlistRepository(tx)

		found, err := wishlist.FindUnpurchased(ctx, rc.Username, expense.Description)
		if err != nil {
			return err
		}
		if found == nil && !confirmed {
			exists, err := repository.NewUserRepository(tx).Exists(ctx, rc.Username)
			if err != nil {
				return err
			}
			if !exists {
				return models.ErrUserNotFound
			}
			match, err := matchWishlist(ctx, wishlist, rc.Username, expense.Description)
			if err != nil {
				return err
			}
			return &PendingConfirmationError{Match: match}
		}

		if err := repository.NewExpenseRepository(tx).Create(ctx, expense); err != nil {
			return err
		}
		if found == nil {
			return nil
		}

		purchased, err = wishlist.MarkPurchased(ctx, rc.Username, expense.Description, expense.ID)
		return err
	})
	if err != nil {
		var pending *PendingConfirmationError
		if errors.As(err, &pending) {
			log.Info().
				Strs("suggestions", pending.Match.Suggestions).
				Msg("Expense matches no wishlist item, awaiting confirmation")
		} else {
			log.Warn().Err(err).Msg("Failed to record expense")
		}
		return nil, err
	}

	t.recorded.Add(ctx, 1, metric.WithAttributes(attribute.Bool("wishlist_linked", purchased != nil)))
	event := log.Info().
		Int64("expense_id", expense.ID).
		Str("amount", expense.Amount.StringFixed(2)).
		Str("category", expense.Category)
	if purchased != nil {
		t.linked.Add(ctx, 1)
		event = event.Int64("wishlist_item_id", purchased.ID)
	}
	event.Msg("Expense recorded")

	return &Recorded{Expense: expense, Purchased: purchased}, nil
}

// GetExpense returns one of the user's expenses by ID.
func (t *Tracker) GetExpense(ctx context.Context, rc models.RequestContext, id int64) (_ *models.Expense, err error) {
	ctx, span, _ := t.start(ctx, rc, "GetExpense")
	defer func() { finish(span, err) }()

	if err := rc.Validate(); err != nil {
		return nil, err
	}
	expense, err := t.expenses.GetByID(ctx, rc.Username, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, models.ErrExpenseNotFound
	}
	return expense, nil
}

// ExpensesByMonth returns the user's expenses dated in the given calendar
// month, ordered by date then insertion.
func (t *Tracker) ExpensesByMonth(
	ctx context.Context,
	rc models.RequestContext,
	year int,
	month time.Month,
) (_ []models.Expense, err error) {
	ctx, span, _ := t.start(ctx, rc, "ExpensesByMonth")
	defer func() { finish(span, err) }()

	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return t.expenses.ListByUserAndMonth(ctx, rc.Username, year, month)
}

// ExpensesByDateRange returns the user's expenses dated between start and end,
// both inclusive.
func (t *Tracker) ExpensesByDateRange(
	ctx context.Context,
	rc models.RequestContext,
	start, end time.Time,
) (_ []models.Expense, err error) {
	ctx, span, _ := t.start(ctx, rc, "ExpensesByDateRange")
	defer func() { finish(span, err) }()

	if err := rc.Validate(); err != nil {
		return nil, err
	}
	period, err := models.RangePeriod(start, end)
	if err != nil {
		return nil, err
	}
	return t.expenses.ListByUserAndDateRange(ctx, rc.Username, period.Start, period.End)
}
