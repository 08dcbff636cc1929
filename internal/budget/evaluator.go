package budget

import (
	"context"
	"time"

	"gitlab.com/yelinaung/expense-ledger/internal/database"
	"gitlab.com/yelinaung/expense-ledger/internal/logger"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
	"gitlab.com/yelinaung/expense-ledger/internal/repository"
)

// CategorySource lists a user's registered categories.
type CategorySource interface {
	ListByUser(ctx context.Context, username string) ([]models.Category, error)
}

// ExpenseSource lists a user's expenses within an inclusive date range.
type ExpenseSource interface {
	ListByUserAndDateRange(ctx context.Context, username string, start, end time.Time) ([]models.Expense, error)
}

// GoalSource looks up a month goal. A nil goal means none is set.
type GoalSource interface {
	Get(ctx context.Context, username string, year, month int) (*models.Goal, error)
}

// Evaluator computes budget summaries from stored data.
type Evaluator struct {
	categories CategorySource
	expenses   ExpenseSource
	goals      GoalSource
}

// NewEvaluator creates an Evaluator over the given sources.
func NewEvaluator(categories CategorySource, expenses ExpenseSource, goals GoalSource) *Evaluator {
	return &Evaluator{categories: categories, expenses: expenses, goals: goals}
}

// NewStoreEvaluator creates an Evaluator reading from the database.
func NewStoreEvaluator(db database.PGXDB) *Evaluator {
	return NewEvaluator(
		repository.NewCategoryRepository(db),
		repository.NewExpenseRepository(db),
		repository.NewGoalRepository(db),
	)
}

// Month summarizes a calendar month against that month's goal.
func (e *Evaluator) Month(ctx context.Context, rc models.RequestContext, year int, month time.Month) (*Summary, error) {
	period, err := models.MonthPeriod(year, month)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(ctx, rc, period)
}

// Range summarizes an inclusive date range. A goal applies only when the range
// lies within one calendar month.
func (e *Evaluator) Range(ctx context.Context, rc models.RequestContext, start, end time.Time) (*Summary, error) {
	period, err := models.RangePeriod(start, end)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(ctx, rc, period)
}

// Evaluate summarizes period for the user.
func (e *Evaluator) Evaluate(ctx context.Context, rc models.RequestContext, period models.Period) (*Summary, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}

	expenses, err := e.expenses.ListByUserAndDateRange(ctx, rc.Username, period.Start, period.End)
	if err != nil {
		return nil, err
	}

	categories, err := e.categories.ListByUser(ctx, rc.Username)
	if err != nil {
		return nil, err
	}

	var goal *models.Goal
	if year, month, ok := period.CalendarMonth(); ok {
		goal, err = e.goals.Get(ctx, rc.Username, year, int(month))
		if err != nil {
			return nil, err
		}
	}

	summary := Summarize(period, categories, expenses, goal)

	log := logger.ForRequest(rc.Username, rc.RequestID)
	log.Debug().
		Str("period", period.String()).
		Int("expenses", len(summary.Expenses)).
		Str("total", summary.Total.StringFixed(2)).
		Str("status", string(summary.Status)).
		Msg("Budget evaluated")

	return summary, nil
}
