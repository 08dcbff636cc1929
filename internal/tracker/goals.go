package tracker

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
)

// SetGoal sets the spending goal for a calendar month, replacing any earlier value.
func (t *Tracker) SetGoal(
	ctx context.Context,
	rc models.RequestContext,
	year int,
	month time.Month,
	amount decimal.Decimal,
) (_ *models.Goal, err error) {
	ctx, span, log := t.start(ctx, rc, "SetGoal")
	defer func() { finish(span, err) }()

	if err := rc.Validate(); err != nil {
		return nil, err
	}
	if _, err := models.MonthPeriod(year, month); err != nil {
		return nil, err
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return nil, models.NewValidationError("amount", models.ErrInvalidGoalAmount)
	}

	goal := &models.Goal{
		Username: rc.Username,
		Year:     year,
		Month:    int(month),
		Amount:   amount,
	}
	if err := t.goals.Upsert(ctx, goal); err != nil {
		log.Warn().Err(err).Msg("Failed to set goal")
		return nil, err
	}

	log.Info().
		Int("year", year).
		Int("month", int(month)).
		Str("amount", goal.Amount.StringFixed(2)).
		Msg("Goal set")
	return goal, nil
}

// GetGoal returns the goal amount for a calendar month. ok is false when no
// goal has been set, in which case amount is zero.
func (t *Tracker) GetGoal(
	ctx context.Context,
	rc models.RequestContext,
	year int,
	month time.Month,
) (amount decimal.Decimal, ok bool, err error) {
	ctx, span, _ := t.start(ctx, rc, "GetGoal")
	defer func() { finish(span, err) }()

	if err := rc.Validate(); err != nil {
		return decimal.Zero, false, err
	}
	if _, err := models.MonthPeriod(year, month); err != nil {
		return decimal.Zero, false, err
	}

	goal, err := t.goals.Get(ctx, rc.Username, year, int(month))
	if err != nil {
		return decimal.Zero, false, err
	}
	if goal == nil {
		return decimal.Zero, false, nil
	}
	return goal.Amount, true, nil
}

// ListGoals returns every goal the user has set, oldest month first.
func (t *Tracker) ListGoals(ctx context.Context, rc models.RequestContext) (_ []models.Goal, err error) {
	ctx, span, _ := t.start(ctx, rc, "ListGoals")
	defer func() { finish(span, err) }()

	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return t.goals.ListByUser(ctx, rc.Username)
}
