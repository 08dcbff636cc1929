// Package tracker implements the ledger operations a signed-in user performs:
// managing categories, recording expenses, keeping a wishlist and setting
// monthly goals.
package tracker

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/yelinaung/expense-ledger/internal/database"
	"gitlab.com/yelinaung/expense-ledger/internal/logger"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
	"gitlab.com/yelinaung/expense-ledger/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "gitlab.com/yelinaung/expense-ledger/internal/tracker"

// Tracker runs ledger operations against a store.
type Tracker struct {
	db         database.DB
	categories *repository.CategoryRepository
	expenses   *repository.ExpenseRepository
	wishlist   *repository.WishlistRepository
	goals      *repository.GoalRepository

	tracer   trace.Tracer
	recorded metric.Int64Counter
	linked   metric.Int64Counter
}

// New creates a Tracker backed by db. db may be a pool or a transaction.
func New(db database.DB) *Tracker {
	meter := otel.Meter(instrumentationName)

	recorded, err := meter.Int64Counter("expenses.recorded",
		metric.WithDescription("Expenses written to the ledger"))
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to create expenses.recorded counter")
		recorded = noop.Int64Counter{}
	}
	linked, err := meter.Int64Counter("wishlist.linked",
		metric.WithDescription("Wishlist items marked purchased by a recorded expense"))
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to create wishlist.linked counter")
		linked = noop.Int64Counter{}
	}

	return &Tracker{
		db:         db,
		categories: repository.NewCategoryRepository(db),
		expenses:   repository.NewExpenseRepository(db),
		wishlist:   repository.NewWishlistRepository(db),
		goals:      repository.NewGoalRepository(db),
		tracer:     otel.Tracer(instrumentationName),
		recorded:   recorded,
		linked:     linked,
	}
}

// start opens a span for op and returns a logger scoped to the request.
func (t *Tracker) start(
	ctx context.Context,
	rc models.RequestContext,
	op string,
) (context.Context, trace.Span, zerolog.Logger) {
	ctx, span := t.tracer.Start(ctx, "tracker."+op, trace.WithAttributes(
		attribute.String("request_id", rc.RequestID),
		attribute.String("user", logger.HashUsername(rc.Username)),
	))
	log := logger.ForRequest(rc.Username, rc.RequestID).With().Str("op", op).Logger()
	return ctx, span, log
}

// finish records err on the span and ends it.
func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
