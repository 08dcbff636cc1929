package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gitlab.com/yelinaung/expense-ledger/internal/database"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
)

func TestGoalRepository(t *testing.T) {
	tx := database.TestTx(t)
	ctx := context.Background()
	database.CreateTestUser(t, tx, "saver")

	repo := NewGoalRepository(tx)

	t.Run("returns nil when unset", func(t *testing.T) {
		goal, err := repo.Get(ctx, "saver", 2024, 5)
		require.NoError(t, err)
		require.Nil(t, goal)
	})

	t.Run("upsert replaces the previous amount", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, &models.Goal{Username: "saver", Year: 2024, Month: 5, Amount: decimal.NewFromInt(100)}))
		require.NoError(t, repo.Upsert(ctx, &models.Goal{Username: "saver", Year: 2024, Month: 5, Amount: decimal.NewFromInt(60)}))

		goal, err := repo.Get(ctx, "saver", 2024, 5)
		require.NoError(t, err)
		require.NotNil(t, goal)
		require.True(t, decimal.NewFromInt(60).Equal(goal.Amount))

		goals, err := repo.ListByUser(ctx, "saver")
		require.NoError(t, err)
		require.Len(t, goals, 1)
	})

	t.Run("months are independent", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, &models.Goal{Username: "saver", Year: 2024, Month: 6, Amount: decimal.NewFromInt(200)}))

		goals, err := repo.ListByUser(ctx, "saver")
		require.NoError(t, err)
		require.Len(t, goals, 2)
		require.Equal(t, 5, goals[0].Month)
		require.Equal(t, 6, goals[1].Month)
	})

	t.Run("store rejects non-positive amounts", func(t *testing.T) {
		sp, err := tx.Begin(ctx)
		require.NoError(t, err)
		defer func() { _ = sp.Rollback(ctx) }()

		err = NewGoalRepository(sp).Upsert(ctx, &models.Goal{Username: "saver", Year: 2024, Month: 7, Amount: decimal.Zero})
		require.ErrorIs(t, err, models.ErrInvalidGoalAmount)
	})

	t.Run("unknown user fails with user not found", func(t *testing.T) {
		sp, err := tx.Begin(ctx)
		require.NoError(t, err)
		defer func() { _ = sp.Rollback(ctx) }()

		err = NewGoalRepository(sp).Upsert(ctx, &models.Goal{Username: "ghost", Year: 2024, Month: 7, Amount: decimal.NewFromInt(1)})
		require.ErrorIs(t, err, models.ErrUserNotFound)
	})
}
