package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/yelinaung/expense-ledger/internal/database"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
)

func TestUserRepository(t *testing.T) {
	tx := database.TestTx(t)
	ctx := context.Background()
	repo := NewUserRepository(tx)

	t.Run("creates and retrieves user", func(t *testing.T) {
		user := &models.User{Username: "alice", PasswordHash: "hash", DisplayName: "Alice", Email: "alice@example.com"}
		require.NoError(t, repo.Create(ctx, user))
		require.False(t, user.CreatedAt.IsZero())

		fetched, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, "Alice", fetched.DisplayName)
		require.Equal(t, "alice@example.com", fetched.Email)
		require.Equal(t, "hash", fetched.PasswordHash)

		exists, err := repo.Exists(ctx, "alice")
		require.NoError(t, err)
		require.True(t, exists)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		sp, err := tx.Begin(ctx)
		require.NoError(t, err)
		defer func() { _ = sp.Rollback(ctx) }()

		err = NewUserRepository(sp).Create(ctx, &models.User{Username: "alice", PasswordHash: "other"})
		require.ErrorIs(t, err, models.ErrUserExists)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.GetByUsername(ctx, "nobody")
		require.ErrorIs(t, err, models.ErrUserNotFound)

		exists, err := repo.Exists(ctx, "nobody")
		require.NoError(t, err)
		require.False(t, exists)
	})
}
