package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/yelinaung/expense-ledger/internal/database"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
)

func TestCategoryRepository_CRUD(t *testing.T) {
	tx := database.TestTx(t)
	ctx := context.Background()
	database.CreateTestUser(t, tx, "cat-user")
	database.CreateTestUser(t, tx, "cat-other")

	repo := NewCategoryRepository(tx)

	t.Run("creates and retrieves category", func(t *testing.T) {
		cat, err := repo.Create(ctx, "cat-user", "Groceries")
		require.NoError(t, err)
		require.NotZero(t, cat.ID)
		require.Equal(t, "Groceries", cat.Name)
		require.Equal(t, "cat-user", cat.Username)

		fetched, err := repo.GetByName(ctx, "cat-user", "Groceries")
		require.NoError(t, err)
		require.NotNil(t, fetched)
		require.Equal(t, cat.ID, fetched.ID)
	})

	t.Run("name lookup is exact", func(t *testing.T) {
		fetched, err := repo.GetByName(ctx, "cat-user", "groceries")
		require.NoError(t, err)
		require.Nil(t, fetched)
	})

	t.Run("rejects duplicate name for same user", func(t *testing.T) {
		_, err := repo.Create(ctx, "cat-other", "Books")
		require.NoError(t, err)

		dupTx, err := tx.Begin(ctx)
		require.NoError(t, err)
		defer func() { _ = dupTx.Rollback(ctx) }()

		_, err = NewCategoryRepository(dupTx).Create(ctx, "cat-other", "Books")
		require.ErrorIs(t, err, models.ErrDuplicateCategory)

		var iErr *models.IntegrityError
		require.ErrorAs(t, err, &iErr)
		require.Equal(t, "categories_username_name_key", iErr.Constraint)
	})

	t.Run("same name allowed for different users", func(t *testing.T) {
		_, err := repo.Create(ctx, "cat-user", "Books")
		require.NoError(t, err)
	})

	t.Run("lists in recorded order", func(t *testing.T) {
		_, err := repo.Create(ctx, "cat-user", "Zoo")
		require.NoError(t, err)
		_, err = repo.Create(ctx, "cat-user", "Art")
		require.NoError(t, err)

		cats, err := repo.ListByUser(ctx, "cat-user")
		require.NoError(t, err)
		names := make([]string, 0, len(cats))
		for _, c := range cats {
			names = append(names, c.Name)
		}
		require.Equal(t, []string{"Groceries", "Books", "Zoo", "Art"}, names)
	})

	t.Run("unknown user fails with user not found", func(t *testing.T) {
		ghostTx, err := tx.Begin(ctx)
		require.NoError(t, err)
		defer func() { _ = ghostTx.Rollback(ctx) }()

		_, err = NewCategoryRepository(ghostTx).Create(ctx, "ghost", "Food")
		require.ErrorIs(t, err, models.ErrUserNotFound)
	})
}

func TestCategoryRepository_SeedDefaults(t *testing.T) {
	tx := database.TestTx(t)
	ctx := context.Background()
	database.CreateTestUser(t, tx, "seed-user")

	repo := NewCategoryRepository(tx)

	t.Run("seeds the six defaults", func(t *testing.T) {
		require.NoError(t, repo.SeedDefaults(ctx, "seed-user"))

		cats, err := repo.ListByUser(ctx, "seed-user")
		require.NoError(t, err)
		require.Len(t, cats, len(models.DefaultCategories))
		for i, c := range cats {
			require.Equal(t, models.DefaultCategories[i], c.Name)
		}
	})

	t.Run("repeating the seed is harmless", func(t *testing.T) {
		require.NoError(t, repo.SeedDefaults(ctx, "seed-user"))

		cats, err := repo.ListByUser(ctx, "seed-user")
		require.NoError(t, err)
		require.Len(t, cats, len(models.DefaultCategories))
	})
}
