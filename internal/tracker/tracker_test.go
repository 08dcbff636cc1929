package tracker

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gitlab.com/yelinaung/expense-ledger/internal/logger"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
)

func TestMain(m *testing.M) {
	logger.InitHashSaltForTesting("test-salt-for-unit-tests-minimum-32-chars")
	os.Exit(m.Run())
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestValidation covers input checks that fail before the store is touched.
func TestValidation(t *testing.T) {
	t.Parallel()

	tr := New(nil)
	ctx := context.Background()
	rc := models.NewRequestContext("alice")

	valid := ExpenseInput{
		Amount:      decimal.NewFromInt(10),
		Category:    "Food",
		Date:        day(2024, 5, 1),
		Description: "Lunch",
	}

	t.Run("missing username", func(t *testing.T) {
		t.Parallel()
		_, err := tr.AddExpense(ctx, models.RequestContext{}, valid)
		require.ErrorIs(t, err, models.ErrMissingUsername)
	})

	t.Run("missing description", func(t *testing.T) {
		t.Parallel()
		in := valid
		in.Description = "   "
		_, err := tr.AddExpense(ctx, rc, in)
		require.ErrorIs(t, err, models.ErrMissingDescription)

		var vErr *models.ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Equal(t, "description", vErr.Field)
	})

	t.Run("negative amount", func(t *testing.T) {
		t.Parallel()
		in := valid
		in.Amount = decimal.NewFromFloat(-0.01)
		_, err := tr.RecordExpense(ctx, rc, in, true)
		require.ErrorIs(t, err, models.ErrInvalidAmount)
	})

	t.Run("missing date", func(t *testing.T) {
		t.Parallel()
		in := valid
		in.Date = time.Time{}
		_, err := tr.AddExpenseWithWishlistCheck(ctx, rc, in)
		require.ErrorIs(t, err, models.ErrMissingDate)
	})

	t.Run("empty category name", func(t *testing.T) {
		t.Parallel()
		_, err := tr.AddCategory(ctx, rc, "  ")
		require.ErrorIs(t, err, models.ErrMissingCategory)
	})

	t.Run("category name too long", func(t *testing.T) {
		t.Parallel()
		_, err := tr.AddCategory(ctx, rc, strings.Repeat("x", models.MaxCategoryNameLength+1))
		require.ErrorIs(t, err, models.ErrCategoryTooLong)
	})

	t.Run("empty wishlist item", func(t *testing.T) {
		t.Parallel()
		_, err := tr.AddWishlistItem(ctx, rc, "")
		require.ErrorIs(t, err, models.ErrMissingItem)
	})

	t.Run("non-positive goal", func(t *testing.T) {
		t.Parallel()
		for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5), decimal.NewFromFloat(0.001)} {
			_, err := tr.SetGoal(ctx, rc, 2024, time.May, amount)
			require.ErrorIs(t, err, models.ErrInvalidGoalAmount, amount.String())
		}
	})

	t.Run("goal month out of range", func(t *testing.T) {
		t.Parallel()
		_, err := tr.SetGoal(ctx, rc, 2024, 13, decimal.NewFromInt(100))
		require.ErrorIs(t, err, models.ErrInvalidPeriod)

		_, _, err = tr.GetGoal(ctx, rc, 2024, 0)
		require.ErrorIs(t, err, models.ErrInvalidPeriod)
	})

	t.Run("reversed date range", func(t *testing.T) {
		t.Parallel()
		_, err := tr.ExpensesByDateRange(ctx, rc, day(2024, 5, 2), day(2024, 5, 1))
		require.ErrorIs(t, err, models.ErrInvalidPeriod)
	})
}

func TestExpenseInput(t *testing.T) {
	t.Parallel()

	t.Run("empty category falls back to default bucket", func(t *testing.T) {
		t.Parallel()
		exp := ExpenseInput{Amount: decimal.NewFromInt(1), Date: day(2024, 5, 1), Description: "x"}.toExpense("alice")
		require.Equal(t, models.DefaultCategory, exp.Category)
	})

	t.Run("normalizes amount and date", func(t *testing.T) {
		t.Parallel()
		exp := ExpenseInput{
			Amount:      decimal.RequireFromString("12.345"),
			Category:    " Food ",
			Date:        time.Date(2024, 5, 1, 22, 30, 0, 0, time.UTC),
			Description: "Dinner",
		}.toExpense("alice")
		require.Equal(t, "12.35", exp.Amount.StringFixed(2))
		require.Equal(t, "Food", exp.Category)
		require.Equal(t, day(2024, 5, 1), exp.Date)
	})

	t.Run("normalizes line endings", func(t *testing.T) {
		t.Parallel()
		exp := ExpenseInput{
			Amount:      decimal.NewFromInt(3),
			Category:    "Home\r\nOffice",
			Date:        day(2024, 5, 1),
			Description: "line one\r\nline two\rline three",
		}.toExpense("alice")
		require.Equal(t, "Home\nOffice", exp.Category)
		require.Equal(t, "line one\nline two\nline three", exp.Description)
	})
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	items := []models.WishlistItem{
		{ID: 1, Item: "New Shoes"},
		{ID: 2, Item: "Headphones"},
		{ID: 3, Item: "New Shoe"},
		{ID: 4, Item: "New Shoes"},
		{ID: 5, Item: "Few Shoes"},
	}

	t.Run("ranks by distance and drops duplicates", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, []string{"New Shoes", "New Shoe", "Few Shoes"}, suggest("new shoes", items))
	})

	t.Run("ignores distant items", func(t *testing.T) {
		t.Parallel()
		require.Empty(t, suggest("Bicycle", items))
	})

	t.Run("caps suggestions", func(t *testing.T) {
		t.Parallel()
		many := []models.WishlistItem{{Item: "ab"}, {Item: "ac"}, {Item: "ad"}, {Item: "ae"}}
		require.Len(t, suggest("aa", many), maxSuggestions)
	})
}

func TestPendingConfirmationError(t *testing.T) {
	t.Parallel()

	err := &PendingConfirmationError{Match: MatchResult{Suggestions: []string{"New Shoes"}}}
	require.ErrorIs(t, err, models.ErrConfirmationRequired)
	require.Equal(t, models.ErrConfirmationRequired.Error(), err.Error())
}
