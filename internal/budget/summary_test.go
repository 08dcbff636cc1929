package budget

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
	"pgregory.net/rapid"
)

func day(d int) time.Time {
	return time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC)
}

func registry(names ...string) []models.Category {
	cats := make([]models.Category, len(names))
	for i, name := range names {
		cats[i] = models.Category{ID: i + 1, Username: "alice", Name: name}
	}
	return cats
}

func mayPeriod(t *testing.T) models.Period {
	t.Helper()
	p, err := models.MonthPeriod(2024, time.May)
	require.NoError(t, err)
	return p
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	cats := registry(models.DefaultCategories...)
	expenses := []models.Expense{
		{ID: 1, Amount: decimal.NewFromInt(50), Category: "Food", Date: day(1), Description: "Groceries"},
		{ID: 2, Amount: decimal.NewFromInt(30), Category: "Transport", Date: day(15), Description: "Bus pass"},
	}

	t.Run("on track at exactly 80 percent", func(t *testing.T) {
		t.Parallel()
		s := Summarize(mayPeriod(t), cats, expenses, &models.Goal{Amount: decimal.NewFromInt(100)})

		require.Equal(t, "80.00", s.Total.StringFixed(2))
		require.True(t, s.HasGoal)
		require.Equal(t, StatusOnTrack, s.Status)

		pct, ok := s.Percent()
		require.True(t, ok)
		require.Equal(t, "80.0", pct.StringFixed(1))
	})

	t.Run("overspent when goal is 60", func(t *testing.T) {
		t.Parallel()
		s := Summarize(mayPeriod(t), cats, expenses, &models.Goal{Amount: decimal.NewFromInt(60)})

		require.Equal(t, StatusOverspent, s.Status)
		pct, ok := s.Percent()
		require.True(t, ok)
		require.Equal(t, "133.3", pct.StringFixed(1))
	})

	t.Run("no goal", func(t *testing.T) {
		t.Parallel()
		s := Summarize(mayPeriod(t), cats, expenses, nil)

		require.False(t, s.HasGoal)
		require.Equal(t, StatusNoGoal, s.Status)
		require.True(t, s.Goal.IsZero())
		_, ok := s.Percent()
		require.False(t, ok)
	})

	t.Run("breakdown is zero filled in registry order", func(t *testing.T) {
		t.Parallel()
		s := Summarize(mayPeriod(t), cats, expenses, nil)

		require.Len(t, s.Breakdown, len(models.DefaultCategories))
		for i, entry := range s.Breakdown {
			require.Equal(t, models.DefaultCategories[i], entry.Name)
			require.Equal(t, Registered, entry.Kind)
		}
		require.Equal(t, "50", s.Breakdown[0].Amount.String())
		require.Equal(t, "30", s.Breakdown[1].Amount.String())
		require.True(t, s.Breakdown[2].Amount.IsZero())
	})

	t.Run("orphans follow registered categories", func(t *testing.T) {
		t.Parallel()
		withOrphans := append([]models.Expense{
			{ID: 3, Amount: decimal.NewFromInt(12), Category: "Gadgets", Date: day(3), Description: "Cable"},
			{ID: 4, Amount: decimal.NewFromInt(8), Category: "Books", Date: day(2), Description: "Novel"},
			{ID: 5, Amount: decimal.NewFromInt(1), Category: "Gadgets", Date: day(4), Description: "Adapter"},
		}, expenses...)

		s := Summarize(mayPeriod(t), registry("Food", "Transport"), withOrphans, nil)

		require.Len(t, s.Breakdown, 4)
		require.Equal(t, "Books", s.Breakdown[2].Name)
		require.Equal(t, Orphan, s.Breakdown[2].Kind)
		require.Equal(t, "Gadgets", s.Breakdown[3].Name)
		require.Equal(t, "13", s.Breakdown[3].Amount.String())
	})

	t.Run("empty period", func(t *testing.T) {
		t.Parallel()
		s := Summarize(mayPeriod(t), cats, nil, &models.Goal{Amount: decimal.NewFromInt(100)})

		require.True(t, s.Empty())
		require.True(t, s.Total.IsZero())
		require.Nil(t, s.Highest)
		require.Nil(t, s.Lowest)
		require.Equal(t, StatusOnTrack, s.Status)
	})

	t.Run("extremes break ties by first in date order", func(t *testing.T) {
		t.Parallel()
		tied := []models.Expense{
			{ID: 9, Amount: decimal.NewFromInt(20), Category: "Food", Date: day(10), Description: "later"},
			{ID: 7, Amount: decimal.NewFromInt(20), Category: "Food", Date: day(5), Description: "earlier"},
			{ID: 8, Amount: decimal.NewFromInt(20), Category: "Food", Date: day(5), Description: "same day"},
		}
		s := Summarize(mayPeriod(t), cats, tied, nil)

		require.Equal(t, int64(7), s.Highest.ID)
		require.Equal(t, int64(7), s.Lowest.ID)
		require.Equal(t, []int64{7, 8, 9}, []int64{s.Expenses[0].ID, s.Expenses[1].ID, s.Expenses[2].ID})
	})

	t.Run("ignores non-positive goal", func(t *testing.T) {
		t.Parallel()
		s := Summarize(mayPeriod(t), cats, expenses, &models.Goal{Amount: decimal.Zero})
		require.Equal(t, StatusNoGoal, s.Status)
	})
}

// TestBreakdownProperty checks that every registered category appears exactly
// once, every orphan appears, and entries sum to the total.
func TestBreakdownProperty(t *testing.T) {
	t.Parallel()

	registered := []string{"Food", "Transport", "Rent"}
	labels := append([]string{"Gadgets", "Books", ""}, registered...)

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 30).Draw(t, "n")
		expenses := make([]models.Expense, n)
		for i := range expenses {
			expenses[i] = models.Expense{
				ID:       int64(i + 1),
				Amount:   decimal.New(rapid.Int64Range(0, 100_000).Draw(t, "cents"), -2),
				Category: rapid.SampledFrom(labels).Draw(t, "category"),
				Date:     day(rapid.IntRange(1, 31).Draw(t, "day")),
			}
		}

		s := Summarize(models.Period{Start: day(1), End: day(31)}, registry(registered...), expenses, nil)

		sum := decimal.Zero
		seen := make(map[string]int)
		for i, entry := range s.Breakdown {
			sum = sum.Add(entry.Amount)
			seen[entry.Name]++
			if i < len(registered) && (entry.Kind != Registered || entry.Name != registered[i]) {
				t.Fatalf("entry %d = %+v, want registered %s", i, entry, registered[i])
			}
			if i >= len(registered) && entry.Kind != Orphan {
				t.Fatalf("entry %d = %+v, want orphan", i, entry)
			}
		}
		if !sum.Equal(s.Total) {
			t.Fatalf("breakdown sum %s != total %s", sum, s.Total)
		}
		for name, count := range seen {
			if count != 1 {
				t.Fatalf("category %q appears %d times", name, count)
			}
		}
		for _, exp := range expenses {
			name := exp.Category
			if name == "" {
				name = models.DefaultCategory
			}
			if seen[name] == 0 {
				t.Fatalf("category %q dropped from breakdown", name)
			}
		}
	})
}
