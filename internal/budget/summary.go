package budget

import (
	"sort"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
)

// CategoryKind tells whether a breakdown entry comes from the user's registry.
type CategoryKind int

const (
	// Registered categories exist in the user's category registry.
	Registered CategoryKind = iota
	// Orphan categories appear on expenses but are not registered.
	Orphan
)

func (k CategoryKind) String() string {
	if k == Orphan {
		return "orphan"
	}
	return "registered"
}

// CategoryTotal is the spending for one category in a period.
type CategoryTotal struct {
	Name   string
	Kind   CategoryKind
	Amount decimal.Decimal
}

// Summary is the derived budget state for a period.
type Summary struct {
	Period models.Period
	Total  decimal.Decimal
	// Goal is zero unless HasGoal.
	Goal    decimal.Decimal
	HasGoal bool
	// Ratio is Total/Goal, zero unless HasGoal.
	Ratio  decimal.Decimal
	Status Status
	// Breakdown lists registered categories in registry order followed by
	// orphan categories in the order first seen.
	Breakdown []CategoryTotal
	// Highest and Lowest are nil when the period has no expenses.
	Highest *models.Expense
	Lowest  *models.Expense
	// Expenses are ordered by date then ID.
	Expenses []models.Expense
}

// Percent returns the spend/goal ratio as a percentage rounded to one decimal.
func (s *Summary) Percent() (decimal.Decimal, bool) {
	if !s.HasGoal {
		return decimal.Zero, false
	}
	return s.Ratio.Mul(decimal.NewFromInt(100)).Round(1), true
}

// Empty reports whether the period has no expenses.
func (s *Summary) Empty() bool {
	return len(s.Expenses) == 0
}

// Summarize computes the budget summary for period from the user's
// registered categories, the period's expenses and the month goal, if any.
func Summarize(
	period models.Period,
	categories []models.Category,
	expenses []models.Expense,
	goal *models.Goal,
) *Summary {
	sorted := make([]models.Expense, len(expenses))
	copy(sorted, expenses)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].ID < sorted[j].ID
	})

	s := &Summary{
		Period:   period,
		Total:    decimal.Zero,
		Goal:     decimal.Zero,
		Ratio:    decimal.Zero,
		Expenses: sorted,
	}

	for i := range sorted {
		exp := &sorted[i]
		s.Total = s.Total.Add(exp.Amount)
		if s.Highest == nil || exp.Amount.GreaterThan(s.Highest.Amount) {
			s.Highest = exp
		}
		if s.Lowest == nil || exp.Amount.LessThan(s.Lowest.Amount) {
			s.Lowest = exp
		}
	}

	if goal != nil && goal.Amount.IsPositive() {
		s.Goal = goal.Amount
		s.HasGoal = true
		s.Ratio = s.Total.Div(goal.Amount)
	}
	s.Status = StatusFor(s.Total, s.Goal)
	s.Breakdown = breakdown(categories, sorted)

	return s
}

func breakdown(categories []models.Category, expenses []models.Expense) []CategoryTotal {
	index := make(map[string]int, len(categories))
	totals := make([]CategoryTotal, 0, len(categories))
	for _, cat := range categories {
		if _, ok := index[cat.Name]; ok {
			continue
		}
		index[cat.Name] = len(totals)
		totals = append(totals, CategoryTotal{Name: cat.Name, Kind: Registered, Amount: decimal.Zero})
	}

	for _, exp := range expenses {
		name := exp.Category
		if name == "" {
			name = models.DefaultCategory
		}
		i, ok := index[name]
		if !ok {
			i = len(totals)
			index[name] = i
			totals = append(totals, CategoryTotal{Name: name, Kind: Orphan, Amount: decimal.Zero})
		}
		totals[i].Amount = totals[i].Amount.Add(exp.Amount)
	}

	return totals
}
