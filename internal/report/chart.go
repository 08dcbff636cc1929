package report

import (
	"errors"
	"fmt"

	"github.com/go-analyze/charts"
	"gitlab.com/yelinaung/expense-ledger/internal/budget"
)

// ErrNoData is returned when a period has nothing to chart.
var ErrNoData = errors.New("no spending to chart")

// CategoryChart renders a pie chart of the non-zero category totals as PNG.
func CategoryChart(summary *budget.Summary) ([]byte, error) {
	var values []float64
	var names []string
	for _, entry := range summary.Breakdown {
		if !entry.Amount.IsPositive() {
			continue
		}
		names = append(names, entry.Name)
		values = append(values, entry.Amount.InexactFloat64())
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	p, err := charts.PieRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{
			Text: fmt.Sprintf("Expense Breakdown - %s", summary.Period),
		}),
		charts.LegendLabelsOptionFunc(names),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf, nil
}
