// Package report turns budget summaries into CSV, PDF and chart exports.
package report

import (
	"errors"
	"fmt"

	"gitlab.com/yelinaung/expense-ledger/internal/budget"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
)

// Export is a generated file.
type Export struct {
	Name        string
	ContentType string
	Data        []byte
}

// Generator renders summaries through its sinks.
type Generator struct {
	tabular  TabularSink
	document DocumentSink
	policy   PageBreakPolicy
}

// NewGenerator creates a Generator with the CSV and PDF sinks.
func NewGenerator() *Generator {
	return &Generator{
		tabular:  CSVSink{},
		document: NewPDFSink(),
		policy:   DefaultPageBreakPolicy,
	}
}

// NewGeneratorWithSinks creates a Generator with custom sinks.
func NewGeneratorWithSinks(tabular TabularSink, document DocumentSink, policy PageBreakPolicy) *Generator {
	return &Generator{tabular: tabular, document: document, policy: policy}
}

// Tabular exports every expense in the summary, one row each.
func (g *Generator) Tabular(summary *budget.Summary) (*Export, error) {
	data, err := g.tabular.Encode(RowsFromExpenses(summary.Expenses))
	if err != nil {
		return nil, err
	}
	return &Export{
		Name:        fmt.Sprintf("expenses_%s.csv", fileStem(summary.Period)),
		ContentType: "text/csv",
		Data:        data,
	}, nil
}

// Document exports the formatted report.
func (g *Generator) Document(summary *budget.Summary) (*Export, error) {
	data, err := g.document.Render(BuildDocument(summary), g.policy)
	if err != nil {
		return nil, err
	}
	return &Export{
		Name:        fmt.Sprintf("report_%s.pdf", documentStem(summary.Period)),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

// Chart exports the category pie chart. Returns ErrNoData for a period
// without spending.
func (g *Generator) Chart(summary *budget.Summary) (*Export, error) {
	data, err := CategoryChart(summary)
	if err != nil {
		return nil, err
	}
	return &Export{
		Name:        fmt.Sprintf("chart_%s.png", fileStem(summary.Period)),
		ContentType: "image/png",
		Data:        data,
	}, nil
}

// All renders every export. The chart is left out when there is no spending.
func (g *Generator) All(summary *budget.Summary) ([]Export, error) {
	var exports []Export
	for _, render := range []func(*budget.Summary) (*Export, error){g.Tabular, g.Document, g.Chart} {
		export, err := render(summary)
		if errors.Is(err, ErrNoData) {
			continue
		}
		if err != nil {
			return nil, err
		}
		exports = append(exports, *export)
	}
	return exports, nil
}

// BuildDocument lays out the report text for a summary.
func BuildDocument(summary *budget.Summary) Document {
	title := "Report: " + summary.Period.String()
	if summary.Period.IsWholeMonth() {
		title = fmt.Sprintf("Monthly Report: %d/%d", int(summary.Period.Start.Month()), summary.Period.Start.Year())
	}

	doc := Document{
		Title:     title,
		CreatedAt: summary.Period.Start,
		Header: []string{
			title,
			fmt.Sprintf("Total Spending: $%s", summary.Total.StringFixed(2)),
			fmt.Sprintf("Goal: $%s", summary.Goal.StringFixed(2)),
			fmt.Sprintf("Spending Status: %s", summary.Status.Label()),
		},
		Body: make([]string, 0, len(summary.Expenses)),
	}

	for _, exp := range summary.Expenses {
		doc.Body = append(doc.Body, fmt.Sprintf("%s | %s | $%s | %s",
			exp.Date.Format(models.DateLayout), exp.Category, exp.Amount.StringFixed(2), exp.Description))
	}
	return doc
}

// fileStem is "2024-05" for a calendar month, otherwise the two dates.
func fileStem(p models.Period) string {
	if p.IsWholeMonth() {
		return fmt.Sprintf("%d-%02d", p.Start.Year(), int(p.Start.Month()))
	}
	return p.Start.Format(models.DateLayout) + "_" + p.End.Format(models.DateLayout)
}

// documentStem is "2024_5" for a calendar month, otherwise the two dates.
func documentStem(p models.Period) string {
	if p.IsWholeMonth() {
		return fmt.Sprintf("%d_%d", p.Start.Year(), int(p.Start.Month()))
	}
	return fileStem(p)
}
