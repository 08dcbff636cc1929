//go:build ignore
// +build ignore

// Renders sample exports for a made-up month so layout changes can be eyeballed:
//
//	go run generate_graph.go
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/expense-ledger/internal/budget"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
	"gitlab.com/yelinaung/expense-ledger/internal/report"
)

func main() {
	period, _ := models.MonthPeriod(2026, time.January)
	day := func(d int) time.Time { return time.Date(2026, time.January, d, 0, 0, 0, 0, time.UTC) }

	categories := make([]models.Category, len(models.DefaultCategories))
	for i, name := range models.DefaultCategories {
		categories[i] = models.Category{ID: i + 1, Name: name}
	}

	var expenses []models.Expense
	for i, e := range []struct {
		amount   float64
		category string
		desc     string
	}{
		{150.50, "Food", "Groceries"},
		{130.50, "Food", "Dining out"},
		{60.00, "Transport", "Train pass"},
		{25.00, "Entertainment", "Cinema"},
		{120.00, "Rent", "Storage unit"},
		{45.00, "Gadgets", "Headphones"},
	} {
		expenses = append(expenses, models.Expense{
			ID:          int64(i + 1),
			Amount:      decimal.NewFromFloat(e.amount),
			Category:    e.category,
			Date:        day(i*4 + 1),
			Description: e.desc,
		})
	}

	summary := budget.Summarize(period, categories, expenses, &models.Goal{Amount: decimal.NewFromInt(600)})

	exports, err := report.NewGenerator().All(summary)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, export := range exports {
		if err := os.WriteFile(export.Name, export.Data, 0600); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✓ Created %s\n", export.Name)
	}
}
