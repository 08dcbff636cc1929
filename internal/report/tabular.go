package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
)

// Columns is the fixed tabular export schema.
var Columns = []string{"date", "category", "amount", "description"}

// Row is one exported expense.
type Row struct {
	Date        time.Time
	Category    string
	Amount      decimal.Decimal
	Description string
}

// RowsFromExpenses converts expenses to export rows, keeping their order.
func RowsFromExpenses(expenses []models.Expense) []Row {
	rows := make([]Row, len(expenses))
	for i := range expenses {
		rows[i] = Row{
			Date:        expenses[i].Date,
			Category:    expenses[i].Category,
			Amount:      expenses[i].Amount,
			Description: expenses[i].Description,
		}
	}
	return rows
}

// TabularSink serializes rows with the Columns schema.
type TabularSink interface {
	Encode(rows []Row) ([]byte, error)
}

// CSVSink writes rows as comma-separated values with a header line.
type CSVSink struct{}

// Encode implements TabularSink.
func (CSVSink) Encode(rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(Columns); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Date.Format(models.DateLayout),
			row.Category,
			row.Amount.StringFixed(2),
			row.Description,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ParseCSV reads rows written by CSVSink.
func ParseCSV(data []byte) ([]Row, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = len(Columns)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 || !slices.Equal(records[0], Columns) {
		return nil, fmt.Errorf("unexpected CSV header")
	}

	rows := make([]Row, 0, len(records)-1)
	for i, record := range records[1:] {
		date, err := time.Parse(models.DateLayout, record[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid date: %w", i+1, err)
		}
		amount, err := decimal.NewFromString(record[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid amount: %w", i+1, err)
		}
		rows = append(rows, Row{
			Date:        date,
			Category:    record[1],
			Amount:      amount,
			Description: record[3],
		})
	}
	return rows, nil
}
