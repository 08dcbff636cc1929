package report

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
)

func sampleExpenses() []models.Expense {
	return []models.Expense{
		{ID: 1, Amount: decimal.NewFromInt(50), Category: "Food", Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Description: "Groceries"},
		{ID: 2, Amount: decimal.NewFromFloat(30.5), Category: "Transport", Date: time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), Description: "Bus, monthly \"pass\""},
		{ID: 3, Amount: decimal.Zero, Category: "Gadgets", Date: time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), Description: "Free\nsticker"},
	}
}

func TestCSVSink(t *testing.T) {
	t.Parallel()

	t.Run("writes header and one row per expense", func(t *testing.T) {
		t.Parallel()
		data, err := CSVSink{}.Encode(RowsFromExpenses(sampleExpenses()))
		require.NoError(t, err)

		lines := strings.SplitN(string(data), "\n", 3)
		require.Equal(t, "date,category,amount,description", lines[0])
		require.Equal(t, "2024-05-01,Food,50.00,Groceries", lines[1])
	})

	t.Run("header only for empty period", func(t *testing.T) {
		t.Parallel()
		data, err := CSVSink{}.Encode(nil)
		require.NoError(t, err)
		require.Equal(t, "date,category,amount,description\n", string(data))
	})

	t.Run("round trips stored records", func(t *testing.T) {
		t.Parallel()
		expenses := sampleExpenses()
		data, err := CSVSink{}.Encode(RowsFromExpenses(expenses))
		require.NoError(t, err)

		rows, err := ParseCSV(data)
		require.NoError(t, err)
		require.Len(t, rows, len(expenses))
		for i, row := range rows {
			require.True(t, expenses[i].Date.Equal(row.Date))
			require.Equal(t, expenses[i].Category, row.Category)
			require.True(t, expenses[i].Amount.Equal(row.Amount))
			require.Equal(t, expenses[i].Description, row.Description)
		}
	})

	t.Run("is byte identical across runs", func(t *testing.T) {
		t.Parallel()
		first, err := CSVSink{}.Encode(RowsFromExpenses(sampleExpenses()))
		require.NoError(t, err)
		second, err := CSVSink{}.Encode(RowsFromExpenses(sampleExpenses()))
		require.NoError(t, err)
		require.Equal(t, first, second)
	})
}

func TestParseCSV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"wrong header", "id,date,amount,description\n"},
		{"bad date", "date,category,amount,description\n05/01/2024,Food,1.00,x\n"},
		{"bad amount", "date,category,amount,description\n2024-05-01,Food,ten,x\n"},
		{"missing column", "date,category,amount,description\n2024-05-01,Food,1.00\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseCSV([]byte(tt.input))
			require.Error(t, err)
		})
	}
}

func TestCSVRoundTripLineEndings(t *testing.T) {
	t.Parallel()

	in := []models.Expense{{
		ID:          1,
		Amount:      decimal.NewFromInt(12),
		Category:    "Food",
		Date:        time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		Description: models.NormalizeText("line one\r\nline two\rline three"),
	}}

	data, err := CSVSink{}.Encode(RowsFromExpenses(in))
	require.NoError(t, err)

	rows, err := ParseCSV(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "line one\nline two\nline three", rows[0].Description)
}

func FuzzCSVRoundTrip(f *testing.F) {
	f.Add("Food", "Lunch", int64(1250))
	f.Add("", "", int64(0))
	f.Add("Trip, \"abroad\"", "line one\nline two", int64(99999999))
	f.Add("Café", "naïve résumé", int64(1))
	f.Add("Bills\r", "line one\r\nline two\rline three", int64(4200))

	f.Fuzz(func(t *testing.T, category, description string, cents int64) {
		if cents < 0 {
			t.Skip()
		}

		in := Row{
			Date:        time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			Category:    models.NormalizeText(category),
			Amount:      decimal.New(cents, -2),
			Description: models.NormalizeText(description),
		}
		data, err := CSVSink{}.Encode([]Row{in})
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}

		rows, err := ParseCSV(data)
		if err != nil {
			t.Fatalf("ParseCSV(%q): %v", data, err)
		}
		if len(rows) != 1 {
			t.Fatalf("got %d rows, want 1", len(rows))
		}
		out := rows[0]
		if out.Category != in.Category || out.Description != in.Description || !out.Amount.Equal(in.Amount) {
			t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
		}
	})
}
