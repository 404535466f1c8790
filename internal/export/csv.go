// Package export writes expenses and aggregated totals as CSV or XLSX
// artifacts for collaborators that present or archive them.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"expense-ledger/internal/models"
	"expense-ledger/internal/summary"
)

var expenseHeader = []string{"ID", "Date", "Amount", "Category", "Description", "Payment Method"}

// ExpensesCSV writes one row per expense, in the given order.
func ExpensesCSV(w io.Writer, expenses []models.Expense) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(expenseHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, e := range expenses {
		row := []string{
			strconv.FormatInt(e.ID, 10),
			e.Date,
			formatAmount(e.Amount),
			e.Category,
			e.Description,
			e.PaymentMethod,
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write expense %d: %w", e.ID, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// TotalsCSV writes a two-column table of totals sorted by key.
func TotalsCSV(w io.Writer, title string, totals map[string]float64) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write([]string{title, "Total"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, key := range summary.SortedKeys(totals) {
		if err := csvWriter.Write([]string{key, formatAmount(totals[key])}); err != nil {
			return fmt.Errorf("failed to write total %q: %w", key, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
