// Package summary aggregates already loaded expenses by category, month and
// year. Nothing here touches the store or keeps state between calls, so results
// go stale as soon as the store changes; reload and call again.
package summary

import (
	"fmt"
	"sort"
	"time"

	"expense-ledger/internal/models"
)

// DateLayout is the only date format the date-keyed totals accept.
const DateLayout = "2006-01-02"

// DateError identifies the expense whose date could not be parsed.
type DateError struct {
	ExpenseID int64
	Date      string
	Err       error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("expense %d: malformed date %q: %v", e.ExpenseID, e.Date, e.Err)
}

func (e *DateError) Unwrap() error { return e.Err }

// CategoryTotals sums amounts by exact category. Categories without expenses
// are absent from the result.
func CategoryTotals(expenses []models.Expense) map[string]float64 {
	totals := make(map[string]float64)
	for _, e := range expenses {
		totals[e.Category] += e.Amount
	}
	return totals
}

// MonthlyTotals sums amounts by "YYYY-MM". The first malformed date aborts the
// call with a *DateError.
func MonthlyTotals(expenses []models.Expense) (map[string]float64, error) {
	return totalsBy(expenses, func(t time.Time) string { return t.Format("2006-01") })
}

// YearlyTotals sums amounts by "YYYY". The first malformed date aborts the call
// with a *DateError.
func YearlyTotals(expenses []models.Expense) (map[string]float64, error) {
	return totalsBy(expenses, func(t time.Time) string { return t.Format("2006") })
}

func totalsBy(expenses []models.Expense, key func(time.Time) string) (map[string]float64, error) {
	totals := make(map[string]float64)
	for _, e := range expenses {
		t, err := time.Parse(DateLayout, e.Date)
		if err != nil {
			return nil, &DateError{ExpenseID: e.ID, Date: e.Date, Err: err}
		}
		totals[key(t)] += e.Amount
	}
	return totals, nil
}

// Total sums every amount.
func Total(expenses []models.Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

// SortedKeys returns the keys of totals in ascending order.
func SortedKeys(totals map[string]float64) []string {
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
