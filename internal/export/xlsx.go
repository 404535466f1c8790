package export

import (
	"fmt"
	"io"

	"expense-ledger/internal/models"
	"expense-ledger/internal/summary"

	"github.com/xuri/excelize/v2"
)

// ExpensesSheet is the name of the sheet holding the raw expense rows.
const ExpensesSheet = "Expenses"

// Sheet is one named table of totals in a workbook.
type Sheet struct {
	Name   string
	Title  string
	Totals map[string]float64
}

var border = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
}

// Workbook builds an XLSX file with an expenses sheet followed by one sheet per
// totals table. The caller closes the returned file.
func Workbook(expenses []models.Expense, sheets ...Sheet) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", ExpensesSheet); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	rows := make([][]any, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, []any{e.ID, e.Date, e.Amount, e.Category, e.Description, e.PaymentMethod})
	}
	if err := writeTable(f, ExpensesSheet, expenseHeader, rows, headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	for _, s := range sheets {
		if _, err := f.NewSheet(s.Name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %q: %w", s.Name, err)
		}
		rows := make([][]any, 0, len(s.Totals))
		for _, key := range summary.SortedKeys(s.Totals) {
			rows = append(rows, []any{key, s.Totals[key]})
		}
		if err := writeTable(f, s.Name, []string{s.Title, "Total"}, rows, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

// WriteWorkbook builds the workbook and writes it to w.
func WriteWorkbook(w io.Writer, expenses []models.Expense, sheets ...Sheet) error {
	f, err := Workbook(expenses, sheets...)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, header []string, rows [][]any, headerStyle int) error {
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write header %s!%s: %w", sheet, cell, err)
		}
	}

	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for r, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write cell %s!%s: %w", sheet, cell, err)
			}
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(header))
	return f.SetColWidth(sheet, "A", lastCol, 18)
}
