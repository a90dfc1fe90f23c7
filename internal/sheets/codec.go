// Package sheets provides Google Sheets import/export for the tracker's
// data. The value-matrix codec here is pure so it can be tested without the
// network; the service wrapper adds auth, batching, and retry.
package sheets

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dhruvkb/pennyflow/internal/model"
)

// Tab names in the exported spreadsheet.
const (
	SheetTransactions      = "Transactions"
	SheetIncomeCategories  = "Income Categories"
	SheetExpenseCategories = "Expense Categories"
)

// TransactionHeader is the header row of the Transactions tab.
var TransactionHeader = []any{"Date", "Description", "Category", "Amount", "Type"}

// TransactionRows renders the collection as the Transactions tab: header
// row, then one row per transaction with the unsigned amount and an
// explicit Income/Expense type column.
func TransactionRows(transactions []model.Transaction) [][]any {
	rows := make([][]any, 0, len(transactions)+1)
	rows = append(rows, TransactionHeader)
	for _, t := range transactions {
		typeLabel := "Expense"
		if t.Amount > 0 {
			typeLabel = "Income"
		}
		rows = append(rows, []any{
			t.Date.Format("Jan 2, 2006"),
			t.Description,
			t.Category,
			t.Magnitude(),
			typeLabel,
		})
	}
	return rows
}

// CategoryRows renders a category list as a single-column tab with a title
// row.
func CategoryRows(title string, names []string) [][]any {
	rows := make([][]any, 0, len(names)+1)
	rows = append(rows, []any{title})
	for _, name := range names {
		rows = append(rows, []any{name})
	}
	return rows
}

// ImportResult reports a parsed Transactions tab. Malformed rows are
// dropped, not fatal: Skipped counts them and Transactions carries the rest
// (with ids unassigned).
type ImportResult struct {
	Transactions []model.Transaction
	Skipped      int
}

// ParseTransactionRows decodes a Transactions tab. Column headers are
// matched case-insensitively; rows with an unparseable date or a zero or
// unparseable amount are skipped.
func ParseTransactionRows(values [][]any) (ImportResult, error) {
	if len(values) == 0 {
		return ImportResult{}, fmt.Errorf("transactions sheet is empty")
	}

	cols := headerIndex(values[0])
	dateCol, hasDate := cols["date"]
	amountCol, hasAmount := cols["amount"]
	if !hasDate || !hasAmount {
		return ImportResult{}, fmt.Errorf("transactions sheet is missing Date or Amount column")
	}

	var result ImportResult
	for _, row := range values[1:] {
		date, ok := ParseDate(cell(row, dateCol))
		if !ok {
			result.Skipped++
			continue
		}
		amount, ok := parseAmount(cell(row, amountCol))
		if !ok || amount == 0 {
			result.Skipped++
			continue
		}

		typeLabel := cellString(row, cols, "type")
		isIncome := strings.EqualFold(typeLabel, "income")
		if typeLabel == "" {
			isIncome = amount > 0
		}

		magnitude := math.Abs(amount)
		signed := -magnitude
		if isIncome {
			signed = magnitude
		}

		category := cellString(row, cols, "category")
		if category == "" {
			if isIncome {
				category = "Other Income"
			} else {
				category = "Uncategorized"
			}
		}

		result.Transactions = append(result.Transactions, model.Transaction{
			Amount:      signed,
			Category:    category,
			Date:        date,
			Description: cellString(row, cols, "description"),
		})
	}
	return result, nil
}

// ParseCategoryRows decodes a single-column category tab, dropping the
// title row and blank cells.
func ParseCategoryRows(values [][]any) []string {
	if len(values) < 2 {
		return nil
	}
	var names []string
	for _, row := range values[1:] {
		if len(row) == 0 {
			continue
		}
		if name := strings.TrimSpace(fmt.Sprint(row[0])); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func headerIndex(header []any) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(fmt.Sprint(h)))
		if name == "" {
			continue
		}
		if _, taken := cols[name]; !taken {
			cols[name] = i
		}
	}
	return cols
}

func cell(row []any, i int) any {
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}

func cellString(row []any, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok {
		return ""
	}
	v := cell(row, i)
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func parseAmount(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// dateLayouts are tried in order; first parse wins. Ambiguous slash and
// dash forms resolve month-first, then day-first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006/01/02",
	"01/02/2006",
	"02/01/2006",
	"01-02-2006",
	"02-01-2006",
}

// ParseDate accepts the textual date formats tolerated on import, plus
// Excel serial day numbers (days since 1900-01-01, carrying Excel's
// leap-year off-by-two).
func ParseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return d, true
	case float64:
		return excelSerialDate(d), true
	case int:
		return excelSerialDate(float64(d)), true
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return time.Time{}, false
		}
		if serial, err := strconv.ParseFloat(s, 64); err == nil {
			return excelSerialDate(serial), true
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func excelSerialDate(serial float64) time.Time {
	epoch := time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	return epoch.AddDate(0, 0, int(serial)-2)
}
