package sheets

import (
	"fmt"
	"strings"

	"expense-tracker/internal/core"
)

// EncodeRow returns the cell values for e in Header order. Amounts are
// written as plain decimals so the sheet parses them as numbers.
func EncodeRow(e core.Expense) []any {
	return []any{
		e.ID,
		e.Date.String(),
		e.Description,
		e.Amount.Fixed(),
		string(e.Category),
		string(e.PaymentMethod),
		e.IsRecurring,
	}
}

// RowIndex returns the zero-based index of the row whose first cell equals
// id, skipping the header row. It returns -1 when no row matches.
func RowIndex(values [][]any, id string) int {
	for i := 1; i < len(values); i++ {
		if len(values[i]) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(values[i][0])) == id {
			return i
		}
	}
	return -1
}

// IDsFromColumn extracts the non-empty ids from a column A read, skipping
// the header row.
func IDsFromColumn(values [][]any) []string {
	out := make([]string, 0, len(values))
	for i := 1; i < len(values); i++ {
		if len(values[i]) == 0 {
			continue
		}
		if id := strings.TrimSpace(fmt.Sprint(values[i][0])); id != "" {
			out = append(out, id)
		}
	}
	return out
}
