package storage

import (
	"log/slog"
	"strings"

	"expense-tracker/internal/core"
)

// Row is the column-level shape of an expense in the relational stores.
// Amount and Date carry the database text form so that numeric and timestamp
// columns can be coerced the same way for every driver.
type Row struct {
	ID            string
	Amount        string
	Description   string
	Category      string
	Date          string
	PaymentMethod string
	IsRecurring   bool
}

// RowFromExpense maps a record to its column values.
func RowFromExpense(e core.Expense) Row {
	return Row{
		ID:            e.ID,
		Amount:        e.Amount.Fixed(),
		Description:   e.Description,
		Category:      string(e.Category),
		Date:          e.Date.String(),
		PaymentMethod: string(e.PaymentMethod),
		IsRecurring:   e.IsRecurring,
	}
}

// Expense maps a row back to a record without failing, so one bad row never
// hides the others. Timestamps are truncated to their calendar date and an
// unparsable date yields the zero Date. An amount that is not a valid
// non-negative decimal becomes core.UnreadableMoney. Category and payment
// method are kept as stored, even when outside their enumerations.
func (r Row) Expense() core.Expense {
	amount, err := core.ParseMoney(r.Amount)
	if err != nil {
		slog.Warn("Stored expense has an unreadable amount, counting it as zero",
			"id", r.ID, "amount", r.Amount, "error", err)
		amount = core.UnreadableMoney()
	}
	date, err := core.ParseDate(r.Date)
	if err != nil {
		date = core.Date{}
	}
	return core.Expense{
		ID:            r.ID,
		Amount:        amount,
		Description:   strings.TrimSpace(r.Description),
		Category:      core.Category(strings.TrimSpace(r.Category)),
		Date:          date,
		PaymentMethod: core.PaymentMethod(strings.TrimSpace(r.PaymentMethod)),
		IsRecurring:   r.IsRecurring,
	}
}
