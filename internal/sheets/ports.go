// Package sheets defines the spreadsheet mirror that the worker keeps in step
// with the expense store.
package sheets

import (
	"context"

	"expense-tracker/internal/core"
)

// Header is the first row of the mirror sheet. Column A holds the record id.
var Header = []string{"ID", "Date", "Description", "Amount", "Category", "Payment Method", "Recurring"}

// Ports for outbound adapters.
type (
	ExpenseUpserter interface {
		// Upsert writes e into the row holding its id, appending when absent.
		Upsert(ctx context.Context, e core.Expense) error
	}

	ExpenseRemover interface {
		// Remove deletes the row holding id. A missing row is not an error.
		Remove(ctx context.Context, id string) error
	}

	IDLister interface {
		// IDs returns the record ids currently present in the sheet.
		IDs(ctx context.Context) ([]string, error)
	}

	Mirror interface {
		ExpenseUpserter
		ExpenseRemover
		IDLister
	}
)
