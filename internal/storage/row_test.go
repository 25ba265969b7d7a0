package storage

import (
	"testing"

	"expense-tracker/internal/core"
)

func TestRowExpenseCoercion(t *testing.T) {
	cases := []struct {
		name      string
		row       Row
		wantCents int64
		wantDate  string
	}{
		{"plain", Row{ID: "1", Amount: "20", Date: "2024-01-05"}, 2000, "2024-01-05"},
		{"numeric scale", Row{ID: "2", Amount: "15.5000", Date: "2024-01-05"}, 1550, "2024-01-05"},
		{"iso timestamp", Row{ID: "3", Amount: "1.23", Date: "2024-01-05T13:45:00+00:00"}, 123, "2024-01-05"},
		{"pg timestamp", Row{ID: "4", Amount: "1.23", Date: "2024-01-05 00:00:00+00"}, 123, "2024-01-05"},
		{"bad date kept", Row{ID: "5", Amount: "1", Date: "yesterday"}, 100, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := tc.row.Expense()
			if e.Amount.Cents != tc.wantCents {
				t.Fatalf("amount = %d, want %d", e.Amount.Cents, tc.wantCents)
			}
			if e.Date.String() != tc.wantDate {
				t.Fatalf("date = %q, want %q", e.Date.String(), tc.wantDate)
			}
		})
	}
}

func TestRowExpenseKeepsRecordWithBadAmount(t *testing.T) {
	for _, amount := range []string{"abc", "-5", "", "10000000000"} {
		e := Row{ID: "x", Amount: amount, Description: "Lunch", Category: "Food", Date: "2024-01-01", PaymentMethod: "Cash"}.Expense()
		if e.ID != "x" || e.Description != "Lunch" || e.Date.String() != "2024-01-01" {
			t.Fatalf("amount %q: record fields lost: %+v", amount, e)
		}
		if !e.Amount.Unreadable() || e.Amount.Cents != 0 {
			t.Fatalf("amount %q: want unreadable zero, got %+v", amount, e.Amount)
		}
	}
}

func TestRowRoundTrip(t *testing.T) {
	in := core.Expense{
		ID:            "abc",
		Amount:        core.Money{Cents: 1234},
		Description:   "Lunch",
		Category:      core.Food,
		Date:          core.NewDate(2024, 3, 9),
		PaymentMethod: core.CreditCard,
		IsRecurring:   true,
	}
	row := RowFromExpense(in)
	if row.Amount != "12.34" || row.Date != "2024-03-09" || row.PaymentMethod != "Credit Card" {
		t.Fatalf("unexpected row %+v", row)
	}
	out := row.Expense()
	if out.ID != in.ID || out.Amount != in.Amount || out.Description != in.Description ||
		out.Category != in.Category || !out.Date.Equal(in.Date.Time) ||
		out.PaymentMethod != in.PaymentMethod || out.IsRecurring != in.IsRecurring {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestRowKeepsUnknownEnumValues(t *testing.T) {
	e := Row{ID: "1", Amount: "1", Date: "2024-01-01", Category: "Groceries", PaymentMethod: "Cheque"}.Expense()
	if e.Category != "Groceries" || e.PaymentMethod != "Cheque" {
		t.Fatalf("enum values rewritten: %+v", e)
	}
}
