package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"expense-tracker/internal/core"
	"expense-tracker/internal/services"
	"expense-tracker/internal/storage/memory"
)

type downReader struct{}

func (downReader) FetchAll(context.Context) services.Result[[]core.Expense] {
	return services.Result[[]core.Expense]{Value: []core.Expense{}, Reason: services.ReasonUnavailable, Err: errors.New("refused")}
}

func scenarioService() *services.ExpenseService {
	return services.NewExpenseService(memory.New([]core.Expense{
		{ID: "e1", Amount: core.Money{Cents: 2000}, Description: "Groceries", Category: core.Food, Date: core.NewDate(2024, 1, 5), PaymentMethod: core.Cash},
		{ID: "e2", Amount: core.Money{Cents: 3000}, Description: "Restaurant", Category: core.Food, Date: core.NewDate(2024, 2, 10), PaymentMethod: core.CreditCard},
		{ID: "e3", Amount: core.Money{Cents: 1500}, Description: "Train", Category: core.Travel, Date: core.NewDate(2024, 1, 20), PaymentMethod: core.Cash},
	}), nil)
}

func TestRunCheck(t *testing.T) {
	var buf bytes.Buffer
	if err := runCheck(context.Background(), scenarioService(), &buf); err != nil {
		t.Fatalf("check: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Connection OK: 3 expenses") || !strings.Contains(out, `"id": "e1"`) {
		t.Fatalf("unexpected output:\n%s", out)
	}

	buf.Reset()
	if err := runCheck(context.Background(), services.NewExpenseService(memory.New(nil), nil), &buf); err != nil {
		t.Fatalf("check empty: %v", err)
	}
	if strings.Contains(buf.String(), "First record") {
		t.Fatalf("empty store should not print a record")
	}

	if err := runCheck(context.Background(), downReader{}, &buf); err == nil {
		t.Fatalf("expected error when the store is down")
	}
}

func TestRunSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := runSummary(context.Background(), scenarioService(), &buf); err != nil {
		t.Fatalf("summary: %v", err)
	}
	var compacted bytes.Buffer
	if err := json.Compact(&compacted, buf.Bytes()); err != nil {
		t.Fatalf("summary is not JSON: %v", err)
	}
	compact := compacted.String()
	for _, want := range []string{
		`"totalAmount":65`,
		`"byCategory":{"Food":50,"Travel":15}`,
		`"byMonth":{"2024-01":35,"2024-02":30}`,
		`"byPaymentMethod":{"Cash":35,"Credit Card":30}`,
	} {
		if !strings.Contains(compact, want) {
			t.Fatalf("summary missing %s in %s", want, compact)
		}
	}
	if err := runSummary(context.Background(), downReader{}, &buf); err == nil {
		t.Fatalf("expected error when the store is down")
	}
}
