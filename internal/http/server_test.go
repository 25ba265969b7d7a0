package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"expense-tracker/internal/core"
	applog "expense-tracker/internal/log"
	"expense-tracker/internal/services"
	"expense-tracker/internal/storage/memory"
)

var errStoreDown = errors.New("store down")

// failingService fails every call the way an unreachable store does.
type failingService struct{}

func (failingService) FetchAll(context.Context) services.Result[[]core.Expense] {
	return services.Result[[]core.Expense]{Value: []core.Expense{}, Reason: services.ReasonUnavailable, Err: errStoreDown}
}
func (failingService) Get(context.Context, string) services.Result[core.Expense] {
	return services.Result[core.Expense]{Reason: services.ReasonUnavailable, Err: errStoreDown}
}
func (failingService) Create(context.Context, core.Expense) services.Result[core.Expense] {
	return services.Result[core.Expense]{Reason: services.ReasonUnavailable, Err: errStoreDown}
}
func (failingService) Update(context.Context, core.Expense) services.Result[core.Expense] {
	return services.Result[core.Expense]{Reason: services.ReasonUnavailable, Err: errStoreDown}
}
func (failingService) Delete(context.Context, string) services.Result[string] {
	return services.Result[string]{Reason: services.ReasonUnavailable, Err: errStoreDown}
}

func scenario() []core.Expense {
	return []core.Expense{
		{ID: "e1", Amount: core.Money{Cents: 2000}, Description: "Groceries", Category: core.Food, Date: core.NewDate(2024, 1, 5), PaymentMethod: core.Cash},
		{ID: "e2", Amount: core.Money{Cents: 3000}, Description: "Restaurant", Category: core.Food, Date: core.NewDate(2024, 2, 10), PaymentMethod: core.CreditCard},
		{ID: "e3", Amount: core.Money{Cents: 1500}, Description: "Bus pass", Category: core.Travel, Date: core.NewDate(2024, 1, 20), PaymentMethod: core.Cash, IsRecurring: true},
	}
}

func newTestServer(t *testing.T, svc ExpenseService, rateLimit int) *Server {
	t.Helper()
	srv, err := NewServer(":0", svc, Options{
		Logger:             applog.New(applog.Config{Level: slog.LevelError, Output: io.Discard}),
		RateLimitPerMinute: rateLimit,
		Now:                func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func memoryService() *services.ExpenseService {
	return services.NewExpenseService(memory.New(scenario()), nil)
}

func do(srv *Server, method, target string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestIndexListsExpensesAndSummary(t *testing.T) {
	srv := newTestServer(t, memoryService(), 0)
	rr := do(srv, http.MethodGet, "/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("index status=%d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"Groceries", "Restaurant", "Bus pass", "Total Expenses", "$65.00", "$50.00", "January 2024", "Recurring", "Jan 5, 2024", "chart_by_category"} {
		if !strings.Contains(body, want) {
			t.Fatalf("index body missing %q", want)
		}
	}
	// newest first by default
	if strings.Index(body, "Restaurant") > strings.Index(body, "Bus pass") {
		t.Fatalf("expected date descending order")
	}
	if rr.Header().Get("X-Request-ID") == "" || rr.Header().Get("Content-Security-Policy") == "" {
		t.Fatalf("missing middleware headers: %v", rr.Header())
	}
}

func TestIndexFilterKeepsFullSummary(t *testing.T) {
	srv := newTestServer(t, memoryService(), 0)
	body := do(srv, http.MethodGet, "/?category=Travel&charts=0", nil).Body.String()
	if strings.Contains(body, "Groceries") || !strings.Contains(body, "Bus pass") {
		t.Fatalf("category filter not applied")
	}
	if !strings.Contains(body, "$65.00") {
		t.Fatalf("summary should cover the unfiltered list")
	}
	if !strings.Contains(body, `<option value="Travel" selected>`) || !strings.Contains(body, `<option value="All">`) {
		t.Fatalf("filter options not rendered")
	}
	if strings.Contains(body, "chart_by_category") || !strings.Contains(body, "Show Charts") {
		t.Fatalf("charts should be hidden")
	}
}

func TestIndexFetchFailureShowsBanner(t *testing.T) {
	srv := newTestServer(t, failingService{}, 0)
	rr := do(srv, http.MethodGet, "/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, msgLoadFailed) || !strings.Contains(body, "No expenses found.") {
		t.Fatalf("expected banner and empty list, got %s", body)
	}
}

func TestExpenseForms(t *testing.T) {
	srv := newTestServer(t, memoryService(), 0)

	body := do(srv, http.MethodGet, "/expenses/new", nil).Body.String()
	for _, want := range []string{"Add Expense", `value="create"`, `value="2024-06-01"`, `<option value="Other" selected>`, `<option value="Cash" selected>`} {
		if !strings.Contains(body, want) {
			t.Fatalf("new form missing %q", want)
		}
	}

	body = do(srv, http.MethodGet, "/expenses/e2/edit", nil).Body.String()
	for _, want := range []string{"Edit Expense", `value="update"`, `value="Restaurant"`, `value="30.00"`, `<option value="Credit Card" selected>`, "/expenses/e2/delete"} {
		if !strings.Contains(body, want) {
			t.Fatalf("edit form missing %q", want)
		}
	}

	if rr := do(srv, http.MethodGet, "/expenses/missing/edit", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing record, got %d", rr.Code)
	}
}

func TestSaveExpense(t *testing.T) {
	valid := func(mode, id, desc string) url.Values {
		return url.Values{
			"mode": {mode}, "id": {id}, "description": {desc}, "amount": {"4.50"},
			"category": {"Food"}, "date": {"2024-03-01"}, "payment_method": {"Cash"},
		}
	}
	tests := []struct {
		name     string
		svc      ExpenseService
		form     url.Values
		wantCode int
		wantBody string
	}{
		{"create", memoryService(), valid(ModeCreate, "n1", "Coffee"), http.StatusSeeOther, ""},
		{"update", memoryService(), valid(ModeUpdate, "e1", "Groceries again"), http.StatusSeeOther, ""},
		{"update missing", memoryService(), valid(ModeUpdate, "nope", "x"), http.StatusNotFound, msgNotFound},
		{"duplicate id", memoryService(), valid(ModeCreate, "e1", "x"), http.StatusUnprocessableEntity, "Invalid data"},
		{"bad amount", memoryService(), func() url.Values { f := valid(ModeCreate, "n2", "x"); f.Set("amount", "abc"); return f }(), http.StatusUnprocessableEntity, "invalid amount"},
		{"amount over cap", memoryService(), func() url.Values { f := valid(ModeCreate, "n6", "x"); f.Set("amount", "10000000000"); return f }(), http.StatusUnprocessableEntity, "invalid amount"},
		{"bad category", memoryService(), func() url.Values { f := valid(ModeCreate, "n3", "x"); f.Set("category", "Pets"); return f }(), http.StatusUnprocessableEntity, "invalid category"},
		{"empty description", memoryService(), valid(ModeCreate, "n4", ""), http.StatusUnprocessableEntity, "empty description"},
		{"store down", failingService{}, valid(ModeCreate, "n5", "x"), http.StatusInternalServerError, msgSaveFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.svc, 0)
			rr := do(srv, http.MethodPost, "/expenses", tt.form)
			if rr.Code != tt.wantCode {
				t.Fatalf("status=%d want %d body=%s", rr.Code, tt.wantCode, rr.Body.String())
			}
			if tt.wantBody != "" && !strings.Contains(rr.Body.String(), tt.wantBody) {
				t.Fatalf("body missing %q: %s", tt.wantBody, rr.Body.String())
			}
			if rr.Code == http.StatusSeeOther {
				if rr.Header().Get("Location") != "/" {
					t.Fatalf("unexpected redirect %q", rr.Header().Get("Location"))
				}
				list := do(srv, http.MethodGet, "/?charts=0", nil).Body.String()
				if !strings.Contains(list, tt.form.Get("description")) {
					t.Fatalf("saved record not listed")
				}
			}
		})
	}
}

func TestSaveKeepsPosition(t *testing.T) {
	svc := memoryService()
	srv := newTestServer(t, svc, 0)
	form := url.Values{
		"mode": {ModeUpdate}, "id": {"e1"}, "description": {"Edited"}, "amount": {"20"},
		"category": {"Food"}, "date": {"2024-01-05"}, "payment_method": {"Cash"},
	}
	if rr := do(srv, http.MethodPost, "/expenses", form); rr.Code != http.StatusSeeOther {
		t.Fatalf("status=%d", rr.Code)
	}
	res := svc.FetchAll(context.Background())
	if len(res.Value) != 3 || res.Value[0].ID != "e1" || res.Value[0].Description != "Edited" {
		t.Fatalf("update did not replace in place: %+v", res.Value)
	}
}

func TestDeleteExpense(t *testing.T) {
	srv := newTestServer(t, memoryService(), 0)

	rr := do(srv, http.MethodPost, "/expenses/e1/delete", url.Values{})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("post delete status=%d", rr.Code)
	}
	if rr := do(srv, http.MethodDelete, "/expenses/e2", nil); rr.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", rr.Code)
	}
	if rr := do(srv, http.MethodDelete, "/expenses/e2", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("second delete status=%d", rr.Code)
	}
	body := do(srv, http.MethodGet, "/?charts=0", nil).Body.String()
	if strings.Contains(body, "Groceries") || strings.Contains(body, "Restaurant") || !strings.Contains(body, "Bus pass") {
		t.Fatalf("unexpected list after delete")
	}

	if body := do(srv, http.MethodGet, "/healthz", nil).Body.String(); !strings.Contains(body, `"requests_total"`) || !strings.Contains(body, `"chart_cache_entries"`) {
		t.Fatalf("healthz should report counters: %s", body)
	}

	down := newTestServer(t, failingService{}, 0)
	if rr := do(down, http.MethodDelete, "/expenses/e3", nil); rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 when store is down, got %d", rr.Code)
	}
}

func TestAPIExpenses(t *testing.T) {
	srv := newTestServer(t, memoryService(), 0)
	rr := do(srv, http.MethodGet, "/api/expenses?sort=amount&order=asc", nil)
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("status=%d content-type=%q", rr.Code, rr.Header().Get("Content-Type"))
	}
	var got []core.Expense
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 3 || got[0].ID != "e3" || got[2].ID != "e2" {
		t.Fatalf("unexpected order: %+v", got)
	}

	rr = do(srv, http.MethodGet, "/api/expenses?min=16&max=25", nil)
	got = nil
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].ID != "e1" {
		t.Fatalf("amount range filter: %+v", got)
	}

	down := newTestServer(t, failingService{}, 0)
	if rr := do(down, http.MethodGet, "/api/expenses", nil); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestAPISummary(t *testing.T) {
	srv := newTestServer(t, memoryService(), 0)
	body := do(srv, http.MethodGet, "/api/summary", nil).Body.String()
	for _, want := range []string{
		`"totalAmount":65`,
		`"byCategory":{"Food":50,"Travel":15}`,
		`"byMonth":{"2024-01":35,"2024-02":30}`,
		`"byPaymentMethod":{"Cash":35,"Credit Card":30}`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("summary missing %s: %s", want, body)
		}
	}
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, memoryService(), 0)
	for _, path := range []string{"/healthz", "/readyz"} {
		if rr := do(srv, http.MethodGet, path, nil); rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}

	down := newTestServer(t, failingService{}, 0)
	if rr := do(down, http.MethodGet, "/healthz", nil); rr.Code != http.StatusOK {
		t.Fatalf("liveness must not depend on the store, got %d", rr.Code)
	}
	rr := do(down, http.MethodGet, "/readyz", nil)
	if rr.Code != http.StatusServiceUnavailable || !strings.Contains(rr.Body.String(), "not_ready") {
		t.Fatalf("readyz status=%d body=%s", rr.Code, rr.Body.String())
	}
}

func TestWritesAreRateLimited(t *testing.T) {
	srv := newTestServer(t, memoryService(), 1)
	form := url.Values{"mode": {ModeCreate}, "description": {"x"}, "amount": {"1"}, "category": {"Food"}, "date": {"2024-01-01"}, "payment_method": {"Cash"}}
	if rr := do(srv, http.MethodPost, "/expenses", form); rr.Code != http.StatusSeeOther {
		t.Fatalf("first post status=%d", rr.Code)
	}
	if rr := do(srv, http.MethodPost, "/expenses", form); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second post status=%d", rr.Code)
	}
	// reads are not limited
	if rr := do(srv, http.MethodGet, "/api/summary", nil); rr.Code != http.StatusOK {
		t.Fatalf("get status=%d", rr.Code)
	}
}

func TestStaticAssets(t *testing.T) {
	srv := newTestServer(t, memoryService(), 0)
	rr := do(srv, http.MethodGet, "/static/style.css", nil)
	if rr.Code != http.StatusOK || rr.Header().Get("Cache-Control") == "" {
		t.Fatalf("static status=%d headers=%v", rr.Code, rr.Header())
	}
}
