package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"expense-tracker/internal/core"
)

func TestParseListQuery(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		want  ListQuery
	}{
		{
			name:  "defaults",
			query: url.Values{},
			want:  ListQuery{Category: AllCategories, Sort: SortByDate, Order: OrderDesc, ShowCharts: true},
		},
		{
			name: "all values provided",
			query: url.Values{
				"category": {"Food"}, "from": {"2024-01-01"}, "to": {"2024-01-31"},
				"min": {"1,5"}, "max": {"100"}, "sort": {"Amount"}, "order": {"asc"}, "charts": {"0"},
			},
			want: ListQuery{Category: "Food", From: "2024-01-01", To: "2024-01-31", Min: "1.5", Max: "100", Sort: SortByAmount, Order: OrderAsc},
		},
		{
			name:  "invalid values are ignored",
			query: url.Values{"from": {"yesterday"}, "min": {"-3"}, "sort": {"name"}, "order": {"sideways"}, "charts": {"maybe"}},
			want:  ListQuery{Category: AllCategories, Sort: SortByDate, Order: OrderDesc, ShowCharts: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseListQuery(tt.query); got != tt.want {
				t.Errorf("ParseListQuery() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func ids(records []core.Expense) string {
	out := make([]string, len(records))
	for i, e := range records {
		out[i] = e.ID
	}
	return strings.Join(out, ",")
}

func TestListQueryApply(t *testing.T) {
	records := scenario()
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"default newest first", "", "e2,e3,e1"},
		{"oldest first", "order=asc", "e1,e3,e2"},
		{"by amount", "sort=amount&order=asc", "e3,e1,e2"},
		{"category", "category=Food", "e2,e1"},
		{"unknown category", "category=Pets", ""},
		{"date range", "from=2024-01-05&to=2024-01-20", "e3,e1"},
		{"open ended date", "from=2024-02-01", "e2"},
		{"amount range", "min=16&max=25", "e1"},
		{"open ended amount", "min=20", "e2,e1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := url.ParseQuery(tt.query)
			if got := ids(ParseListQuery(v).Apply(records)); got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
	if ids(records) != "e1,e2,e3" {
		t.Fatalf("input was modified")
	}
}

func TestListQueryValuesRoundTrip(t *testing.T) {
	q := ListQuery{Category: "Food", From: "2024-01-01", Sort: SortByAmount, Order: OrderDesc}
	if got := q.Values().Encode(); got != "category=Food&charts=0&from=2024-01-01&sort=amount" {
		t.Fatalf("Values() = %q", got)
	}
	if got := ParseListQuery(q.Values()); got != q {
		t.Fatalf("round trip = %+v, want %+v", got, q)
	}
}

func TestCategoryOptions(t *testing.T) {
	if got := strings.Join(CategoryOptions(scenario()), ","); got != "All,Food,Travel" {
		t.Fatalf("CategoryOptions = %q", got)
	}
	if got := CategoryOptions(nil); len(got) != 1 || got[0] != AllCategories {
		t.Fatalf("CategoryOptions(nil) = %v", got)
	}
}

func TestParseExpenseForm(t *testing.T) {
	form := url.Values{
		"id": {" abc "}, "mode": {"create"}, "description": {"Lunch\x00"}, "amount": {"12,345"},
		"category": {"food"}, "date": {"2024-05-01"}, "payment_method": {"credit card"}, "is_recurring": {"on"},
	}
	f := ParseExpenseForm(form)
	if f.ID != "abc" || f.Mode != ModeCreate || f.Description != "Lunch" || !f.IsRecurring {
		t.Fatalf("unexpected form %+v", f)
	}
	e, err := f.Expense()
	if err != nil {
		t.Fatalf("Expense(): %v", err)
	}
	if e.Amount.Cents != 1235 || e.Category != core.Food || e.PaymentMethod != core.CreditCard || e.Date.String() != "2024-05-01" {
		t.Fatalf("unexpected expense %+v", e)
	}

	if f := ParseExpenseForm(url.Values{}); f.ID == "" || f.Mode != ModeUpdate {
		t.Fatalf("missing id should be generated and mode default to update: %+v", f)
	}
}

func TestExpenseFormErrors(t *testing.T) {
	base := ExpenseForm{ID: "x", Description: "d", Amount: "1", Category: "Food", Date: "2024-01-01", PaymentMethod: "Cash"}
	tests := []struct {
		name   string
		mutate func(*ExpenseForm)
		want   error
	}{
		{"amount", func(f *ExpenseForm) { f.Amount = "abc" }, core.ErrInvalidAmount},
		{"negative amount", func(f *ExpenseForm) { f.Amount = "-1" }, core.ErrInvalidAmount},
		{"date", func(f *ExpenseForm) { f.Date = "01/02/2024" }, core.ErrInvalidDate},
		{"category", func(f *ExpenseForm) { f.Category = "Pets" }, core.ErrInvalidCategory},
		{"payment method", func(f *ExpenseForm) { f.PaymentMethod = "Cheque" }, core.ErrInvalidPaymentMethod},
		{"description", func(f *ExpenseForm) { f.Description = "" }, core.ErrEmptyDescription},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base
			tt.mutate(&f)
			if _, err := f.Expense(); !errors.Is(err, tt.want) {
				t.Fatalf("Expense() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewAndPrefilledForms(t *testing.T) {
	f := NewExpenseForm(core.NewDate(2024, 6, 1))
	if f.ID == "" || f.Mode != ModeCreate || f.Category != "Other" || f.PaymentMethod != "Cash" || f.Date != "2024-06-01" {
		t.Fatalf("unexpected defaults %+v", f)
	}
	if g := NewExpenseForm(core.NewDate(2024, 6, 1)); g.ID == f.ID {
		t.Fatalf("ids should be unique")
	}

	e := scenario()[2]
	p := FormFromExpense(e)
	if p.Mode != ModeUpdate || p.Amount != "15.00" || !p.IsRecurring {
		t.Fatalf("unexpected prefill %+v", p)
	}
	back, err := p.Expense()
	if err != nil || back.ID != e.ID || back.Amount != e.Amount || back.Date.String() != e.Date.String() ||
		back.Category != e.Category || back.PaymentMethod != e.PaymentMethod || back.IsRecurring != e.IsRecurring {
		t.Fatalf("prefilled form should reproduce the record: %+v err=%v", back, err)
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := map[string]string{
		"  plain  ":      "plain",
		"a\x00b\x07c":    "abc",
		"line\nbreak\tx": "line\nbreak\tx",
	}
	for in, want := range tests {
		if got := sanitizeInput(in); got != want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRequireMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if RequireMethod(req, http.MethodGet) != nil {
		t.Fatalf("GET should be allowed")
	}
	resp := RequireMethod(req, http.MethodPost, http.MethodDelete)
	if resp == nil {
		t.Fatalf("expected error builder")
	}
	w := httptest.NewRecorder()
	resp.Write(w)
	if w.Code != http.StatusMethodNotAllowed || w.Header().Get("Allow") != "POST, DELETE" {
		t.Fatalf("status=%d allow=%q", w.Code, w.Header().Get("Allow"))
	}
}

func TestParseFormOrFail(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("a=%zz"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if ParseFormOrFail(req) == nil {
		t.Fatalf("expected malformed body to fail")
	}
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("a=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if ParseFormOrFail(req) != nil {
		t.Fatalf("expected valid form to parse")
	}
}
