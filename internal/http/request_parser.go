// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.

package http

import (
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"expense-tracker/internal/core"
)

// AllCategories is the filter value that disables category filtering.
const AllCategories = "All"

// Sort keys and directions accepted by the list endpoints.
const (
	SortByDate   = "date"
	SortByAmount = "amount"
	OrderAsc     = "asc"
	OrderDesc    = "desc"
)

// Save modes of the expense form.
const (
	ModeCreate = "create"
	ModeUpdate = "update"
)

// ListQuery holds the filter and sort parameters of the list views.
// Malformed values fall back to their defaults.
type ListQuery struct {
	Category   string
	From, To   string
	Min, Max   string
	Sort       string
	Order      string
	ShowCharts bool
}

// ParseListQuery extracts filters from query parameters, using defaults for
// anything missing or invalid.
func ParseListQuery(query url.Values) ListQuery {
	q := ListQuery{
		Category:   AllCategories,
		Sort:       SortByDate,
		Order:      OrderDesc,
		ShowCharts: true,
	}
	if v := sanitizeInput(query.Get("category")); v != "" {
		q.Category = v
	}
	if d, err := core.ParseDate(query.Get("from")); err == nil {
		q.From = d.String()
	}
	if d, err := core.ParseDate(query.Get("to")); err == nil {
		q.To = d.String()
	}
	if m, err := core.ParseMoney(query.Get("min")); err == nil {
		q.Min = m.String()
	}
	if m, err := core.ParseMoney(query.Get("max")); err == nil {
		q.Max = m.String()
	}
	if v := strings.ToLower(strings.TrimSpace(query.Get("sort"))); v == SortByAmount {
		q.Sort = v
	}
	if v := strings.ToLower(strings.TrimSpace(query.Get("order"))); v == OrderAsc {
		q.Order = v
	}
	if v := strings.TrimSpace(query.Get("charts")); v == "0" || v == "false" {
		q.ShowCharts = false
	}
	return q
}

// Apply filters and sorts records. The input is never modified.
func (q ListQuery) Apply(records []core.Expense) []core.Expense {
	out := records
	if q.Category != "" && q.Category != AllCategories {
		out = core.FilterByCategory(out, core.Category(q.Category))
	}
	if q.From != "" || q.To != "" {
		from, to := q.From, q.To
		if from == "" {
			from = "0000-01-01"
		}
		if to == "" {
			to = "9999-12-31"
		}
		out = core.FilterByDateRange(out, from, to)
	}
	if q.Min != "" || q.Max != "" {
		minAmount, maxAmount := core.Money{}, core.Money{Cents: math.MaxInt64}
		if m, err := core.ParseMoney(q.Min); err == nil {
			minAmount = m
		}
		if m, err := core.ParseMoney(q.Max); err == nil {
			maxAmount = m
		}
		out = core.FilterByAmountRange(out, minAmount, maxAmount)
	}
	ascending := q.Order == OrderAsc
	if q.Sort == SortByAmount {
		return core.SortByAmount(out, ascending)
	}
	return core.SortByDate(out, ascending)
}

// Values encodes q back into query parameters, omitting defaults.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	set := func(k, val, def string) {
		if val != "" && val != def {
			v.Set(k, val)
		}
	}
	set("category", q.Category, AllCategories)
	set("from", q.From, "")
	set("to", q.To, "")
	set("min", q.Min, "")
	set("max", q.Max, "")
	set("sort", q.Sort, SortByDate)
	set("order", q.Order, OrderDesc)
	if !q.ShowCharts {
		v.Set("charts", "0")
	}
	return v
}

// CategoryOptions returns "All" followed by the distinct categories of
// records in first-seen order.
func CategoryOptions(records []core.Expense) []string {
	opts := []string{AllCategories}
	seen := map[core.Category]bool{}
	for _, e := range records {
		if seen[e.Category] {
			continue
		}
		seen[e.Category] = true
		opts = append(opts, e.Category.String())
	}
	return opts
}

// ExpenseForm is the raw content of the add/edit form, kept so that a
// rejected submission can be re-rendered as typed.
type ExpenseForm struct {
	ID            string
	Mode          string
	Description   string
	Amount        string
	Category      string
	Date          string
	PaymentMethod string
	IsRecurring   bool
}

// NewExpenseForm returns the defaults of an empty form: a fresh id, today's
// date, category Other and payment method Cash.
func NewExpenseForm(today core.Date) ExpenseForm {
	return ExpenseForm{
		ID:            uuid.NewString(),
		Mode:          ModeCreate,
		Category:      core.OtherCategory.String(),
		Date:          today.String(),
		PaymentMethod: core.Cash.String(),
	}
}

// FormFromExpense pre-fills the edit form.
func FormFromExpense(e core.Expense) ExpenseForm {
	return ExpenseForm{
		ID:            e.ID,
		Mode:          ModeUpdate,
		Description:   e.Description,
		Amount:        e.Amount.Fixed(),
		Category:      e.Category.String(),
		Date:          e.Date.String(),
		PaymentMethod: e.PaymentMethod.String(),
		IsRecurring:   e.IsRecurring,
	}
}

// ParseExpenseForm reads the submitted form. A missing id gets a fresh one.
func ParseExpenseForm(form url.Values) ExpenseForm {
	f := ExpenseForm{
		ID:            sanitizeInput(form.Get("id")),
		Mode:          ModeUpdate,
		Description:   sanitizeInput(form.Get("description")),
		Amount:        strings.TrimSpace(form.Get("amount")),
		Category:      sanitizeInput(form.Get("category")),
		Date:          strings.TrimSpace(form.Get("date")),
		PaymentMethod: sanitizeInput(form.Get("payment_method")),
	}
	if strings.TrimSpace(form.Get("mode")) == ModeCreate {
		f.Mode = ModeCreate
	}
	switch strings.ToLower(strings.TrimSpace(form.Get("is_recurring"))) {
	case "on", "true", "1", "yes":
		f.IsRecurring = true
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return f
}

// Expense converts the form into a validated record.
func (f ExpenseForm) Expense() (core.Expense, error) {
	amount, err := core.ParseMoney(f.Amount)
	if err != nil {
		return core.Expense{}, err
	}
	date, err := core.ParseDate(f.Date)
	if err != nil {
		return core.Expense{}, err
	}
	category, err := core.ParseCategory(f.Category)
	if err != nil {
		return core.Expense{}, err
	}
	method, err := core.ParsePaymentMethod(f.PaymentMethod)
	if err != nil {
		return core.Expense{}, err
	}
	e := core.Expense{
		ID:            f.ID,
		Amount:        amount,
		Description:   f.Description,
		Category:      category,
		Date:          date,
		PaymentMethod: method,
		IsRecurring:   f.IsRecurring,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

// sanitizeInput removes control characters except tab, newline and carriage
// return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *ResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// ParseFormOrFail parses the request form and returns an error response on failure.
// Returns nil on success.
func ParseFormOrFail(r *http.Request) *ResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Invalid request format")
	}
	return nil
}
