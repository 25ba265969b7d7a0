package http

import (
	"context"
	"net/http"
	"time"

	"expense-tracker/internal/charts"
	"expense-tracker/internal/core"
	applog "expense-tracker/internal/log"
)

// Banner texts shown above the list and the form.
const (
	msgLoadFailed   = "Failed to load expenses. Please try again."
	msgSaveFailed   = "Failed to save expense. Please try again."
	msgDeleteFailed = "Failed to delete expense. Please try again."
	msgNotFound     = "Expense not found."
)

// indexPage is the data of index.html.
type indexPage struct {
	Expenses        []core.Expense
	Query           ListQuery
	CategoryOptions []string
	Categories      []core.Category
	Summary         core.ExpenseSummary
	Charts          charts.Set
	ChartsToggleURL string
	Error           string
}

// handleHealth performs basic liveness check and reports in-process counters.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	traffic := s.tracer.GetMetrics()
	limits := s.rateLimiter.GetMetrics()
	chartCache := s.charts.Stats()
	NewResponse().JSON(map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    s.now().Sub(s.started).String(),
		"metrics": map[string]int64{
			"requests_total":      traffic.TotalRequests,
			"requests_in_flight":  traffic.InFlight,
			"rate_limited_total":  limits.Rejected,
			"rate_limit_clients":  limits.ClientCount,
			"chart_cache_hits":    int64(chartCache.Hits),
			"chart_cache_misses":  int64(chartCache.Misses),
			"chart_cache_entries": int64(chartCache.Size),
		},
	}).Write(w)
}

// handleReady fetches through the persistence client and checks templates.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]string{"templates": "ok", "store": "ok"}

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	}
	if res := s.svc.FetchAll(ctx); !res.OK() {
		checks["store"] = "failed: " + res.Err.Error()
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	}

	NewResponse().Status(httpStatus).JSON(map[string]any{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, r, http.StatusOK, "")
}

// renderIndex shows the list page. The summary always covers the unfiltered
// list; the filter only narrows the table.
func (s *Server) renderIndex(w http.ResponseWriter, r *http.Request, status int, banner string) {
	ctx := r.Context()
	query := ParseListQuery(r.URL.Query())

	res := s.svc.FetchAll(ctx)
	all := res.Value
	if !res.OK() {
		s.events.LogError(ctx, "Failed to load expenses", res.Err, applog.OpList,
			applog.NewFields().WithComponent(applog.ComponentExpense))
		banner = msgLoadFailed
	}

	summary := s.summarize(ctx, all)
	page := indexPage{
		Expenses:        query.Apply(all),
		Query:           query,
		CategoryOptions: CategoryOptions(all),
		Categories:      core.Categories(),
		Summary:         summary,
		Error:           banner,
	}

	toggle := query
	toggle.ShowCharts = !query.ShowCharts
	page.ChartsToggleURL = "/"
	if v := toggle.Values().Encode(); v != "" {
		page.ChartsToggleURL += "?" + v
	}

	if query.ShowCharts {
		set, err := s.charts.Render(summary)
		if err != nil {
			s.events.LogError(ctx, "Failed to render charts", err, applog.OpRender, nil)
		} else {
			page.Charts = set
		}
	}

	s.render(w, r, status, "index.html", page)
}

// summarize builds the summary and reports records that had to be bucketed
// under a sentinel key.
func (s *Server) summarize(ctx context.Context, records []core.Expense) core.ExpenseSummary {
	summary := core.BuildSummary(records)
	if summary.Unrecognized > 0 {
		applog.FromContext(ctx).WarnContext(ctx, "Summary contains unrecognized records",
			applog.FieldCount, summary.Unrecognized,
			applog.FieldOperation, applog.OpSummary)
	}
	return summary
}

// handleAPIExpenses returns the filtered list as JSON.
func (s *Server) handleAPIExpenses(w http.ResponseWriter, r *http.Request) {
	res := s.svc.FetchAll(r.Context())
	if !res.OK() {
		s.events.LogError(r.Context(), "Failed to load expenses", res.Err, applog.OpList, nil)
		JSONError(http.StatusServiceUnavailable, msgLoadFailed).Write(w)
		return
	}
	NewResponse().JSON(ParseListQuery(r.URL.Query()).Apply(res.Value)).Write(w)
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	res := s.svc.FetchAll(r.Context())
	if !res.OK() {
		s.events.LogError(r.Context(), "Failed to load expenses", res.Err, applog.OpSummary, nil)
		JSONError(http.StatusServiceUnavailable, msgLoadFailed).Write(w)
		return
	}
	NewResponse().JSON(s.summarize(r.Context(), res.Value)).Write(w)
}
