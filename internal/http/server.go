// Package http serves the expense pages, the JSON API and the health probes.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"expense-tracker/internal/charts"
	"expense-tracker/internal/core"
	applog "expense-tracker/internal/log"
	"expense-tracker/internal/middleware/ratelimit"
	"expense-tracker/internal/middleware/security"
	"expense-tracker/internal/middleware/trace"
	"expense-tracker/internal/services"
	appweb "expense-tracker/web"
)

// Rendered chart sets are reused while the summary is unchanged.
const (
	chartCacheSize = 32
	chartCacheTTL  = 10 * time.Minute
)

// ExpenseService is the persistence client used by the handlers.
type ExpenseService interface {
	FetchAll(ctx context.Context) services.Result[[]core.Expense]
	Get(ctx context.Context, id string) services.Result[core.Expense]
	Create(ctx context.Context, e core.Expense) services.Result[core.Expense]
	Update(ctx context.Context, e core.Expense) services.Result[core.Expense]
	Delete(ctx context.Context, id string) services.Result[string]
}

type Options struct {
	Logger             *applog.Logger
	RateLimitPerMinute int
	// TrustedProxies extends the private ranges whose forwarding headers are
	// honoured.
	TrustedProxies []string
	// Now defaults to time.Now.
	Now func() time.Time
}

type Server struct {
	http.Server
	templates   *template.Template
	svc         ExpenseService
	logger      *applog.Logger
	events      *applog.StructuredLogger
	rateLimiter *ratelimit.Limiter
	tracer      *trace.Middleware
	charts      *charts.Renderer
	started     time.Time
	now         func() time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, svc ExpenseService, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	ipResolver, err := security.NewClientIPResolver(opts.TrustedProxies...)
	if err != nil {
		return nil, err
	}

	limiterCfg := ratelimit.DefaultConfig()
	if opts.RateLimitPerMinute > 0 {
		limiterCfg.RequestsPerMinute = opts.RateLimitPerMinute
	}

	s := &Server{
		svc:         svc,
		logger:      logger,
		events:      applog.NewStructuredLogger(logger),
		rateLimiter: ratelimit.NewLimiter(limiterCfg),
		charts:      charts.NewRenderer(chartCacheSize, chartCacheTTL),
		tracer:      trace.NewMiddleware(logger, ipResolver.ClientIP),
		started:     now(),
		now:         now,
	}

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Error("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	mux := http.NewServeMux()

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	limited := s.rateLimiter.Middleware(ipResolver.ClientIP, nil)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /expenses/new", s.handleNewExpense)
	mux.HandleFunc("GET /expenses/{id}/edit", s.handleEditExpense)
	mux.Handle("POST /expenses", limited(http.HandlerFunc(s.handleSaveExpense)))
	mux.Handle("POST /expenses/{id}/delete", limited(http.HandlerFunc(s.handleDeleteExpense)))
	mux.Handle("DELETE /expenses/{id}", limited(http.HandlerFunc(s.handleDeleteExpense)))
	mux.HandleFunc("GET /api/expenses", s.handleAPIExpenses)
	mux.HandleFunc("GET /api/summary", s.handleAPISummary)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.tracer.Middleware(headers.Middleware(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

// Shutdown gracefully shuts down the server and the rate limiter cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded",
			applog.FieldPath, r.URL.Path,
			applog.FieldComponent, applog.ComponentTemplate)
		InternalServerError("templates not loaded").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.events.LogError(r.Context(), "Template execution failed", err, applog.OpRender,
			applog.NewFields().WithComponent(applog.ComponentTemplate))
	}
}
