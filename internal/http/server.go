// Package http exposes the JSON API: transaction and category management
// plus the dashboard read views.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"moneymanagement/internal/core"
	"moneymanagement/internal/identity"
	applog "moneymanagement/internal/log"
	"moneymanagement/internal/services"
)

type Server struct {
	http.Server

	transactions *services.TransactionService
	categories   *services.CategoryService
	dashboard    *services.DashboardService
	auth         identity.Provider
	logger       *applog.Logger

	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// Deps bundles the collaborators the server needs.
type Deps struct {
	Transactions *services.TransactionService
	Categories   *services.CategoryService
	Dashboard    *services.DashboardService
	Auth         identity.Provider

	// Logger is the base application logger. Nil falls back to the default
	// configuration.
	Logger *applog.Logger

	// RateLimitPerMinute caps mutating requests per client IP. Zero uses the
	// default of 120.
	RateLimitPerMinute int
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	limit := deps.RateLimitPerMinute
	if limit <= 0 {
		limit = 120
	}

	logger := deps.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		transactions: deps.Transactions,
		categories:   deps.Categories,
		dashboard:    deps.Dashboard,
		auth:         deps.Auth,
		logger:       logger.WithComponent(applog.ComponentHTTP),
		rateLimiter:  newRateLimiter(limit),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/transactions", s.wrap(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions", s.wrap(s.handleListTransactions))
	mux.HandleFunc("PUT /api/transactions/{id}", s.wrap(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.wrap(s.handleDeleteTransaction))

	mux.HandleFunc("POST /api/categories", s.wrap(s.handleCreateCategory))
	mux.HandleFunc("GET /api/categories", s.wrap(s.handleListCategories))
	mux.HandleFunc("PUT /api/categories/{id}", s.wrap(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.wrap(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/dashboard/summary", s.wrap(s.handleSummary))
	mux.HandleFunc("GET /api/dashboard/breakdown", s.wrap(s.handleBreakdown))
	mux.HandleFunc("GET /api/dashboard/series", s.wrap(s.handleSeries))
	mux.HandleFunc("GET /api/dashboard/monthly-series", s.wrap(s.handleMonthlySeries))

	mux.HandleFunc("GET /api/profile", s.wrap(s.handleProfile))

	return s
}

// authedHandler is a handler that runs with a resolved user.
type authedHandler func(w http.ResponseWriter, r *http.Request, user core.UserProfile)

// wrap applies the full middleware chain: security headers, request
// logging, rate limiting on mutations, and bearer-token authentication.
func (s *Server) wrap(next authedHandler) http.HandlerFunc {
	return s.withSecurityHeaders(s.withAuth(next))
}

func (s *Server) withAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := identity.FromAuthorizationHeader(r.Header.Get("Authorization"))
		user, err := s.auth.Authenticate(r.Context(), token)
		if err != nil {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Authentication failed",
				applog.FieldComponent, applog.ComponentIdentity,
				applog.FieldPath, r.URL.Path,
				applog.FieldError, err.Error())
			writeError(w, http.StatusUnauthorized, "invalid or missing bearer token")
			return
		}
		next(w, r, user)
	}
}

func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := clientAddress(r)
		requestID := generateRequestID()

		logger := s.logger.With(applog.FieldRequestID, requestID)
		structured := applog.NewStructuredLogger(logger)

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		ctx = context.WithValue(ctx, applog.LoggerContextKey, logger)
		r = r.WithContext(ctx)

		structured.LogHTTPStart(ctx, r, clientIP)

		if isMutation(r.Method) && !s.rateLimiter.allow(clientIP) {
			logger.WarnContext(ctx, "Rate limit exceeded",
				applog.FieldComponent, applog.ComponentRateLimit,
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		setSecurityHeaders(w)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		structured.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Shutdown stops the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
