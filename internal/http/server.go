// Package http exposes the finance service as a JSON API. Callers identify
// themselves with the X-User-ID header; every row is scoped to that user.
package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"moco/internal/log"
	"moco/internal/middleware/ratelimit"
	"moco/internal/middleware/security"
	"moco/internal/middleware/trace"
	"moco/internal/services"
)

const userHeader = "X-User-ID"

type Server struct {
	http.Server
	svc          *services.FinanceService
	limiter      *ratelimit.Limiter
	logger       *log.Logger
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware and returns a ready-to-run server.
func NewServer(addr string, svc *services.FinanceService, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	s := &Server{
		svc:     svc,
		limiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		logger:  logger.WithComponent(log.ComponentHTTP),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/wallets", s.auth(s.handleListWallets))
	mux.HandleFunc("POST /api/wallets", s.auth(s.handleCreateWallet))
	mux.HandleFunc("PUT /api/wallets/{id}", s.auth(s.handleRenameWallet))
	mux.HandleFunc("DELETE /api/wallets/{id}", s.auth(s.handleDeleteWallet))

	mux.HandleFunc("GET /api/transactions", s.auth(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.auth(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions/{id}", s.auth(s.handleGetTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.auth(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.auth(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/budget", s.auth(s.handleBudgetOverview))
	mux.HandleFunc("GET /api/categories", s.auth(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.auth(s.handleCreateCategory))
	mux.HandleFunc("PUT /api/categories/{id}", s.auth(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.auth(s.handleDeleteCategory))
	mux.HandleFunc("GET /api/subcategories", s.auth(s.handleListSubcategories))
	mux.HandleFunc("POST /api/subcategories", s.auth(s.handleCreateSubcategory))
	mux.HandleFunc("PUT /api/subcategories/{id}", s.auth(s.handleUpdateSubcategory))
	mux.HandleFunc("DELETE /api/subcategories/{id}", s.auth(s.handleDeleteSubcategory))

	mux.HandleFunc("GET /api/goals", s.auth(s.handleListGoals))
	mux.HandleFunc("POST /api/goals", s.auth(s.handleCreateGoal))
	mux.HandleFunc("PUT /api/goals/{id}", s.auth(s.handleUpdateGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.auth(s.handleDeleteGoal))

	mux.HandleFunc("GET /api/debts", s.auth(s.handleListDebts))
	mux.HandleFunc("POST /api/debts", s.auth(s.handleCreateDebt))
	mux.HandleFunc("GET /api/debts/{id}", s.auth(s.handleGetDebt))
	mux.HandleFunc("PUT /api/debts/{id}", s.auth(s.handleUpdateDebt))
	mux.HandleFunc("DELETE /api/debts/{id}", s.auth(s.handleDeleteDebt))
	mux.HandleFunc("GET /api/debts/{id}/payments", s.auth(s.handleListPayments))
	mux.HandleFunc("POST /api/debts/{id}/payments", s.auth(s.handleAddPayment))
	mux.HandleFunc("DELETE /api/payments/{id}", s.auth(s.handleDeletePayment))

	mux.HandleFunc("GET /api/dashboard", s.auth(s.handleDashboard))

	var handler http.Handler = mux
	handler = s.limiter.Middleware(limitKey, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "60")
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
	})(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = log.Middleware(s.logger)(handler)
	handler = trace.NewMiddleware(logger).Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// limitKey prefers the authenticated user over the network address so one
// tenant cannot exhaust another's budget behind a shared proxy.
func limitKey(r *http.Request) string {
	if id := r.Header.Get(userHeader); id != "" {
		return id
	}
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// auth requires the X-User-ID header and stores it in the request context.
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(userHeader)
		if id == "" {
			writeError(w, http.StatusUnauthorized, "missing "+userHeader+" header")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, id)
		next(w, r.WithContext(ctx))
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// yearMonth reads year/month query parameters, defaulting to the current
// month. An out-of-range month falls back to the current one.
func yearMonth(r *http.Request) (int, time.Month) {
	now := time.Now().UTC()
	year := now.Year()
	month := now.Month()
	if v := r.URL.Query().Get("year"); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := r.URL.Query().Get("month"); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = time.Month(m)
		}
	}
	return year, month
}
