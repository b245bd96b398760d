package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"gastos/internal/backend"
	"gastos/internal/cache"
	"gastos/internal/core"
	"gastos/internal/log"
	"gastos/internal/middleware/security"
	"gastos/internal/middleware/trace"
)

const (
	txCacheKey = "all"

	cacheTTL             = 5 * time.Minute
	cacheCleanupInterval = time.Minute
)

// Server exposes the JSON API. Read endpoints are served from small LRU
// caches that get purged on every write, so responses are never staler
// than the cache TTL and usually exactly current.
type Server struct {
	http.Server

	backend backend.Backend
	logger  *log.Logger

	rateLimiter  *rateLimiter
	txCache      *cache.LRUCache[[]core.Transaction]
	budgetCache  *cache.LRUCache[[]core.CategoryBudget]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, b backend.Backend, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		backend:      b,
		logger:       logger.WithComponent(log.ComponentHTTP),
		rateLimiter:  newRateLimiter(),
		txCache:      cache.NewLRUCache[[]core.Transaction](10, cacheTTL),
		budgetCache:  cache.NewLRUCache[[]core.CategoryBudget](100, cacheTTL),
		cacheManager: cache.NewManager(),
	}
	s.cacheManager.Register(s.txCache)
	s.cacheManager.Register(s.budgetCache)
	s.cacheManager.StartCleanup(cacheCleanupInterval)

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.HandleFunc("/api/transactions/", s.handleTransactionByID)
	mux.HandleFunc("/api/budget/monthly", s.handleMonthlyTotals)
	mux.HandleFunc("/api/budget/categories", s.handleCategoryBudgets)
	mux.HandleFunc("/api/budget/analytics", s.handleAnalytics)
	mux.HandleFunc("/api/budget/settings", s.handleSettings)

	traceMW := trace.NewMiddleware(clientIP)
	headers := security.Headers(security.DefaultHeadersConfig())
	handler := traceMW.Middleware(headers(s.withRateLimit(mux)))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// withRateLimit applies per-IP rate limiting to mutating requests only.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			ip := clientIP(r)
			if !s.rateLimiter.allow(ip) {
				s.logger.WarnContext(r.Context(), "Rate limit exceeded",
					log.FieldClientIP, ip, log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
				w.Header().Set("Retry-After", "60")
				writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// listTransactions serves the full snapshot through the cache.
func (s *Server) listTransactions(ctx context.Context) ([]core.Transaction, error) {
	if txs, ok := s.txCache.Get(txCacheKey); ok {
		return txs, nil
	}
	txs, err := s.backend.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	s.txCache.Set(txCacheKey, txs)
	return txs, nil
}

// invalidate drops every cached read after a write.
func (s *Server) invalidate() {
	s.txCache.Purge()
	s.budgetCache.Purge()
}

// Shutdown stops background goroutines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
