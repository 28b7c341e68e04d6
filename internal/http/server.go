// Package http serves the JSON API. Handlers translate requests into
// service intents and project responses through the shared view state; all
// domain mutation happens inside the service.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"moneta/internal/form"
	"moneta/internal/service"
	"moneta/internal/view"
)

type Server struct {
	http.Server
	svc         *service.BookService
	publisher   service.Publisher
	rateLimiter *rateLimiter

	// Presentation state shared across requests, like a single open
	// browser session. Guarded separately from the service mutex.
	viewMu       sync.Mutex
	accountsView view.AccountsView
	txView       view.TransactionsView
	forms        form.Controller

	shutdownOnce sync.Once
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// startCleanup runs periodic cleanup to remove stale client entries
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}

// NewServer configures routes and returns a ready-to-run http.Server.
// publisher may be nil when no broker is configured.
func NewServer(addr string, svc *service.BookService, publisher service.Publisher, pageSize int) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		svc:          svc,
		publisher:    publisher,
		rateLimiter:  newRateLimiter(),
		accountsView: view.NewAccountsView(pageSize),
		txView:       view.NewTransactionsView(pageSize),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/accounts", s.withMiddleware(s.handleListAccounts))
	mux.HandleFunc("POST /api/accounts", s.withMiddleware(s.handleCreateAccount))
	mux.HandleFunc("POST /api/accounts/reorder", s.withMiddleware(s.handleReorderAccounts))
	mux.HandleFunc("GET /api/accounts/{id}", s.withMiddleware(s.handleAccountDetail))
	mux.HandleFunc("PUT /api/accounts/{id}", s.withMiddleware(s.handleRenameAccount))
	mux.HandleFunc("DELETE /api/accounts/{id}", s.withMiddleware(s.handleDeleteAccount))

	mux.HandleFunc("POST /api/accounts/{id}/transactions", s.withMiddleware(s.handleCreateTransaction))
	mux.HandleFunc("POST /api/accounts/{id}/transactions/reorder", s.withMiddleware(s.handleReorderTransactions))
	mux.HandleFunc("PUT /api/accounts/{id}/transactions/{txID}", s.withMiddleware(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/accounts/{id}/transactions/{txID}", s.withMiddleware(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/selection", s.withMiddleware(s.handleGetSelection))
	mux.HandleFunc("PUT /api/selection", s.withMiddleware(s.handleSetSelection))
	mux.HandleFunc("DELETE /api/selection", s.withMiddleware(s.handleClearSelection))

	mux.HandleFunc("GET /api/forms", s.withMiddleware(s.handleGetForm))
	mux.HandleFunc("POST /api/forms/account", s.withMiddleware(s.handleOpenAccountForm))
	mux.HandleFunc("POST /api/forms/transaction", s.withMiddleware(s.handleOpenTransactionForm))
	mux.HandleFunc("DELETE /api/forms", s.withMiddleware(s.handleCloseForm))

	mux.HandleFunc("GET /api/snapshot", s.withMiddleware(s.handleExportSnapshot))
	mux.HandleFunc("POST /api/snapshot", s.withMiddleware(s.handleImportSnapshot))
	mux.HandleFunc("GET /api/export.xlsx", s.withMiddleware(s.handleExportXLSX))
	mux.HandleFunc("POST /api/export", s.withMiddleware(s.handleRequestExport))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withMiddleware adds request logging, security headers, and rate limiting
// on mutating methods.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if mutating(r.Method) && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
