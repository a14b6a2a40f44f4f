// Package server provides the HTTP API for tailoring resumes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/pipeline"
)

// RunStore serves recorded runs and their artifacts. *db.DB implements it.
type RunStore interface {
	pipeline.ArtifactReader
	GetRun(ctx context.Context, runID uuid.UUID) (*db.Run, error)
	ListRuns(ctx context.Context, limit int) ([]db.Run, error)
}

var _ RunStore = (*db.DB)(nil)

// JobFetcher fetches and cleans a job posting by URL
type JobFetcher func(ctx context.Context, url string) (string, error)

// Config holds server configuration
type Config struct {
	Port     int
	Pipeline *pipeline.Pipeline
	// Registry maps profile slugs to resume names; without it the profile is the resume name
	Registry *config.Registry
	// Runs is optional; run history endpoints answer 503 without it
	Runs   RunStore
	Logger zerolog.Logger
	// FetchJob defaults to ingestion.IngestFromURL without a browser
	FetchJob JobFetcher
	// RequestsPerMinute limits tailoring requests per client IP; zero disables the limit
	RequestsPerMinute int
	// Burst is the number of tailoring requests a client may make at once
	Burst int
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	pipeline   *pipeline.Pipeline
	registry   *config.Registry
	runs       RunStore
	log        zerolog.Logger
	fetchJob   JobFetcher
	limiter    *clientLimiter
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Pipeline == nil {
		return nil, fmt.Errorf("server: pipeline is required")
	}

	s := &Server{
		pipeline: cfg.Pipeline,
		registry: cfg.Registry,
		runs:     cfg.Runs,
		log:      cfg.Logger,
		fetchJob: cfg.FetchJob,
	}
	if s.fetchJob == nil {
		s.fetchJob = func(ctx context.Context, url string) (string, error) {
			opts := ingestion.DefaultURLOptions()
			opts.Logger = cfg.Logger
			text, _, err := ingestion.IngestFromURL(ctx, url, opts)
			return text, err
		}
	}
	if cfg.RequestsPerMinute > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = newClientLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60), burst)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Tailoring calls are slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Model-backed endpoints
	mux.Handle("POST /tailor", s.withRateLimit(http.HandlerFunc(s.handleTailor)))
	mux.Handle("POST /tailor/stream", s.withRateLimit(http.HandlerFunc(s.handleTailorStream)))
	mux.Handle("POST /prepare", s.withRateLimit(http.HandlerFunc(s.handlePrepare)))

	// Run history
	mux.HandleFunc("GET /runs", s.handleListRuns)
	mux.HandleFunc("GET /runs/{id}", s.handleGetRun)
	mux.HandleFunc("GET /runs/{id}/artifacts/{step}", s.handleGetArtifact)
	mux.HandleFunc("POST /runs/{id}/replay", s.handleReplay)

	return s.withLogging(s.withCORS(mux))
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	if s.limiter != nil {
		go s.limiter.runSweeper(ctx, limiterSweepInterval, limiterIdleTTL)
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info().Msg("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps streaming responses working through the recorder
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withRateLimit rejects clients that exceed the per-IP tailoring limit
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		limiter := s.limiter.get(clientID(r))
		if !limiter.Allow() {
			res := limiter.Reserve()
			retryAfter := res.Delay()
			res.Cancel()
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())+1))
			s.log.Warn().Str("client", clientID(r)).Str("path", r.URL.Path).Msg("rate limit exceeded")
			s.errorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Idle client limiters are dropped after limiterIdleTTL, checked every limiterSweepInterval
const (
	limiterIdleTTL       = 10 * time.Minute
	limiterSweepInterval = time.Minute
)

// clientLimiter keeps one token bucket per client
type clientLimiter struct {
	mu      sync.Mutex
	every   rate.Limit
	burst   int
	clients map[string]*clientBucket
	now     func() time.Time
}

type clientBucket struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func newClientLimiter(every rate.Limit, burst int) *clientLimiter {
	return &clientLimiter{every: every, burst: burst, clients: make(map[string]*clientBucket), now: time.Now}
}

func (c *clientLimiter) get(client string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.clients[client]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(c.every, c.burst)}
		c.clients[client] = b
	}
	b.lastAccess = c.now()
	return b.limiter
}

// sweep drops limiters not used within idle and returns how many were removed
func (c *clientLimiter) sweep(idle time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := c.now().Add(-idle)
	removed := 0
	for client, b := range c.clients {
		if b.lastAccess.Before(cutoff) {
			delete(c.clients, client)
			removed++
		}
	}
	return removed
}

// size returns the number of tracked clients
func (c *clientLimiter) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.clients)
}

// runSweeper evicts idle limiters until ctx ends
func (c *clientLimiter) runSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep(idle)
		}
	}
}

// clientID extracts the client IP from RemoteAddr
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("error encoding JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
