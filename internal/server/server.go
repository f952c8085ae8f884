// Package server provides the HTTP JSON API for the career coach service.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/interview"
	"github.com/jonathan/career-coach/internal/logger"
	"github.com/jonathan/career-coach/internal/quota"
	"github.com/jonathan/career-coach/internal/resume"
	"github.com/jonathan/career-coach/internal/roadmap"
	"github.com/jonathan/career-coach/internal/server/middleware"
	"github.com/jonathan/career-coach/internal/server/ratelimit"
	"github.com/jonathan/career-coach/internal/types"
)

// maxJSONBodyBytes bounds JSON request bodies.
const maxJSONBodyBytes = 1 << 20

// DashboardStore reads the latest state of each feature. Each method returns
// nil, nil when the user has nothing yet.
type DashboardStore interface {
	LatestResume(ctx context.Context, userID uuid.UUID) (*types.DashboardResume, error)
	LatestInterview(ctx context.Context, userID uuid.UUID) (*types.DashboardInterview, error)
	RoadmapProgress(ctx context.Context, userID uuid.UUID) (*types.DashboardRoadmap, error)
}

// Pinger reports storage health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the handlers call into.
type Deps struct {
	Ledger     *quota.Ledger
	Resumes    *resume.Service
	Interviews *interview.Service
	Roadmaps   *roadmap.Service
	Dashboard  DashboardStore
	Tokens     middleware.TokenValidator
	// Pinger is optional; when nil /health does not check storage.
	Pinger Pinger
	Logger *zap.Logger
}

// Config holds server configuration
type Config struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64
	RateLimit       *ratelimit.Config
}

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	handler         http.Handler
	ledger          *quota.Ledger
	resumes         *resume.Service
	interviews      *interview.Service
	roadmaps        *roadmap.Service
	dashboard       DashboardStore
	pinger          Pinger
	rateLimiter     *ratelimit.Limiter
	logger          *zap.Logger
	maxUploadBytes  int64
	shutdownTimeout time.Duration
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Ledger == nil || deps.Resumes == nil || deps.Interviews == nil ||
		deps.Roadmaps == nil || deps.Dashboard == nil || deps.Tokens == nil {
		return nil, fmt.Errorf("server: missing dependency")
	}

	s := &Server{
		ledger:          deps.Ledger,
		resumes:         deps.Resumes,
		interviews:      deps.Interviews,
		roadmaps:        deps.Roadmaps,
		dashboard:       deps.Dashboard,
		pinger:          deps.Pinger,
		rateLimiter:     ratelimit.NewLimiter(cfg.RateLimit),
		logger:          logger.OrNop(deps.Logger),
		maxUploadBytes:  cfg.MaxUploadBytes,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	if s.maxUploadBytes <= 0 {
		s.maxUploadBytes = 8 << 20
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = 30 * time.Second
	}

	api := http.NewServeMux()

	// Usage
	api.HandleFunc("GET /v1/usage/status", s.handleUsageStatus)

	// Resume
	api.HandleFunc("POST /v1/resume/analyze", s.handleAnalyzeResume)
	api.HandleFunc("POST /v1/resume/upload", s.handleUploadResume)
	api.HandleFunc("GET /v1/resume/history", s.handleResumeHistory)
	api.HandleFunc("GET /v1/resume/{id}", s.handleGetResume)

	// Interview
	api.HandleFunc("POST /v1/interview/start", s.handleStartInterview)
	api.HandleFunc("POST /v1/interview/{id}/turn", s.handleInterviewTurn)
	api.HandleFunc("GET /v1/interview/{id}/summary", s.handleInterviewSummary)
	api.HandleFunc("GET /v1/interview/history", s.handleInterviewHistory)
	api.HandleFunc("GET /v1/interview/{id}", s.handleGetInterview)

	// Roadmap and onboarding
	api.HandleFunc("POST /v1/roadmap/generate", s.handleGenerateRoadmap)
	api.HandleFunc("GET /v1/roadmap/current", s.handleCurrentRoadmap)
	api.HandleFunc("POST /v1/roadmap/milestone", s.handleMilestone)
	api.HandleFunc("GET /v1/onboarding", s.handleGetOnboarding)
	api.HandleFunc("POST /v1/onboarding", s.handleSaveOnboarding)

	// Dashboard
	api.HandleFunc("GET /v1/dashboard/summary", s.handleDashboardSummary)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("/v1/", middleware.AuthMiddleware(deps.Tokens, s.logger)(api))

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is cancelled or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logs.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", s.extractClientID(r)),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.pinger.Ping(ctx); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "unreachable"})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON reads a JSON body into v. An empty body leaves v unchanged.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &ErrBadRequest{Message: "invalid request body"}
	}
	return nil
}

// requireUser returns the caller's user ID, writing a 401 when it is missing.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (uuid.UUID, error) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &types.ErrValidation{Field: "id", Message: "must be a UUID"}
	}
	return id, nil
}

// extractClientID extracts the client identifier from the request.
// RemoteAddr is used; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.logger.Info("rate limit exceeded",
		zap.String("client", s.extractClientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
