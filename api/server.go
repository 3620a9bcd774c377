// Package api provides the HTTP REST API server for StockSentinel.
//
// It exposes on-demand sentiment analysis and stock metadata lookup for a
// single ticker, plus service and health descriptors.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phuslu/log"

	"github.com/seenimoa/stocksentinel/internal/config"
	"github.com/seenimoa/stocksentinel/internal/pipeline"
	"github.com/seenimoa/stocksentinel/pkg/models"
	"github.com/seenimoa/stocksentinel/pkg/utils"
)

// Request timeouts.
const (
	analyzeTimeout   = 5 * time.Minute
	stockInfoTimeout = 15 * time.Second
	shutdownTimeout  = 15 * time.Second
)

// Service is the analysis backend the server delegates to.
type Service interface {
	Analyze(ctx context.Context, req pipeline.Request) (*models.Report, error)
	StockInfo(ctx context.Context, ticker string) (models.StockInfo, error)
	Components() map[string]string
}

// Server is the HTTP API server.
type Server struct {
	router  chi.Router
	cfg     *config.Config
	svc     Service
	logger  *log.Logger
	version string
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, svc Service, logger *log.Logger, version string) *Server {
	srv := &Server{
		cfg:     cfg,
		svc:     svc,
		logger:  logger,
		version: version,
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server and shuts it down gracefully on
// SIGINT or SIGTERM.
func (s *Server) ListenAndServe(addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Serve(ctx, addr)
}

// Serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests for up to 15 seconds.
func (s *Server) Serve(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: analyzeTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("API server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(analyzeTimeout + 5*time.Second))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/analyze/{ticker}", s.handleAnalyze)
		r.Get("/stock-info/{ticker}", s.handleStockInfo)
		r.Get("/config", s.handleGetConfig)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, s.logger, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, s.logger, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return r
}

// requestLogger logs one line per request with status and latency.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}

// ============================================================
// Response types
// ============================================================

// ServiceInfo is the body of GET /.
type ServiceInfo struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Components map[string]string `json:"components"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, ServiceInfo{
		Message: "StockSentinel API",
		Version: s.version,
		Endpoints: map[string]string{
			"analyze": "/api/analyze/{ticker}",
			"info":    "/api/stock-info/{ticker}",
			"health":  "/health",
			"config":  "/api/config",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, HealthResponse{
		Status:     "healthy",
		Timestamp:  utils.FormatTimestamp(time.Now()),
		Components: s.svc.Components(),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	days, err := intQuery(r, "days", s.cfg.Analysis.DefaultDays, pipeline.DefaultDays)
	if err != nil {
		writeError(w, s.logger, http.StatusBadRequest, err.Error())
		return
	}
	maxArticles, err := intQuery(r, "max_articles", s.cfg.Analysis.DefaultMaxArticles, pipeline.DefaultMaxArticles)
	if err != nil {
		writeError(w, s.logger, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
	defer cancel()

	report, err := s.svc.Analyze(ctx, pipeline.Request{Ticker: ticker, Days: days, MaxArticles: maxArticles})
	if err != nil {
		s.writeServiceError(w, ticker, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, report)
}

func (s *Server) handleStockInfo(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	ctx, cancel := context.WithTimeout(r.Context(), stockInfoTimeout)
	defer cancel()

	info, err := s.svc.StockInfo(ctx, ticker)
	if err != nil {
		s.writeServiceError(w, ticker, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, info)
}

// writeServiceError maps pipeline errors onto HTTP status codes.
func (s *Server) writeServiceError(w http.ResponseWriter, ticker string, err error) {
	switch {
	case errors.Is(err, pipeline.ErrInvalidInput):
		writeError(w, s.logger, http.StatusBadRequest, err.Error())
	case errors.Is(err, pipeline.ErrNoArticles):
		writeError(w, s.logger, http.StatusNotFound, err.Error())
	default:
		s.logger.Error().Err(err).Str("ticker", ticker).Msg("request failed")
		writeError(w, s.logger, http.StatusInternalServerError, err.Error())
	}
}

// intQuery reads an integer query parameter. Range checks are left to the
// pipeline so CLI and API share one set of limits.
func intQuery(r *http.Request, name string, defaults ...int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		for _, d := range defaults {
			if d > 0 {
				return d, nil
			}
		}
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return v, nil
}

// ============================================================
// Helpers
// ============================================================

func writeJSON(w http.ResponseWriter, logger *log.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
	}
}

func writeError(w http.ResponseWriter, logger *log.Logger, status int, msg string) {
	writeJSON(w, logger, status, ErrorResponse{Detail: msg})
}
