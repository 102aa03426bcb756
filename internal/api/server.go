// Package api provides the HTTP server for grindset.
// It exposes habit CRUD and the discipline views (score, suggestions,
// weekly review, quote) as JSON over a chi router.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/grindset/grindset/internal/app/discipline"
	"github.com/grindset/grindset/internal/app/habit"
	"github.com/grindset/grindset/internal/domain"
	"github.com/grindset/grindset/internal/infra/observability"
)

// Version is reported by /api/version.
const Version = "0.3.0"

// Server is the grindset HTTP API server.
type Server struct {
	habits         *habit.Service
	engine         *discipline.Engine
	history        domain.ScoreHistory // nil disables snapshots and /history
	logger         *zap.Logger
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(habits *habit.Service, engine *discipline.Engine, history domain.ScoreHistory, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{habits: habits, engine: engine, history: history, logger: logger}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)
	if s.metricsEnabled {
		r.Use(observability.Middleware)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": Version,
		})
	})

	r.Route("/api/habits", func(r chi.Router) {
		r.Get("/", s.handleListHabits)
		r.Post("/", s.handleCreateHabit)
		r.Get("/{id}", s.handleGetHabit)
		r.Delete("/{id}", s.handleDeleteHabit)
		r.Post("/{id}/completions", s.handleRecordCompletion)
	})

	r.Route("/api/discipline", func(r chi.Router) {
		r.Get("/score", s.handleScore)
		r.Get("/suggestions", s.handleSuggestions)
		r.Get("/review", s.handleReview)
		r.Get("/quote", s.handleQuote)
		r.Get("/levels", s.handleLevels)
		r.Get("/report", s.handleReport)
		r.Get("/history", s.handleHistory)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeDomainError maps domain sentinel errors to HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrHabitNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrHabitExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidHabitName),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrFutureCompletion):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// corsMiddleware adds CORS headers for the dashboard front-end.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
