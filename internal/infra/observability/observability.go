// Package observability exposes Prometheus metrics for scoring, habit
// activity and the HTTP API.
//
// Metrics are registered on the default registry at init, the same way
// promhttp.Handler() serves them on /metrics.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/grindset/grindset/internal/domain"
)

// ═══════════════════════════════════════════════════════════════════════════
// Prometheus Metrics
// ═══════════════════════════════════════════════════════════════════════════

// ─── Discipline Metrics ─────────────────────────────────────────────────────

// DisciplineOperations counts engine calls by operation.
var DisciplineOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "grindset",
	Subsystem: "discipline",
	Name:      "operations_total",
	Help:      "Total discipline engine calls by operation.",
}, []string{"operation"})

// DisciplineScore tracks the most recently computed score.
var DisciplineScore = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "grindset",
	Subsystem: "discipline",
	Name:      "score",
	Help:      "Most recently computed discipline score (0-100).",
})

// DisciplineLevel tracks the tier index of the most recent score.
var DisciplineLevel = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "grindset",
	Subsystem: "discipline",
	Name:      "level_index",
	Help:      "Tier index of the most recent score (0=Novice ... 5=Grandmaster).",
})

// WeeklyCompletionRate tracks the most recent weekly review completion rate.
var WeeklyCompletionRate = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "grindset",
	Subsystem: "review",
	Name:      "completion_rate",
	Help:      "Completion rate of the most recent weekly review (0-100).",
})

// ─── Habit Metrics ──────────────────────────────────────────────────────────

// HabitsTracked tracks how many habits exist.
var HabitsTracked = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "grindset",
	Subsystem: "habits",
	Name:      "tracked",
	Help:      "Number of habits currently tracked.",
})

// CheckIns counts recorded check-ins by outcome.
var CheckIns = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "grindset",
	Subsystem: "habits",
	Name:      "checkins_total",
	Help:      "Total check-ins recorded by outcome.",
}, []string{"outcome"})

// ─── HTTP Metrics ───────────────────────────────────────────────────────────

// HTTPRequestDuration tracks API latency by route pattern and status.
var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "grindset",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by route and status.",
	Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
}, []string{"method", "route", "status"})

// ═══════════════════════════════════════════════════════════════════════════
// Recorder
// ═══════════════════════════════════════════════════════════════════════════

// Recorder feeds the package metrics. It satisfies the recorder interfaces
// of the discipline engine and the habit service.
type Recorder struct{}

// NewRecorder returns a recorder backed by the default registry.
func NewRecorder() *Recorder { return &Recorder{} }

// CountOperation increments the engine operation counter.
func (*Recorder) CountOperation(op string) {
	DisciplineOperations.WithLabelValues(op).Inc()
}

// ObserveScore records the latest score and tier.
func (*Recorder) ObserveScore(s domain.DisciplineScore) {
	DisciplineScore.Set(float64(s.Score))
	DisciplineLevel.Set(float64(levelIndex(s.Level)))
}

// ObserveReview records the latest weekly completion rate.
func (*Recorder) ObserveReview(r domain.WeeklyReview) {
	WeeklyCompletionRate.Set(float64(r.CompletionRate))
}

// RecordCompletion counts a check-in.
func (*Recorder) RecordCompletion(completed bool) {
	outcome := "missed"
	if completed {
		outcome = "completed"
	}
	CheckIns.WithLabelValues(outcome).Inc()
}

// SetHabitCount updates the tracked-habits gauge.
func (*Recorder) SetHabitCount(n int) {
	HabitsTracked.Set(float64(n))
}

func levelIndex(name string) int {
	for i, l := range domain.Levels {
		if l.Name == name {
			return i
		}
	}
	return 0
}

// ─── HTTP Middleware ────────────────────────────────────────────────────────

// Middleware observes request latency labelled with the chi route pattern,
// so /api/habits/{id} is one series rather than one per ID.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
