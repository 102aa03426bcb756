package discipline

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/grindset/grindset/internal/domain"
)

// Recorder receives scoring results for metrics. Implementations must be
// safe for concurrent use.
type Recorder interface {
	CountOperation(op string)
	ObserveScore(s domain.DisciplineScore)
	ObserveReview(r domain.WeeklyReview)
}

type nopRecorder struct{}

func (nopRecorder) CountOperation(string)               {}
func (nopRecorder) ObserveScore(domain.DisciplineScore) {}
func (nopRecorder) ObserveReview(domain.WeeklyReview)   {}

// globalSource draws from the process-wide math/rand/v2 generator, which is
// safe for concurrent use unlike a *rand.Rand.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Config controls engine behavior.
type Config struct {
	Location *time.Location // Day boundary for "today" (default: time.Local)
}

// DefaultConfig returns engine defaults.
func DefaultConfig() Config {
	return Config{Location: time.Local}
}

// Engine binds the pure scoring functions to a clock, a random source and
// observability. It holds no habit state; every call scores the snapshot
// it is given.
type Engine struct {
	loc      *time.Location
	now      func() time.Time
	rand     Source
	logger   *zap.Logger
	recorder Recorder
}

// New creates a discipline engine.
func New(cfg Config, logger *zap.Logger) *Engine {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		loc:      cfg.Location,
		now:      time.Now,
		rand:     globalSource{},
		logger:   logger,
		recorder: nopRecorder{},
	}
}

// SetClock overrides the time source (tests, replay).
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// SetRand overrides the quote random source.
func (e *Engine) SetRand(r Source) { e.rand = r }

// SetRecorder attaches a metrics recorder.
func (e *Engine) SetRecorder(r Recorder) { e.recorder = r }

// Location returns the engine's day boundary zone.
func (e *Engine) Location() *time.Location { return e.loc }

// Today returns the current calendar day in the engine's location.
func (e *Engine) Today() domain.Date {
	return domain.DateOf(e.now().In(e.loc))
}

// Score computes the discipline score as of today.
func (e *Engine) Score(habits []domain.Habit) domain.DisciplineScore {
	return e.ScoreAt(habits, e.Today())
}

// ScoreAt computes the discipline score as of day. Callers that persist the
// score alongside a date pass the same day to both.
func (e *Engine) ScoreAt(habits []domain.Habit, day domain.Date) domain.DisciplineScore {
	s := CalculateScore(habits, day)
	e.recorder.CountOperation("score")
	e.recorder.ObserveScore(s)
	e.logger.Debug("discipline score computed",
		zap.Int("habits", len(habits)),
		zap.Int("score", s.Score),
		zap.String("level", s.Level))
	return s
}

// Suggestions returns improvement hints for habits.
func (e *Engine) Suggestions(habits []domain.Habit) []string {
	out := Suggestions(habits)
	e.recorder.CountOperation("suggestions")
	return out
}

// Review builds the weekly review as of today.
func (e *Engine) Review(habits []domain.Habit) domain.WeeklyReview {
	r := Review(habits, e.Today())
	e.recorder.CountOperation("review")
	e.recorder.ObserveReview(r)
	return r
}

// Quote picks a motivational quote.
func (e *Engine) Quote() domain.Quote {
	e.recorder.CountOperation("quote")
	return Quote(e.rand)
}

// Report bundles every view of one habit snapshot.
type Report struct {
	ID          string                 `json:"id"`
	Date        domain.Date            `json:"date"`
	Score       domain.DisciplineScore `json:"score"`
	Components  Components             `json:"components"`
	Suggestions []string               `json:"suggestions"`
	Review      domain.WeeklyReview    `json:"review"`
	Quote       domain.Quote           `json:"quote"`
}

// Report scores, reviews and annotates habits against a single "today", so
// the parts never straddle midnight.
func (e *Engine) Report(habits []domain.Habit) Report {
	today := e.Today()
	rep := Report{
		ID:          uuid.NewString(),
		Date:        today,
		Score:       CalculateScore(habits, today),
		Components:  ComputeComponents(habits, today),
		Suggestions: Suggestions(habits),
		Review:      Review(habits, today),
		Quote:       Quote(e.rand),
	}
	e.recorder.CountOperation("report")
	e.recorder.ObserveScore(rep.Score)
	e.recorder.ObserveReview(rep.Review)
	e.logger.Info("discipline report built",
		zap.String("report_id", rep.ID),
		zap.String("date", today.String()),
		zap.Int("score", rep.Score.Score),
		zap.Int("weekly_rate", rep.Review.CompletionRate))
	return rep
}
