// Package habit manages habits and their daily check-ins.
//
// The service owns streak bookkeeping: each check-in moves the streak
// forward, holds it, or resets it, the way a day-granular habit tracker
// does. Scoring treats the stored streak as ground truth.
package habit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/grindset/grindset/internal/domain"
)

// Recorder receives habit activity for metrics.
type Recorder interface {
	RecordCompletion(completed bool)
	SetHabitCount(n int)
}

type nopRecorder struct{}

func (nopRecorder) RecordCompletion(bool) {}
func (nopRecorder) SetHabitCount(int)     {}

// Service is the habit application service.
type Service struct {
	mu       sync.Mutex // serializes read-modify-write of streaks
	store    domain.HabitStore
	logger   *zap.Logger
	loc      *time.Location
	now      func() time.Time
	recorder Recorder
}

// NewService creates a habit service. loc sets the day boundary for "today".
func NewService(store domain.HabitStore, loc *time.Location, logger *zap.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		logger:   logger,
		loc:      loc,
		now:      time.Now,
		recorder: nopRecorder{},
	}
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// SetRecorder attaches a metrics recorder.
func (s *Service) SetRecorder(r Recorder) { s.recorder = r }

// Today returns the current calendar day in the service's location.
func (s *Service) Today() domain.Date {
	return domain.DateOf(s.now().In(s.loc))
}

// Create adds a new habit with an empty history.
func (s *Service) Create(ctx context.Context, name string) (*domain.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidHabitName
	}

	h := domain.Habit{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.InsertHabit(ctx, h); err != nil {
		return nil, err
	}
	s.logger.Info("habit created", zap.String("habit_id", h.ID), zap.String("name", h.Name))
	s.refreshCount(ctx)
	return &h, nil
}

// List returns every habit in creation order.
func (s *Service) List(ctx context.Context) ([]domain.Habit, error) {
	return s.store.ListHabits(ctx)
}

// Get returns a habit by ID.
func (s *Service) Get(ctx context.Context, id string) (*domain.Habit, error) {
	return s.store.GetHabit(ctx, id)
}

// Resolve finds a habit by ID, falling back to its case-insensitive name.
func (s *Service) Resolve(ctx context.Context, ref string) (*domain.Habit, error) {
	h, err := s.store.GetHabit(ctx, ref)
	if errors.Is(err, domain.ErrHabitNotFound) {
		return s.store.FindHabitByName(ctx, strings.TrimSpace(ref))
	}
	return h, err
}

// Delete removes a habit and its history.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteHabit(ctx, id); err != nil {
		return err
	}
	s.logger.Info("habit deleted", zap.String("habit_id", id))
	s.refreshCount(ctx)
	return nil
}

// Record appends a check-in for day and updates the streak:
//   - completed the day after the last completion: streak+1
//   - completed again on the last completed day: unchanged
//   - completed for a day before the last completion (backfill): unchanged
//   - completed after a gap, or with no streak running: 1
//   - missed on or after the last completed day: 0
//   - missed for a day before the last completion (backfill): unchanged
func (s *Service) Record(ctx context.Context, id string, day domain.Date, completed bool) (*domain.Habit, error) {
	if day.IsZero() {
		return nil, domain.ErrInvalidDate
	}
	if day.After(s.Today()) {
		return nil, fmt.Errorf("%w: %s", domain.ErrFutureCompletion, day)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.store.GetHabit(ctx, id)
	if err != nil {
		return nil, err
	}

	streak := NextStreak(*h, day, completed)
	c := domain.Completion{Date: day, Completed: completed}
	if err := s.store.RecordCompletion(ctx, h.ID, c, streak); err != nil {
		return nil, err
	}

	h.Completions = append(h.Completions, c)
	h.Streak = streak
	s.recorder.RecordCompletion(completed)
	s.logger.Info("check-in recorded",
		zap.String("habit_id", h.ID),
		zap.String("day", day.String()),
		zap.Bool("completed", completed),
		zap.Int("streak", streak))
	return h, nil
}

// NextStreak returns the streak after a check-in on day for h.
func NextStreak(h domain.Habit, day domain.Date, completed bool) int {
	last, ok := h.LastCompleted()
	if !completed {
		if ok && day.Before(last) {
			return h.Streak
		}
		return 0
	}
	if !ok || h.Streak == 0 {
		return 1
	}
	switch {
	case day.Equal(last), day.Before(last):
		return h.Streak
	case day.Equal(last.AddDays(1)):
		return h.Streak + 1
	default:
		return 1
	}
}

// Snapshot returns the full habit list for scoring.
func (s *Service) Snapshot(ctx context.Context) ([]domain.Habit, error) {
	habits, err := s.store.ListHabits(ctx)
	if err != nil {
		return nil, fmt.Errorf("habit snapshot: %w", err)
	}
	return habits, nil
}

func (s *Service) refreshCount(ctx context.Context) {
	habits, err := s.store.ListHabits(ctx)
	if err != nil {
		s.logger.Warn("habit count refresh failed", zap.Error(err))
		return
	}
	s.recorder.SetHabitCount(len(habits))
}
