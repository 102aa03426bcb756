// Package discipline scores habit history.
//
// Every function here is pure: it reads the habit snapshot and a reference
// day, never mutates its input and keeps no state between calls. The Engine
// type binds a clock, a random source and observability around them.
package discipline

import (
	"math"

	"github.com/grindset/grindset/internal/domain"
)

// Score weights sum to 1.0.
const (
	StreakWeight      = 0.4
	CompletionWeight  = 0.4
	ConsistencyWeight = 0.2

	StreakCapDays     = 30 // A streak this long saturates the streak component
	ConsistencyWindow = 14 // Trailing days, today included
)

// Components is the unweighted breakdown behind a score, each 0–100.
type Components struct {
	Streak      float64 `json:"streak"`
	Completion  float64 `json:"completion"`
	Consistency float64 `json:"consistency"`
}

// Total blends the components and clamps to 100.
func (c Components) Total() float64 {
	total := c.Streak*StreakWeight + c.Completion*CompletionWeight + c.Consistency*ConsistencyWeight
	return math.Min(100, total)
}

// CalculateScore computes the discipline score of habits as of today.
// Empty input yields the floor score.
func CalculateScore(habits []domain.Habit, today domain.Date) domain.DisciplineScore {
	if len(habits) == 0 {
		return scoreFor(0)
	}
	return scoreFor(ComputeComponents(habits, today).Total())
}

// ComputeComponents returns the three unweighted sub-scores.
func ComputeComponents(habits []domain.Habit, today domain.Date) Components {
	return Components{
		Streak:      streakComponent(habits),
		Completion:  completionComponent(habits),
		Consistency: consistencyComponent(habits, today),
	}
}

// streakComponent normalizes the longest streak against StreakCapDays.
func streakComponent(habits []domain.Habit) float64 {
	best := 0
	for _, h := range habits {
		if h.Streak > best {
			best = h.Streak
		}
	}
	return math.Min(100, float64(best)/StreakCapDays*100)
}

// completionComponent pools every entry of every habit, not a per-habit average.
func completionComponent(habits []domain.Habit) float64 {
	var completed, attempts int
	for _, h := range habits {
		completed += h.CompletedCount()
		attempts += len(h.Completions)
	}
	if attempts == 0 {
		return 0
	}
	return float64(completed) / float64(attempts) * 100
}

// consistencyComponent counts active days in the trailing window. Any entry
// makes a day active, whether or not it was completed.
func consistencyComponent(habits []domain.Habit, today domain.Date) float64 {
	touched := make(map[string]struct{})
	for _, h := range habits {
		for _, c := range h.Completions {
			touched[c.Date.String()] = struct{}{}
		}
	}

	active := 0
	for i := 0; i < ConsistencyWindow; i++ {
		if _, ok := touched[today.AddDays(-i).String()]; ok {
			active++
		}
	}
	return float64(active) / ConsistencyWindow * 100
}

// LevelFor returns the highest tier reached by score and the tier after it.
// next is nil at the top tier.
func LevelFor(score float64) (current domain.Level, next *domain.Level) {
	idx := 0
	for i, lvl := range domain.Levels {
		if float64(lvl.MinScore) <= score {
			idx = i
		}
	}
	current = domain.Levels[idx]
	if idx+1 < len(domain.Levels) {
		n := domain.Levels[idx+1]
		next = &n
	}
	return current, next
}

// scoreFor rounds total and resolves the tier band for the rounded value,
// so the reported score, level and progress always agree with each other.
func scoreFor(total float64) domain.DisciplineScore {
	score := math.Round(math.Max(0, math.Min(100, total)))
	current, next := LevelFor(score)

	if next == nil {
		return domain.DisciplineScore{
			Score:     int(score),
			Level:     current.Name,
			NextLevel: domain.MaxLevelName,
			Progress:  100,
		}
	}

	band := float64(next.MinScore - current.MinScore)
	progress := (score - float64(current.MinScore)) / band * 100
	return domain.DisciplineScore{
		Score:     int(score),
		Level:     current.Name,
		NextLevel: next.Name,
		Progress:  int(math.Round(progress)),
	}
}
