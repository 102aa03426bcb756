package discipline

import (
	"fmt"

	"github.com/grindset/grindset/internal/domain"
)

// ─── Suggestion Rules ───────────────────────────────────────────────────────
// Rules run in a fixed order and each contributes at most one line.

const (
	lowCompletionMinEntries = 5   // Need this many entries before judging the rate
	lowCompletionRate       = 0.5 // Below this, suggest a lower target
	goodStreakDays          = 7   // At or above this, suggest a higher target
	fewHabits               = 3   // Fewer than this → add more
	manyHabits              = 7   // More than this → focus
)

// Fixed suggestion texts.
const (
	SuggestOnboarding = "Start by adding your first habit. Small daily actions are where discipline begins."
	SuggestAddHabits  = "Add a few more habits to build a well-rounded routine."
	SuggestFocus      = "You are tracking a lot of habits. Focus on the few that matter most and drop the rest."
	SuggestKeepGoing  = "You're on a solid path. Keep showing up every day."
	suggestZeroStreak = "Restart your streak on %q. One completion today gets you back on track."
	suggestLowRate    = "%q is completed less than half the time. Try a lower weekly target and build up from there."
	suggestGoodStreak = "Great consistency on %q! Consider raising its weekly target."
)

// Suggestions returns improvement hints for habits, in rule order.
func Suggestions(habits []domain.Habit) []string {
	if len(habits) == 0 {
		return []string{SuggestOnboarding}
	}

	var out []string

	if h, ok := firstHabit(habits, func(h domain.Habit) bool { return h.Streak == 0 }); ok {
		out = append(out, fmt.Sprintf(suggestZeroStreak, h.Name))
	}

	if h, ok := firstHabit(habits, lowCompletion); ok {
		out = append(out, fmt.Sprintf(suggestLowRate, h.Name))
	}

	if h, ok := firstHabit(habits, func(h domain.Habit) bool { return h.Streak >= goodStreakDays }); ok {
		out = append(out, fmt.Sprintf(suggestGoodStreak, h.Name))
	}

	switch {
	case len(habits) < fewHabits:
		out = append(out, SuggestAddHabits)
	case len(habits) > manyHabits:
		out = append(out, SuggestFocus)
	}

	if len(out) == 0 {
		out = append(out, SuggestKeepGoing)
	}
	return out
}

// lowCompletion reports a habit with enough history and a poor individual rate.
func lowCompletion(h domain.Habit) bool {
	total := len(h.Completions)
	if total < lowCompletionMinEntries {
		return false
	}
	return float64(h.CompletedCount())/float64(total) < lowCompletionRate
}

func firstHabit(habits []domain.Habit, match func(domain.Habit) bool) (domain.Habit, bool) {
	for _, h := range habits {
		if match(h) {
			return h, true
		}
	}
	return domain.Habit{}, false
}
