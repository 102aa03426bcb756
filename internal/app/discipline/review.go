package discipline

import (
	"math"
	"slices"

	"github.com/grindset/grindset/internal/domain"
)

// ReviewWindowDays reaches back from today; the window [today-7, today] is inclusive.
const ReviewWindowDays = 7

// Fixed weekly review summaries, selected by completion rate.
const (
	SummaryNoHabits    = "No habits tracked yet. Add a habit to get your first weekly review."
	SummaryOutstanding = "Outstanding week! Your discipline is paying off."
	SummaryGood        = "Good week. A little more consistency will take you to the next level."
	SummaryFair        = "Decent effort this week. Focus on the habits that matter most."
	SummaryRough       = "Tough week. Start small and rebuild momentum one day at a time."
)

// Review summarizes the trailing week of habits as of today.
func Review(habits []domain.Habit, today domain.Date) domain.WeeklyReview {
	if len(habits) == 0 {
		return domain.WeeklyReview{Summary: SummaryNoHabits}
	}

	since := today.AddDays(-ReviewWindowDays)
	rate := weeklyCompletionRate(habits, since, today)

	return domain.WeeklyReview{
		CompletionRate:  rate,
		StreakGrowth:    streakGrowth(habits, today),
		TopHabit:        topHabit(habits),
		ImprovementArea: improvementArea(habits, since, today),
		Summary:         summaryFor(rate),
	}
}

func inWindow(d, since, today domain.Date) bool {
	return !d.Before(since) && !d.After(today)
}

func weeklyCompletionRate(habits []domain.Habit, since, today domain.Date) int {
	var completed, attempts int
	for _, h := range habits {
		for _, c := range h.Completions {
			if !inWindow(c.Date, since, today) {
				continue
			}
			attempts++
			if c.Completed {
				completed++
			}
		}
	}
	if attempts == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(attempts) * 100))
}

// streakGrowth averages streak-per-day over habits with at least two entries,
// but divides by the total habit count, so habits with less history pull the
// figure down.
func streakGrowth(habits []domain.Habit, today domain.Date) float64 {
	var sum float64
	for _, h := range habits {
		if len(h.Completions) < 2 {
			continue
		}
		oldest := h.Completions[0].Date
		for _, c := range h.Completions[1:] {
			if c.Date.Before(oldest) {
				oldest = c.Date
			}
		}
		days := today.DaysSince(oldest)
		if days < 1 {
			days = 1
		}
		sum += float64(h.Streak) / float64(days)
	}
	return math.Round(sum/float64(len(habits))*100) / 100
}

// topHabit picks the highest streak; the first habit wins ties.
func topHabit(habits []domain.Habit) *string {
	best := 0
	for i, h := range habits {
		if h.Streak > habits[best].Streak {
			best = i
		}
	}
	name := habits[best].Name
	return &name
}

// improvementArea names the first habit whose latest entry this week is a miss.
// Entries on the same day keep their recorded order.
func improvementArea(habits []domain.Habit, since, today domain.Date) *string {
	for _, h := range habits {
		var recent []domain.Completion
		for _, c := range h.Completions {
			if inWindow(c.Date, since, today) {
				recent = append(recent, c)
			}
		}
		if len(recent) == 0 {
			continue
		}
		slices.SortStableFunc(recent, func(a, b domain.Completion) int {
			return b.Date.Time().Compare(a.Date.Time())
		})
		if !recent[0].Completed {
			name := h.Name
			return &name
		}
	}
	return nil
}

func summaryFor(rate int) string {
	switch {
	case rate >= 80:
		return SummaryOutstanding
	case rate >= 60:
		return SummaryGood
	case rate >= 40:
		return SummaryFair
	default:
		return SummaryRough
	}
}
