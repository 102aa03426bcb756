package discipline

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/grindset/grindset/internal/domain"
)

func TestSuggestions(t *testing.T) {
	lowRate := append(sameDay(2, today, true), sameDay(4, today.AddDays(-1), false)...)

	tests := []struct {
		name   string
		habits []domain.Habit
		want   []string
	}{
		{
			name:   "empty input prompts onboarding",
			habits: nil,
			want:   []string{SuggestOnboarding},
		},
		{
			name: "zero streak then good streak then too few",
			habits: []domain.Habit{
				{Name: "Read", Streak: 0},
				{Name: "Run", Streak: 8},
			},
			want: []string{
				fmt.Sprintf(suggestZeroStreak, "Read"),
				fmt.Sprintf(suggestGoodStreak, "Run"),
				SuggestAddHabits,
			},
		},
		{
			name: "first zero streak habit is named",
			habits: []domain.Habit{
				{Name: "Stretch", Streak: 2},
				{Name: "Journal", Streak: 0},
				{Name: "Floss", Streak: 0},
			},
			want: []string{fmt.Sprintf(suggestZeroStreak, "Journal")},
		},
		{
			name: "low completion rate",
			habits: []domain.Habit{
				{Name: "Gym", Streak: 1, Completions: lowRate},
				{Name: "Read", Streak: 2},
				{Name: "Cook", Streak: 3},
			},
			want: []string{fmt.Sprintf(suggestLowRate, "Gym")},
		},
		{
			name: "low rate needs five entries",
			habits: []domain.Habit{
				{Name: "Gym", Streak: 1, Completions: sameDay(4, today, false)},
				{Name: "Read", Streak: 2},
				{Name: "Cook", Streak: 3},
			},
			want: []string{SuggestKeepGoing},
		},
		{
			name: "exactly half is not low",
			habits: []domain.Habit{
				{Name: "Gym", Streak: 1, Completions: append(sameDay(3, today, true), sameDay(3, today, false)...)},
				{Name: "Read", Streak: 2},
				{Name: "Cook", Streak: 3},
			},
			want: []string{SuggestKeepGoing},
		},
		{
			name: "too many habits",
			habits: []domain.Habit{
				{Name: "1", Streak: 1}, {Name: "2", Streak: 1}, {Name: "3", Streak: 1},
				{Name: "4", Streak: 1}, {Name: "5", Streak: 1}, {Name: "6", Streak: 1},
				{Name: "7", Streak: 1}, {Name: "8", Streak: 1},
			},
			want: []string{SuggestFocus},
		},
		{
			name: "seven habits is fine",
			habits: []domain.Habit{
				{Name: "1", Streak: 1}, {Name: "2", Streak: 1}, {Name: "3", Streak: 1},
				{Name: "4", Streak: 1}, {Name: "5", Streak: 1}, {Name: "6", Streak: 1},
				{Name: "7", Streak: 1},
			},
			want: []string{SuggestKeepGoing},
		},
		{
			name: "every rule fires in order",
			habits: []domain.Habit{
				{Name: "Gym", Streak: 0, Completions: lowRate},
				{Name: "Run", Streak: 7},
			},
			want: []string{
				fmt.Sprintf(suggestZeroStreak, "Gym"),
				fmt.Sprintf(suggestLowRate, "Gym"),
				fmt.Sprintf(suggestGoodStreak, "Run"),
				SuggestAddHabits,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggestions(tt.habits)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Suggestions() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSuggestions_EmptyIsSingleElement(t *testing.T) {
	got := Suggestions([]domain.Habit{})
	if len(got) != 1 {
		t.Fatalf("Suggestions([]) returned %d items, want 1", len(got))
	}
}
