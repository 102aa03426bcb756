package domain

import "context"

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// HabitStore abstracts persistent habit and check-in storage.
type HabitStore interface {
	InsertHabit(ctx context.Context, h Habit) error
	GetHabit(ctx context.Context, id string) (*Habit, error)
	FindHabitByName(ctx context.Context, name string) (*Habit, error)
	ListHabits(ctx context.Context) ([]Habit, error) // Creation order, completions included
	DeleteHabit(ctx context.Context, id string) error
	// RecordCompletion appends c and sets the habit's streak atomically.
	RecordCompletion(ctx context.Context, habitID string, c Completion, streak int) error
}

// ScoreHistory abstracts the daily discipline score log.
type ScoreHistory interface {
	SaveScoreSnapshot(ctx context.Context, s ScoreSnapshot) error
	ListScoreSnapshots(ctx context.Context, limit int) ([]ScoreSnapshot, error)
}
