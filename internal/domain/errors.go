package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Callers match these with errors.Is; the API maps them to status codes.

var (
	// Habit errors
	ErrHabitNotFound    = errors.New("habit not found")
	ErrHabitExists      = errors.New("habit already exists")
	ErrInvalidHabitName = errors.New("habit name must not be empty")

	// Completion errors
	ErrInvalidDate      = errors.New("invalid date, expected YYYY-MM-DD")
	ErrFutureCompletion = errors.New("cannot record a completion in the future")
)
