// Package domain contains the habit and discipline types shared by every layer.
// It imports nothing outside the standard library.
package domain

import (
	"fmt"
	"time"
)

// DateLayout is the canonical wire and storage format for calendar days.
const DateLayout = "2006-01-02"

// ─── Calendar Day ───────────────────────────────────────────────────────────

// Date is a calendar day without time-of-day or zone.
// Internally it is midnight UTC, so day arithmetic never crosses a DST edge.
type Date struct {
	t time.Time
}

// NewDate builds a Date from its parts. Out-of-range parts normalize the way
// time.Date does (Jan 32 → Feb 1).
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
// Convert with t.In(loc) first to pick the user's day boundary.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a "2006-01-02" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{t: t}, nil
}

// IsZero reports whether d is the unset date.
func (d Date) IsZero() bool { return d.t.IsZero() }

// String renders the day as "2006-01-02".
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// AddDays returns the day n days after d (n may be negative).
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool { return d.t.After(o.t) }

// Equal reports whether d and o are the same calendar day.
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

// DaysSince returns the whole number of days from o to d.
func (d Date) DaysSince(o Date) int {
	return int(d.t.Sub(o.t).Hours() / 24)
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time { return d.t }

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ─── Habit Types ────────────────────────────────────────────────────────────

// Completion is one dated check-in for a habit.
// Completed=false records an explicit miss; the entry still counts as an attempt.
type Completion struct {
	Date      Date `json:"date"`
	Completed bool `json:"completed"`
}

// Habit is a tracked behavior with its streak and check-in history.
// Streak is maintained by the habit service and taken as ground truth by scoring.
type Habit struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Streak      int          `json:"streak"`
	Completions []Completion `json:"completions"`
	CreatedAt   time.Time    `json:"created_at"`
}

// CompletedCount returns the number of entries with Completed=true.
func (h Habit) CompletedCount() int {
	n := 0
	for _, c := range h.Completions {
		if c.Completed {
			n++
		}
	}
	return n
}

// LastCompleted returns the latest day the habit was satisfied.
// ok is false when the habit has never been completed.
func (h Habit) LastCompleted() (last Date, ok bool) {
	for _, c := range h.Completions {
		if !c.Completed {
			continue
		}
		if !ok || c.Date.After(last) {
			last, ok = c.Date, true
		}
	}
	return last, ok
}
