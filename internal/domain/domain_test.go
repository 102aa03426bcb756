package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// ─── Date Tests ─────────────────────────────────────────────────────────────

func TestDateOf_TruncatesInOwnLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 2026-03-01 02:00 in Tokyo is still Feb 28 in UTC.
	ts := time.Date(2026, time.March, 1, 2, 0, 0, 0, tokyo)

	if got := DateOf(ts).String(); got != "2026-03-01" {
		t.Errorf("DateOf(tokyo) = %q, want %q", got, "2026-03-01")
	}
	if got := DateOf(ts.UTC()).String(); got != "2026-02-28" {
		t.Errorf("DateOf(utc) = %q, want %q", got, "2026-02-28")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"2026-10-19", "2026-10-19", false},
		{"2024-02-29", "2024-02-29", false},
		{"2026-13-01", "", true},
		{"19/10/2026", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDate) {
					t.Errorf("ParseDate(%q) error = %v, want ErrInvalidDate", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) error: %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDate_Arithmetic(t *testing.T) {
	d := NewDate(2026, time.March, 1)

	if got := d.AddDays(-1).String(); got != "2026-02-28" {
		t.Errorf("AddDays(-1) = %q, want 2026-02-28", got)
	}
	if got := d.AddDays(30).DaysSince(d); got != 30 {
		t.Errorf("DaysSince = %d, want 30", got)
	}
	if !d.Before(d.AddDays(1)) || d.After(d.AddDays(1)) {
		t.Error("ordering is wrong across a day boundary")
	}
	if !d.Equal(NewDate(2026, time.February, 29)) {
		t.Error("Feb 29 2026 should normalize to Mar 1")
	}
}

func TestDate_JSON(t *testing.T) {
	c := Completion{Date: NewDate(2026, time.October, 19), Completed: true}
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `{"date":"2026-10-19","completed":true}` {
		t.Errorf("Marshal = %s", b)
	}

	var back Completion
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Date.Equal(c.Date) || !back.Completed {
		t.Errorf("Unmarshal = %+v, want %+v", back, c)
	}

	if err := json.Unmarshal([]byte(`{"date":"yesterday"}`), &back); err == nil {
		t.Error("expected error for non-date string")
	}
}

// ─── Habit Tests ────────────────────────────────────────────────────────────

func TestHabit_CompletedCount(t *testing.T) {
	day := NewDate(2026, time.October, 19)
	h := Habit{Completions: []Completion{
		{Date: day, Completed: true},
		{Date: day.AddDays(-1), Completed: false},
		{Date: day.AddDays(-2), Completed: true},
	}}
	if got := h.CompletedCount(); got != 2 {
		t.Errorf("CompletedCount() = %d, want 2", got)
	}
}

func TestHabit_LastCompleted(t *testing.T) {
	day := NewDate(2026, time.October, 19)

	var empty Habit
	if _, ok := empty.LastCompleted(); ok {
		t.Error("empty habit should have no last completion")
	}

	h := Habit{Completions: []Completion{
		{Date: day.AddDays(-3), Completed: true},
		{Date: day, Completed: false},
		{Date: day.AddDays(-1), Completed: true},
	}}
	last, ok := h.LastCompleted()
	if !ok {
		t.Fatal("expected a last completion")
	}
	if !last.Equal(day.AddDays(-1)) {
		t.Errorf("LastCompleted() = %s, want %s", last, day.AddDays(-1))
	}
}

// ─── Level Table Tests ──────────────────────────────────────────────────────

func TestLevels_Ascending(t *testing.T) {
	if len(Levels) != 6 {
		t.Fatalf("expected 6 levels, got %d", len(Levels))
	}
	if Levels[0].MinScore != 0 {
		t.Errorf("first level MinScore = %d, want 0", Levels[0].MinScore)
	}
	for i := 1; i < len(Levels); i++ {
		if Levels[i].MinScore <= Levels[i-1].MinScore {
			t.Errorf("Levels[%d] (%s) not above Levels[%d]", i, Levels[i].Name, i-1)
		}
	}
	if Levels[len(Levels)-1].Name != "Grandmaster" {
		t.Errorf("top level = %q, want Grandmaster", Levels[len(Levels)-1].Name)
	}
}

func TestWeeklyReview_NullPointers(t *testing.T) {
	b, err := json.Marshal(WeeklyReview{Summary: "x"})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"completionRate":0,"streakGrowth":0,"topHabit":null,"improvementArea":null,"summary":"x"}`
	if string(b) != want {
		t.Errorf("Marshal = %s, want %s", b, want)
	}
}
