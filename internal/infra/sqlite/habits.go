package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/grindset/grindset/internal/domain"
)

// ─── Habit Schema ───────────────────────────────────────────────────────────

func habitMigrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS habits (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL UNIQUE COLLATE NOCASE,
			streak     INTEGER NOT NULL DEFAULT 0 CHECK (streak >= 0),
			created_at TEXT NOT NULL
		)`,

		// Check-ins are append-only; rowid keeps insertion order.
		`CREATE TABLE IF NOT EXISTS completions (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			habit_id  TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
			day       TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_completions_habit ON completions(habit_id, id)`,
	}
}

// ─── Habit Operations ───────────────────────────────────────────────────────

// InsertHabit stores a new habit. A case-insensitive duplicate name returns
// domain.ErrHabitExists.
func (db *DB) InsertHabit(ctx context.Context, h domain.Habit) error {
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO habits (id, name, streak, created_at)
		VALUES (?, ?, ?, ?)
	`, h.ID, h.Name, h.Streak, h.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %q", domain.ErrHabitExists, h.Name)
		}
		return fmt.Errorf("insert habit: %w", err)
	}
	return nil
}

// GetHabit returns a habit with its check-ins.
func (db *DB) GetHabit(ctx context.Context, id string) (*domain.Habit, error) {
	return db.getHabitWhere(ctx, "id = ?", id)
}

// FindHabitByName looks a habit up by case-insensitive name.
func (db *DB) FindHabitByName(ctx context.Context, name string) (*domain.Habit, error) {
	return db.getHabitWhere(ctx, "name = ?", name)
}

func (db *DB) getHabitWhere(ctx context.Context, where string, arg any) (*domain.Habit, error) {
	var (
		h       domain.Habit
		created string
	)
	err := db.db.QueryRowContext(ctx,
		`SELECT id, name, streak, created_at FROM habits WHERE `+where, arg,
	).Scan(&h.ID, &h.Name, &h.Streak, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrHabitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get habit: %w", err)
	}
	h.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)

	byHabit, err := db.completionsFor(ctx, "WHERE habit_id = ?", h.ID)
	if err != nil {
		return nil, err
	}
	h.Completions = byHabit[h.ID]
	return &h, nil
}

// ListHabits returns every habit in creation order with its check-ins.
func (db *DB) ListHabits(ctx context.Context) ([]domain.Habit, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, name, streak, created_at FROM habits ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []domain.Habit
	for rows.Next() {
		var (
			h       domain.Habit
			created string
		)
		if err := rows.Scan(&h.ID, &h.Name, &h.Streak, &created); err != nil {
			return nil, err
		}
		h.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	byHabit, err := db.completionsFor(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range habits {
		habits[i].Completions = byHabit[habits[i].ID]
	}
	return habits, nil
}

// completionsFor loads check-ins grouped by habit, in insertion order.
// Rows with an unparsable day are skipped.
func (db *DB) completionsFor(ctx context.Context, where string, args ...any) (map[string][]domain.Completion, error) {
	rows, err := db.db.QueryContext(ctx,
		`SELECT habit_id, day, completed FROM completions `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.Completion)
	for rows.Next() {
		var (
			habitID, day string
			completed    int
		)
		if err := rows.Scan(&habitID, &day, &completed); err != nil {
			return nil, err
		}
		d, err := domain.ParseDate(day)
		if err != nil {
			continue
		}
		out[habitID] = append(out[habitID], domain.Completion{Date: d, Completed: completed == 1})
	}
	return out, rows.Err()
}

// DeleteHabit removes a habit and, by cascade, its check-ins.
func (db *DB) DeleteHabit(ctx context.Context, id string) error {
	res, err := db.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	return requireRow(res)
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// AppendCompletion records one check-in for a habit without touching its streak.
func (db *DB) AppendCompletion(ctx context.Context, habitID string, c domain.Completion) error {
	return appendCompletion(ctx, db.db, habitID, c)
}

// RecordCompletion appends a check-in and sets the streak in one transaction.
// Either both land or neither does.
func (db *DB) RecordCompletion(ctx context.Context, habitID string, c domain.Completion, streak int) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record completion: %w", err)
	}
	defer tx.Rollback()

	if err := appendCompletion(ctx, tx, habitID, c); err != nil {
		return err
	}
	if err := updateStreak(ctx, tx, habitID, streak); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record completion: %w", err)
	}
	return nil
}

// UpdateStreak overwrites a habit's streak counter.
func (db *DB) UpdateStreak(ctx context.Context, habitID string, streak int) error {
	return updateStreak(ctx, db.db, habitID, streak)
}

func appendCompletion(ctx context.Context, ex execer, habitID string, c domain.Completion) error {
	completed := 0
	if c.Completed {
		completed = 1
	}
	_, err := ex.ExecContext(ctx, `
		INSERT INTO completions (habit_id, day, completed) VALUES (?, ?, ?)
	`, habitID, c.Date.String(), completed)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return domain.ErrHabitNotFound
		}
		return fmt.Errorf("append completion: %w", err)
	}
	return nil
}

func updateStreak(ctx context.Context, ex execer, habitID string, streak int) error {
	res, err := ex.ExecContext(ctx, `UPDATE habits SET streak = ? WHERE id = ?`, streak, habitID)
	if err != nil {
		return fmt.Errorf("update streak: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrHabitNotFound
	}
	return nil
}

var _ domain.HabitStore = (*DB)(nil)
