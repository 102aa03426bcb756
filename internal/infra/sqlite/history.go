package sqlite

import (
	"context"
	"fmt"

	"github.com/grindset/grindset/internal/domain"
)

// ─── Score History ──────────────────────────────────────────────────────────
// One row per calendar day; later snapshots of the same day replace earlier ones.

func historyMigrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS score_snapshots (
			day         TEXT PRIMARY KEY,
			score       INTEGER NOT NULL,
			level       TEXT NOT NULL,
			next_level  TEXT NOT NULL,
			progress    INTEGER NOT NULL,
			habit_count INTEGER NOT NULL DEFAULT 0,
			updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
	}
}

// SaveScoreSnapshot upserts the snapshot for s.Date.
func (db *DB) SaveScoreSnapshot(ctx context.Context, s domain.ScoreSnapshot) error {
	_, err := db.db.ExecContext(ctx, `
		INSERT INTO score_snapshots (day, score, level, next_level, progress, habit_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(day) DO UPDATE SET
			score       = excluded.score,
			level       = excluded.level,
			next_level  = excluded.next_level,
			progress    = excluded.progress,
			habit_count = excluded.habit_count,
			updated_at  = datetime('now')
	`, s.Date.String(), s.Score.Score, s.Score.Level, s.Score.NextLevel, s.Score.Progress, s.HabitCount)
	if err != nil {
		return fmt.Errorf("save score snapshot: %w", err)
	}
	return nil
}

// ListScoreSnapshots returns up to limit snapshots, newest first.
// limit <= 0 returns all of them.
func (db *DB) ListScoreSnapshots(ctx context.Context, limit int) ([]domain.ScoreSnapshot, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := db.db.QueryContext(ctx, `
		SELECT day, score, level, next_level, progress, habit_count
		FROM score_snapshots ORDER BY day DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list score snapshots: %w", err)
	}
	defer rows.Close()

	var out []domain.ScoreSnapshot
	for rows.Next() {
		var (
			s   domain.ScoreSnapshot
			day string
		)
		if err := rows.Scan(&day, &s.Score.Score, &s.Score.Level, &s.Score.NextLevel, &s.Score.Progress, &s.HabitCount); err != nil {
			return nil, err
		}
		d, err := domain.ParseDate(day)
		if err != nil {
			continue
		}
		s.Date = d
		out = append(out, s)
	}
	return out, rows.Err()
}

var _ domain.ScoreHistory = (*DB)(nil)
