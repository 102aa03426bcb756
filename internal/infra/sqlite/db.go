// Package sqlite persists habits, check-ins and score history in a local
// SQLite database using the pure-Go modernc.org/sqlite driver (no CGO).
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// FileName is the database file created inside the storage directory.
const FileName = "grindset.db"

// DB wraps the SQL handle. All methods are safe for concurrent use.
type DB struct {
	db   *sql.DB
	path string
}

// Open creates dir if needed, opens the database in it and applies migrations.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	dsn := "file:" + path +
		"?_pragma=foreign_keys(1)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=busy_timeout(5000)"

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// SQLite serializes writers; a single connection avoids SQLITE_BUSY storms.
	sqlDB.SetMaxOpenConns(1)

	db := &DB{db: sqlDB, path: path}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string { return db.path }

// Close releases the database handle.
func (db *DB) Close() error { return db.db.Close() }

// migrate applies every schema statement. All statements are idempotent.
func (db *DB) migrate() error {
	var stmts []string
	stmts = append(stmts, habitMigrations()...)
	stmts = append(stmts, historyMigrations()...)

	for _, stmt := range stmts {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
