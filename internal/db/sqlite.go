// Package db provides SQLite persistence for the task forest.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/MarisaKirisame/mdo/internal/task"
)

// DB wraps the SQLite database connection.
type DB struct {
	*sql.DB
	path string
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Busy timeout covers concurrent access from the TUI and the daemon
	dsn := path + "?_busy_timeout=5000"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL mode for better concurrent access
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	wrapped := &DB{DB: sqlDB, path: path}

	if err := wrapped.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	// Repair stores that were edited by hand or written by older builds:
	// orphaned parents become top-level, sibling positions become dense.
	if err := wrapped.normalize(); err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	return wrapped, nil
}

// Path returns the on-disk location of the database file.
func (db *DB) Path() string {
	return db.path
}

// migrate runs database migrations.
func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			parent_id TEXT,
			position INTEGER NOT NULL DEFAULT 0,
			created_at REAL NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	// Run ALTER TABLE migrations separately (they may fail if column already exists)
	alterMigrations := []string{
		`ALTER TABLE tasks ADD COLUMN due TEXT`,
		`ALTER TABLE tasks ADD COLUMN every INTEGER NOT NULL DEFAULT 0`,
	}

	for _, m := range alterMigrations {
		// Ignore "duplicate column" errors for idempotent migrations
		db.Exec(m)
	}

	return nil
}

// normalize persists a repaired layout for every stored row.
func (db *DB) normalize() error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	rows, err := listRows(tx)
	if err != nil {
		return err
	}
	task.Normalize(rows)
	if err := saveLayout(tx, rows); err != nil {
		return err
	}
	return tx.Commit()
}

// DefaultPath returns the default database path.
func DefaultPath() string {
	// Check for explicit path
	if p := os.Getenv("MDO_DB_PATH"); p != "" {
		return p
	}

	// Default to ~/.local/share/mdo/mdo.db
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "mdo", "mdo.db")
}
