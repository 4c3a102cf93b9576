// Package store persists tags, files and their associations in a single
// SQLite database under the workspace's .tagme directory.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const dbFileName = "tagme.sqlite"

var (
	ErrTagNotFound  = errors.New("tag not found")
	ErrFileNotFound = errors.New("file not found")
)

// Store locates and opens the workspace database. It is a value type; every
// operation opens, uses and closes its own connection, so concurrent CLI
// invocations coordinate through SQLite (WAL + busy_timeout) rather than
// in-process state.
type Store struct {
	Dir string
}

// DiscoverDir walks up from start looking for an existing .tagme directory.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, ".tagme")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultDir resolves the workspace dir: TAGME_DIR, then the nearest .tagme
// above the working directory, then ./.tagme.
func DefaultDir() (string, error) {
	if v := os.Getenv("TAGME_DIR"); v != "" {
		return v, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, ".tagme"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) dbPath() string {
	return filepath.Join(filepath.Clean(s.Dir), dbFileName)
}

func (s Store) open(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.dbPath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids "database is
	// locked" flakiness when the TUI and a CLI invocation overlap. Foreign
	// keys carry the delete cascade from tags to their subtrees.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			parent_id INTEGER REFERENCES tags(id) ON DELETE CASCADE,
			color TEXT,
			position INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tags_parent ON tags(parent_id, position);`,
		`CREATE TABLE IF NOT EXISTS files (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL UNIQUE,
			content_hash TEXT NOT NULL,
			size_bytes INTEGER NOT NULL,
			last_modified INTEGER NOT NULL,
			is_directory INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS file_tags (
			file_id INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
			tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
			created_at INTEGER NOT NULL,
			UNIQUE(file_id, tag_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_file_tags_tag ON file_tags(tag_id);`,
		`CREATE TABLE IF NOT EXISTS window_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			tree_width INTEGER NOT NULL,
			all_of INTEGER NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullableID maps an optional parent id onto a driver value; nil binds as
// SQL NULL, which pairs with "parent_id IS ?" in group queries.
func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
