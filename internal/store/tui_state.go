package store

import (
	"context"
	"database/sql"
	"errors"

	"tagme-cli/internal/model"
)

// LoadWindowState returns the persisted TUI session state, or defaults when
// none has been saved yet.
func (s Store) LoadWindowState(ctx context.Context) (model.WindowState, error) {
	ws := model.WindowState{TreeWidth: 32, AllOf: true}
	db, err := s.open(ctx)
	if err != nil {
		return ws, err
	}
	defer db.Close()

	var allOf int
	err = db.QueryRowContext(ctx,
		`SELECT tree_width, all_of FROM window_state WHERE id = 1`,
	).Scan(&ws.TreeWidth, &allOf)
	if errors.Is(err, sql.ErrNoRows) {
		return ws, nil
	}
	if err != nil {
		return ws, err
	}
	ws.AllOf = allOf != 0
	return ws, nil
}

// SaveWindowState is best-effort persistence; callers may ignore the error.
func (s Store) SaveWindowState(ctx context.Context, ws model.WindowState) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx,
		`INSERT OR REPLACE INTO window_state (id, tree_width, all_of) VALUES (1, ?, ?)`,
		ws.TreeWidth, boolToInt(ws.AllOf))
	return err
}
