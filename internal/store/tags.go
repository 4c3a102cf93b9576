package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"tagme-cli/internal/dragdrop"
	"tagme-cli/internal/model"
)

// CreateTag appends a tag at the end of its sibling group.
func (s Store) CreateTag(ctx context.Context, name string, parentID *int64, color *string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("empty tag name")
	}
	db, err := s.open(ctx)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	if parentID != nil {
		if _, err := s.tagExists(ctx, db, *parentID); err != nil {
			return 0, err
		}
	}

	var maxPos int
	if err := db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) FROM tags WHERE parent_id IS ?`,
		nullableID(parentID),
	).Scan(&maxPos); err != nil {
		return 0, err
	}

	res, err := db.ExecContext(ctx,
		`INSERT INTO tags (name, parent_id, color, position, created_at) VALUES (?, ?, ?, ?, ?)`,
		name, nullableID(parentID), nullableString(color), maxPos+1, time.Now().Unix(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetAllTags returns every tag ordered by (parent_id, position): the order
// the tree renders and the snapshot the drag engine resolves against.
func (s Store) GetAllTags(ctx context.Context) ([]model.Tag, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return readTags(ctx, db,
		`SELECT id, name, parent_id, color, position, created_at FROM tags ORDER BY parent_id, position`)
}

func (s Store) RenameTag(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("empty tag name")
	}
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	return execOnTag(ctx, db, `UPDATE tags SET name = ? WHERE id = ?`, name, id)
}

func (s Store) SetTagColor(ctx context.Context, id int64, color *string) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	return execOnTag(ctx, db, `UPDATE tags SET color = ? WHERE id = ?`, nullableString(color), id)
}

// DeleteTag removes a tag; the schema cascades to its whole subtree and any
// file associations. The surviving sibling group is reindexed so positions
// stay dense.
func (s Store) DeleteTag(ctx context.Context, id int64) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var parent sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT parent_id FROM tags WHERE id = ?`, id).Scan(&parent); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTagNotFound
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id); err != nil {
		return err
	}
	if err := reindexGroup(ctx, tx, nullValue(parent)); err != nil {
		return err
	}
	return tx.Commit()
}

// MoveTag reparents and/or reorders a tag, restoring dense per-parent
// ordering in the same transaction. Callers pass values already validated by
// the drop classifier and cycle guard.
//
// Same-parent moves shift only the intervening siblings by one slot.
// Cross-parent moves (including the drop-at-root fallback for a vanished
// target) open a slot in the destination first, so no two siblings ever
// share a position, then reindex both groups; the destination reindex also
// compacts a target position past the end of the group.
func (s Store) MoveTag(ctx context.Context, id int64, newParentID *int64, targetPosition int) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var oldParent sql.NullInt64
	var curPos int
	err = tx.QueryRowContext(ctx,
		`SELECT parent_id, position FROM tags WHERE id = ?`, id,
	).Scan(&oldParent, &curPos)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTagNotFound
		}
		return err
	}

	sameGroup := parentEq(oldParent, newParentID)
	if sameGroup {
		// An after-drop on the last sibling targets one past the end of the
		// group. A same-parent move never changes the slot count, so the
		// highest valid position is count-1; without the clamp the forward
		// shift would leave a gap there.
		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM tags WHERE parent_id IS ?`,
			nullableID(newParentID),
		).Scan(&count); err != nil {
			return err
		}
		if targetPosition > count-1 {
			targetPosition = count - 1
		}
		if targetPosition < 0 {
			targetPosition = 0
		}
		switch {
		case curPos < targetPosition:
			// Moving forward: close the gap behind, open one at the target.
			if _, err := tx.ExecContext(ctx,
				`UPDATE tags SET position = position - 1
				 WHERE parent_id IS ? AND position > ? AND position <= ? AND id != ?`,
				nullableID(newParentID), curPos, targetPosition, id,
			); err != nil {
				return err
			}
		case curPos > targetPosition:
			if _, err := tx.ExecContext(ctx,
				`UPDATE tags SET position = position + 1
				 WHERE parent_id IS ? AND position >= ? AND position < ? AND id != ?`,
				nullableID(newParentID), targetPosition, curPos, id,
			); err != nil {
				return err
			}
		}
	} else {
		if _, err := tx.ExecContext(ctx,
			`UPDATE tags SET position = position + 1
			 WHERE parent_id IS ? AND position >= ?`,
			nullableID(newParentID), targetPosition,
		); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE tags SET parent_id = ?, position = ? WHERE id = ?`,
		nullableID(newParentID), targetPosition, id,
	); err != nil {
		return err
	}

	if !sameGroup {
		if err := reindexGroup(ctx, tx, nullValue(oldParent)); err != nil {
			return err
		}
		if err := reindexGroup(ctx, tx, nullableID(newParentID)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// reindexGroup reassigns 0..n-1 to a sibling group in its current position
// order. Callers keep positions unique before invoking it, so the order is
// deterministic.
func reindexGroup(ctx context.Context, tx *sql.Tx, parent any) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM tags WHERE parent_id IS ? ORDER BY position`, parent)
	if err != nil {
		return err
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	_ = rows.Close()

	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, `UPDATE tags SET position = ? WHERE id = ?`, i, id); err != nil {
			return err
		}
	}
	return nil
}

// Nodes projects tags onto the drag engine's snapshot shape.
func Nodes(tags []model.Tag) []dragdrop.Node {
	out := make([]dragdrop.Node, 0, len(tags))
	for _, t := range tags {
		out = append(out, dragdrop.Node{ID: t.ID, ParentID: t.ParentID, Position: t.Position})
	}
	return out
}

func (s Store) tagExists(ctx context.Context, db *sql.DB, id int64) (int64, error) {
	var got int64
	if err := db.QueryRowContext(ctx, `SELECT id FROM tags WHERE id = ?`, id).Scan(&got); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrTagNotFound
		}
		return 0, err
	}
	return got, nil
}

func execOnTag(ctx context.Context, db *sql.DB, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTagNotFound
	}
	return nil
}

func readTags(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.Tag, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		var parent sql.NullInt64
		var color sql.NullString
		var created int64
		if err := rows.Scan(&t.ID, &t.Name, &parent, &color, &t.Position, &created); err != nil {
			return nil, err
		}
		if parent.Valid {
			v := parent.Int64
			t.ParentID = &v
		}
		if color.Valid {
			v := color.String
			t.Color = &v
		}
		t.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parentEq(old sql.NullInt64, next *int64) bool {
	if !old.Valid || next == nil {
		return !old.Valid && next == nil
	}
	return old.Int64 == *next
}

func nullValue(v sql.NullInt64) any {
	if !v.Valid {
		return nil
	}
	return v.Int64
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
