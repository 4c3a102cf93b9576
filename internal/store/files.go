package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tagme-cli/internal/model"
)

// UpsertFile stats and content-hashes path and inserts or refreshes its
// record, returning the file id. Rehashing is skipped when size and mtime
// are unchanged.
func (s Store) UpsertFile(ctx context.Context, path string) (int64, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, err
	}
	st, err := os.Stat(abs)
	if err != nil {
		return 0, err
	}
	db, err := s.open(ctx)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return upsertFile(ctx, db, abs, st)
}

func upsertFile(ctx context.Context, db *sql.DB, abs string, st fs.FileInfo) (int64, error) {
	size := st.Size()
	mtime := st.ModTime().Unix()
	isDir := st.IsDir()
	now := time.Now().Unix()

	var id int64
	var oldSize, oldMtime int64
	err := db.QueryRowContext(ctx,
		`SELECT id, size_bytes, last_modified FROM files WHERE path = ?`, abs,
	).Scan(&id, &oldSize, &oldMtime)
	switch {
	case err == nil:
		if oldSize == size && oldMtime == mtime {
			return id, nil
		}
		hash, err := hashEntry(abs, st)
		if err != nil {
			return 0, err
		}
		if _, err := db.ExecContext(ctx,
			`UPDATE files SET content_hash = ?, size_bytes = ?, last_modified = ?, is_directory = ?, updated_at = ? WHERE id = ?`,
			hash, size, mtime, boolToInt(isDir), now, id,
		); err != nil {
			return 0, err
		}
		return id, nil
	case errors.Is(err, sql.ErrNoRows):
		hash, err := hashEntry(abs, st)
		if err != nil {
			return 0, err
		}
		res, err := db.ExecContext(ctx,
			`INSERT INTO files (path, content_hash, size_bytes, last_modified, is_directory, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			abs, hash, size, mtime, boolToInt(isDir), now, now,
		)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	default:
		return 0, err
	}
}

// ScanDir walks root and upserts every entry, skipping dotfiles and the
// workspace directory itself. Returns the number of entries recorded.
func (s Store) ScanDir(ctx context.Context, root string) (int, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return 0, err
	}
	db, err := s.open(ctx)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	count := 0
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if path != absRoot && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == absRoot {
			return nil
		}
		st, err := d.Info()
		if err != nil {
			return err
		}
		if _, err := upsertFile(ctx, db, path, st); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, err
	}
	return count, nil
}

// AllFiles returns every known file ordered by path.
func (s Store) AllFiles(ctx context.Context) ([]model.File, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return readFiles(ctx, db,
		`SELECT id, path, content_hash, size_bytes, last_modified, is_directory, created_at, updated_at
		 FROM files ORDER BY path`)
}

func hashEntry(abs string, st fs.FileInfo) (string, error) {
	if st.IsDir() {
		// Directories have no content; hash identity + mtime + entry count so
		// the record still changes when the directory does.
		entries := 0
		if xs, err := os.ReadDir(abs); err == nil {
			entries = len(xs)
		}
		h := sha256.New()
		fmt.Fprintf(h, "%s\n%d\n%d\n", abs, st.ModTime().Unix(), entries)
		return "dir:" + hex.EncodeToString(h.Sum(nil)), nil
	}
	f, err := os.Open(abs)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func readFiles(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.File, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.File{}
	for rows.Next() {
		var f model.File
		var isDir int
		var created, updated int64
		if err := rows.Scan(&f.ID, &f.Path, &f.ContentHash, &f.SizeBytes, &f.LastModified, &isDir, &created, &updated); err != nil {
			return nil, err
		}
		f.IsDirectory = isDir != 0
		f.CreatedAt = time.Unix(created, 0).UTC()
		f.UpdatedAt = time.Unix(updated, 0).UTC()
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
