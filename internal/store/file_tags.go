package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tagme-cli/internal/model"
)

// AddFileTag attaches a tag to a file by path, upserting the file record
// first so tagging never requires a prior scan.
func (s Store) AddFileTag(ctx context.Context, path string, tagID int64) (int64, error) {
	fileID, err := s.UpsertFile(ctx, path)
	if err != nil {
		return 0, err
	}
	db, err := s.open(ctx)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	if _, err := s.tagExists(ctx, db, tagID); err != nil {
		return 0, err
	}
	if _, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO file_tags (file_id, tag_id, created_at) VALUES (?, ?, ?)`,
		fileID, tagID, time.Now().Unix(),
	); err != nil {
		return 0, err
	}
	return fileID, nil
}

func (s Store) RemoveFileTag(ctx context.Context, fileID, tagID int64) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx,
		`DELETE FROM file_tags WHERE file_id = ? AND tag_id = ?`, fileID, tagID)
	return err
}

// FileTags returns the tags attached to one file, by name.
func (s Store) FileTags(ctx context.Context, fileID int64) ([]model.Tag, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return readTags(ctx, db,
		`SELECT t.id, t.name, t.parent_id, t.color, t.position, t.created_at
		 FROM tags t JOIN file_tags ft ON t.id = ft.tag_id
		 WHERE ft.file_id = ? ORDER BY t.name`, fileID)
}

// FileWithTags loads one file together with its attached tags.
func (s Store) FileWithTags(ctx context.Context, fileID int64) (model.FileWithTags, error) {
	db, err := s.open(ctx)
	if err != nil {
		return model.FileWithTags{}, err
	}
	defer db.Close()

	files, err := readFiles(ctx, db,
		`SELECT id, path, content_hash, size_bytes, last_modified, is_directory, created_at, updated_at
		 FROM files WHERE id = ?`, fileID)
	if err != nil {
		return model.FileWithTags{}, err
	}
	if len(files) == 0 {
		return model.FileWithTags{}, ErrFileNotFound
	}
	tags, err := readTags(ctx, db,
		`SELECT t.id, t.name, t.parent_id, t.color, t.position, t.created_at
		 FROM tags t JOIN file_tags ft ON t.id = ft.tag_id
		 WHERE ft.file_id = ? ORDER BY t.name`, fileID)
	if err != nil {
		return model.FileWithTags{}, err
	}
	return model.FileWithTags{File: files[0], Tags: tags}, nil
}

// FilesByTags filters files by the given tags. With allOf, a file must carry
// every listed tag (count of distinct matches equals the list length);
// otherwise any one tag suffices. An empty list means no filter.
func (s Store) FilesByTags(ctx context.Context, tagIDs []int64, allOf bool) ([]model.File, error) {
	if len(tagIDs) == 0 {
		return s.AllFiles(ctx)
	}
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tagIDs)), ",")
	args := make([]any, 0, len(tagIDs)+1)
	for _, id := range tagIDs {
		args = append(args, id)
	}

	var query string
	if allOf {
		query = fmt.Sprintf(
			`SELECT f.id, f.path, f.content_hash, f.size_bytes, f.last_modified, f.is_directory, f.created_at, f.updated_at
			 FROM files f
			 WHERE (SELECT COUNT(DISTINCT ft.tag_id) FROM file_tags ft
			        WHERE ft.file_id = f.id AND ft.tag_id IN (%s)) = ?
			 ORDER BY f.path`, placeholders)
		args = append(args, len(tagIDs))
	} else {
		query = fmt.Sprintf(
			`SELECT DISTINCT f.id, f.path, f.content_hash, f.size_bytes, f.last_modified, f.is_directory, f.created_at, f.updated_at
			 FROM files f JOIN file_tags ft ON ft.file_id = f.id
			 WHERE ft.tag_id IN (%s)
			 ORDER BY f.path`, placeholders)
	}
	return readFiles(ctx, db, query, args...)
}
