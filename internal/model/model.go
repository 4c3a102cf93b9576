package model

import "time"

// Tag is one node of the label hierarchy. ParentID is nil for root-level
// tags. Position is the zero-based rank among siblings (same parent); sibling
// groups are kept dense (0..count-1) by the store's move/delete paths.
type Tag struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	ParentID *int64  `json:"parentId,omitempty"`
	Color    *string `json:"color,omitempty"`
	Position int     `json:"position"`

	CreatedAt time.Time `json:"createdAt"`
}

// File is a scanned filesystem entry known to the database.
type File struct {
	ID           int64  `json:"id"`
	Path         string `json:"path"`
	ContentHash  string `json:"contentHash"`
	SizeBytes    int64  `json:"sizeBytes"`
	LastModified int64  `json:"lastModified"`
	IsDirectory  bool   `json:"isDirectory"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FileWithTags pairs a file with the tags attached to it.
type FileWithTags struct {
	File File  `json:"file"`
	Tags []Tag `json:"tags"`
}

// WindowState is the persisted TUI session state (pane split and filter
// mode). It is best-effort: a missing or stale row falls back to defaults.
type WindowState struct {
	TreeWidth int  `json:"treeWidth"`
	AllOf     bool `json:"allOf"`
}
