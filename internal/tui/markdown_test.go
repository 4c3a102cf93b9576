package tui

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPreview_OnlyMarkdown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("plain"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := loadPreview(path); ok {
		t.Fatal("non-markdown files must not be previewed")
	}
}

func TestLoadPreview_ReadsWholeFile(t *testing.T) {
	dir := t.TempDir()
	body := "# title\n\n" + strings.Repeat("lorem ipsum dolor sit amet\n", 500)
	path := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, ok := loadPreview(path)
	if !ok {
		t.Fatal("expected a preview")
	}
	if got != body {
		t.Fatalf("preview truncated: got %d bytes, want %d", len(got), len(body))
	}
}

func TestLoadPreview_CapsLargeFiles(t *testing.T) {
	dir := t.TempDir()
	body := bytes.Repeat([]byte("x"), previewByteLimit*2)
	path := filepath.Join(dir, "big.md")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, ok := loadPreview(path)
	if !ok {
		t.Fatal("expected a preview")
	}
	if len(got) != previewByteLimit {
		t.Fatalf("expected the preview capped at %d bytes; got %d", previewByteLimit, len(got))
	}
}
