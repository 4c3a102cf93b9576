package tui

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
)

const previewByteLimit = 64 * 1024

var (
	mdRenderer      *glamour.TermRenderer
	mdRendererWidth int
)

// renderMarkdown renders a markdown preview at the given wrap width. The
// renderer is cached and rebuilt only when the width changes.
func renderMarkdown(content string, width int) string {
	if width < 10 {
		width = 10
	}
	if mdRenderer == nil || mdRendererWidth != width {
		opts := []glamour.TermRendererOption{
			glamour.WithWordWrap(width),
		}
		if theme := os.Getenv("TAGME_TUI_THEME"); theme != "" {
			opts = append(opts, glamour.WithStylePath(theme))
		} else {
			opts = append(opts, glamour.WithAutoStyle())
		}
		r, err := glamour.NewTermRenderer(opts...)
		if err != nil {
			return content
		}
		mdRenderer = r
		mdRendererWidth = width
	}
	out, err := mdRenderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

// loadPreview reads a markdown file for the preview pane, truncating large
// files so the TUI never stalls on huge documents.
func loadPreview(path string) (string, bool) {
	if !strings.HasSuffix(strings.ToLower(path), ".md") {
		return "", false
	}
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, previewByteLimit))
	if err != nil || len(content) == 0 {
		return "", false
	}
	return string(content), true
}
