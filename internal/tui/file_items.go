package tui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"tagme-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type fileItem struct {
	file model.File
}

func (it fileItem) FilterValue() string { return it.file.Path }

func (it fileItem) title() string {
	name := filepath.Base(it.file.Path)
	if it.file.IsDirectory {
		return name + "/"
	}
	return name
}

func fileListItems(files []model.File) []list.Item {
	items := make([]list.Item, 0, len(files))
	for _, f := range files {
		items = append(items, fileItem{file: f})
	}
	return items
}

// compactFileDelegate renders one file per line: fixed height,
// truncate-and-pad to the pane width.
type compactFileDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	dirMark  lipgloss.Style
}

func newCompactFileDelegate() compactFileDelegate {
	return compactFileDelegate{
		normal:   lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg).Bold(true),
		dirMark:  faintIfDark(lipgloss.NewStyle().Foreground(colorMuted)),
	}
}

func (d compactFileDelegate) Height() int                             { return 1 }
func (d compactFileDelegate) Spacing() int                            { return 0 }
func (d compactFileDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d compactFileDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	it, ok := item.(fileItem)
	if !ok {
		fmt.Fprint(w, "")
		return
	}

	style := d.normal
	switch {
	case index == m.Index():
		style = d.selected
	case it.file.IsDirectory:
		style = d.dirMark
	}

	line := " " + it.title()
	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}
	fmt.Fprint(w, style.Render(line))
}
