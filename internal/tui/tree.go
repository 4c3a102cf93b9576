package tui

import (
	"strings"

	"tagme-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// treeRow is one visible line of the tag pane.
type treeRow struct {
	tag   model.Tag
	depth int
}

// flattenTree orders the forest depth-first by (parent, position) into the
// rows the pane renders. Input comes from GetAllTags and is already sorted
// within each group.
func flattenTree(tags []model.Tag) []treeRow {
	childrenOf := func(parent *int64) []model.Tag {
		out := []model.Tag{}
		for _, t := range tags {
			switch {
			case parent == nil && t.ParentID == nil:
				out = append(out, t)
			case parent != nil && t.ParentID != nil && *t.ParentID == *parent:
				out = append(out, t)
			}
		}
		return out
	}

	rows := []treeRow{}
	var walk func(parent *int64, depth int)
	walk = func(parent *int64, depth int) {
		for _, t := range childrenOf(parent) {
			rows = append(rows, treeRow{tag: t, depth: depth})
			id := t.ID
			walk(&id, depth+1)
		}
	}
	walk(nil, 0)
	return rows
}

// dropMark is the indicator drawn on the row holding the pending drop
// target.
type dropMark int

const (
	dropMarkNone dropMark = iota
	dropMarkBefore
	dropMarkAfter
	dropMarkChild
)

func markFor(ratio float64) dropMark {
	switch {
	case ratio < 0.25:
		return dropMarkBefore
	case ratio > 0.75:
		return dropMarkAfter
	default:
		return dropMarkChild
	}
}

func (m appModel) renderTree(width, height int) string {
	var b strings.Builder

	pendingID := int64(0)
	pendingMark := dropMarkNone
	if id, ratio, ok := m.session.PendingTarget(); ok {
		pendingID = id
		pendingMark = markFor(ratio)
	}
	draggedID, dragging := m.session.DraggedID()

	lines := 0
	for i := m.treeScroll; i < len(m.rows) && lines < height; i++ {
		row := m.rows[i]
		line := m.renderTreeRow(row, width, i == m.cursor,
			dragging && row.tag.ID == draggedID,
			row.tag.ID == pendingID, pendingMark)
		b.WriteString(line)
		b.WriteByte('\n')
		lines++
	}
	for ; lines < height; lines++ {
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m appModel) renderTreeRow(row treeRow, width int, atCursor, isDragged, isTarget bool, mark dropMark) string {
	gutter := "  "
	if isTarget {
		switch mark {
		case dropMarkBefore:
			gutter = "▲ "
		case dropMarkAfter:
			gutter = "▼ "
		case dropMarkChild:
			gutter = "▶ "
		}
	}

	check := "[ ]"
	if m.isSelected(row.tag.ID) {
		check = "[x]"
	}

	line := gutter + strings.Repeat("  ", row.depth) + check + " " + swatch(row.tag.Color) + row.tag.Name

	lineW := xansi.StringWidth(line)
	if lineW > width {
		line = xansi.Cut(line, 0, width)
	} else if lineW < width {
		line += strings.Repeat(" ", width-lineW)
	}

	style := treeRowStyle
	switch {
	case isTarget && mark == dropMarkChild:
		style = dropTargetStyle
	case atCursor:
		style = cursorRowStyle
	case isDragged:
		style = draggedRowStyle
	}
	return style.Render(line)
}

func swatch(color *string) string {
	if color == nil || strings.TrimSpace(*color) == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(strings.TrimSpace(*color))).Render("●") + " "
}

func (m appModel) isSelected(id int64) bool {
	for _, s := range m.selected {
		if s == id {
			return true
		}
	}
	return false
}
