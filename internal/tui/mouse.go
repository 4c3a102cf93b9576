package tui

import (
	"tagme-cli/internal/dragdrop"
	"tagme-cli/internal/selection"

	tea "github.com/charmbracelet/bubbletea"
)

// Rows in the tag pane are one cell tall, so the pointer's vertical position
// inside a row carries no information. The horizontal thirds of the row stand
// in for it: left maps to the before zone, the middle to the child zone, the
// right to the after zone.
const (
	ratioBefore = 0.1
	ratioChild  = 0.5
	ratioAfter  = 0.9
)

func (m appModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	overTree := msg.X < m.treeWidth

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if overTree {
			if m.treeScroll > 0 {
				m.treeScroll--
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.filesList, cmd = m.filesList.Update(msg)
		m.updatePreview()
		return m, cmd
	case tea.MouseButtonWheelDown:
		if overTree {
			if m.treeScroll < len(m.rows)-1 {
				m.treeScroll++
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.filesList, cmd = m.filesList.Update(msg)
		m.updatePreview()
		return m, cmd
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if !overTree {
			m.focusFiles = true
			var cmd tea.Cmd
			m.filesList, cmd = m.filesList.Update(msg)
			m.updatePreview()
			return m, cmd
		}
		m.focusFiles = false
		if row, ok := m.rowAt(msg.Y); ok {
			m.cursor = row
			m.pressArmed = true
			m.pressedID = m.rows[row].tag.ID
		}
		return m, nil

	case tea.MouseActionMotion:
		if !m.pressArmed && !m.session.Dragging() {
			return m, nil
		}
		if m.pressArmed && !m.session.Dragging() {
			m.session.Begin(m.pressedID)
		}
		if row, ok := m.rowAt(msg.Y); ok && overTree {
			if node, found := m.nodeByID(m.rows[row].tag.ID); found {
				m.session.Hover(m.nodes, node, m.ratioAt(msg.X))
			}
		}
		return m, nil

	case tea.MouseActionRelease:
		armed := m.pressArmed
		m.pressArmed = false

		if m.session.Dragging() {
			act, ok := m.session.Release(m.nodes)
			if !ok {
				return m, nil
			}
			return m.commit(m.pressedID, act)
		}

		// Plain click. The debounce window keeps the release that ended a
		// drag from doubling as a selection toggle.
		if !armed || m.session.JustEnded() {
			return m, nil
		}
		row, ok := m.rowAt(msg.Y)
		if !ok || m.rows[row].tag.ID != m.pressedID {
			return m, nil
		}
		next, loosen := selection.Toggle(m.selected, m.pressedID, m.nodes)
		m.selected = next
		if loosen {
			m.allOf = false
		}
		return m, loadFiles(m.store, m.selected, m.allOf)
	}

	return m, nil
}

// rowAt maps a screen y to a tree row index, accounting for the header line
// and the scroll offset.
func (m appModel) rowAt(y int) (int, bool) {
	if y < 1 || y > m.bodyHeight() {
		return 0, false
	}
	row := y - 1 + m.treeScroll
	if row < 0 || row >= len(m.rows) {
		return 0, false
	}
	return row, true
}

// ratioAt converts the pointer's x inside the tag pane to a raw hover ratio.
func (m appModel) ratioAt(x int) float64 {
	third := m.treeWidth / 3
	if third < 1 {
		third = 1
	}
	switch {
	case x < third:
		return ratioBefore
	case x < 2*third:
		return ratioChild
	default:
		return ratioAfter
	}
}

func (m appModel) nodeByID(id int64) (dragdrop.Node, bool) {
	for _, n := range m.nodes {
		if n.ID == id {
			return n, true
		}
	}
	return dragdrop.Node{}, false
}
