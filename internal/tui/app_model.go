package tui

import (
	"context"
	"fmt"
	"strings"

	"tagme-cli/internal/dragdrop"
	"tagme-cli/internal/model"
	"tagme-cli/internal/selection"
	"tagme-cli/internal/store"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const minTreeWidth = 20

type appModel struct {
	store store.Store

	tags  []model.Tag
	nodes []dragdrop.Node
	rows  []treeRow

	cursor     int
	treeScroll int

	selected []int64
	allOf    bool

	session        *dragdrop.Session
	commitInFlight bool

	// pressArmed bridges pointer-press to drag: the drag starts on the first
	// motion after a press, so a plain click never enters the drag machine.
	pressArmed bool
	pressedID  int64

	filesList  list.Model
	focusFiles bool
	preview    string

	width     int
	height    int
	treeWidth int

	errMsg string
}

func newAppModel(s store.Store) appModel {
	ws, err := s.LoadWindowState(context.Background())
	if err != nil {
		ws = model.WindowState{TreeWidth: 32, AllOf: true}
	}

	fl := list.New(nil, newCompactFileDelegate(), 0, 0)
	fl.Title = "Files"
	fl.SetShowStatusBar(false)
	fl.SetShowHelp(false)
	fl.SetFilteringEnabled(false)
	fl.Styles.Title = headerStyle
	fl.Styles.TitleBar = lipgloss.NewStyle()

	return appModel{
		store:     s,
		allOf:     ws.AllOf,
		treeWidth: ws.TreeWidth,
		session:   dragdrop.NewSession(),
		filesList: fl,
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(loadTags(m.store), loadFiles(m.store, m.selected, m.allOf))
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tagsLoadedMsg:
		m.commitInFlight = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.tags = msg.tags
		m.nodes = store.Nodes(msg.tags)
		m.rows = flattenTree(msg.tags)
		m.clampCursor()
		m.pruneSelection()
		return m, loadFiles(m.store, m.selected, m.allOf)

	case filesLoadedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		cmd := m.filesList.SetItems(fileListItems(msg.files))
		m.updatePreview()
		m.layout()
		return m, cmd

	case moveDoneMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		}
		// Refresh regardless: a failed move must resync the view with the
		// store before the next commit is accepted.
		return m, loadTags(m.store)
	}

	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Sequence(
			saveWindowState(m.store, model.WindowState{TreeWidth: m.treeWidth, AllOf: m.allOf}),
			tea.Quit,
		)
	case "tab":
		m.focusFiles = !m.focusFiles
		return m, nil
	case "esc":
		m.session.Cancel()
		return m, nil
	case "a":
		m.allOf = !m.allOf
		return m, loadFiles(m.store, m.selected, m.allOf)
	case "r":
		return m, loadTags(m.store)
	case "<":
		if m.treeWidth > minTreeWidth {
			m.treeWidth--
			m.layout()
		}
		return m, nil
	case ">":
		if m.treeWidth < m.width/2 {
			m.treeWidth++
			m.layout()
		}
		return m, nil
	}

	if m.focusFiles {
		var cmd tea.Cmd
		m.filesList, cmd = m.filesList.Update(msg)
		m.updatePreview()
		m.layout()
		return m, cmd
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.ensureVisible()
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.ensureVisible()
		}
	case " ":
		return m.toggleAtCursor()
	case "K":
		return m.moveBySibling(-1)
	case "J":
		return m.moveBySibling(+1)
	case "H":
		return m.moveOutdent()
	case "L":
		return m.moveIndent()
	}
	return m, nil
}

// toggleAtCursor toggles selection of the cursor row's whole subtree.
// Selecting more than one tag at once loosens the match mode to any-of, so a
// freshly selected branch is never filtered down to nothing.
func (m appModel) toggleAtCursor() (tea.Model, tea.Cmd) {
	if m.cursor >= len(m.rows) {
		return m, nil
	}
	next, loosen := selection.Toggle(m.selected, m.rows[m.cursor].tag.ID, m.nodes)
	m.selected = next
	if loosen {
		m.allOf = false
	}
	return m, loadFiles(m.store, m.selected, m.allOf)
}

// moveBySibling reorders the cursor tag one step within its sibling group.
func (m appModel) moveBySibling(dir int) (tea.Model, tea.Cmd) {
	if m.cursor >= len(m.rows) {
		return m, nil
	}
	id := m.rows[m.cursor].tag.ID
	sib, ok := m.siblingAt(id, dir)
	if !ok {
		return m, nil
	}
	ratio := 0.1
	if dir > 0 {
		ratio = 0.9
	}
	act, ok := dragdrop.ClassifyDrop(m.nodes, id, sib, ratio)
	if !ok {
		return m, nil
	}
	return m.commit(id, act)
}

// moveOutdent lifts the cursor tag out of its parent, placing it right after
// the parent in the grandparent group.
func (m appModel) moveOutdent() (tea.Model, tea.Cmd) {
	if m.cursor >= len(m.rows) {
		return m, nil
	}
	t := m.rows[m.cursor].tag
	if t.ParentID == nil {
		return m, nil
	}
	act, ok := dragdrop.ClassifyDrop(m.nodes, t.ID, *t.ParentID, 0.9)
	if !ok {
		return m, nil
	}
	return m.commit(t.ID, act)
}

// moveIndent nests the cursor tag under its previous sibling.
func (m appModel) moveIndent() (tea.Model, tea.Cmd) {
	if m.cursor >= len(m.rows) {
		return m, nil
	}
	id := m.rows[m.cursor].tag.ID
	sib, ok := m.siblingAt(id, -1)
	if !ok {
		return m, nil
	}
	act, ok := dragdrop.ClassifyDrop(m.nodes, id, sib, 0.5)
	if !ok {
		return m, nil
	}
	return m.commit(id, act)
}

// siblingAt finds the sibling of id offset by dir (-1 previous, +1 next)
// within the same parent group.
func (m appModel) siblingAt(id int64, dir int) (int64, bool) {
	var cur dragdrop.Node
	found := false
	for _, n := range m.nodes {
		if n.ID == id {
			cur = n
			found = true
			break
		}
	}
	if !found {
		return 0, false
	}
	want := cur.Position + dir
	for _, n := range m.nodes {
		if n.ID == id {
			continue
		}
		if sameGroup(n.ParentID, cur.ParentID) && n.Position == want {
			return n.ID, true
		}
	}
	return 0, false
}

func sameGroup(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// commit hands one validated drop to the store. Only one commit runs at a
// time; the snapshot refreshes before the next one is accepted.
func (m appModel) commit(id int64, act dragdrop.DropAction) (tea.Model, tea.Cmd) {
	if m.commitInFlight {
		return m, nil
	}
	m.commitInFlight = true
	return m, commitMove(m.store, id, act.NewParentID, act.NewPosition)
}

func (m *appModel) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
}

func (m *appModel) ensureVisible() {
	h := m.treeHeight()
	if h <= 0 {
		return
	}
	if m.cursor < m.treeScroll {
		m.treeScroll = m.cursor
	}
	if m.cursor >= m.treeScroll+h {
		m.treeScroll = m.cursor - h + 1
	}
	if m.treeScroll < 0 {
		m.treeScroll = 0
	}
}

// pruneSelection drops selected ids that no longer exist in the snapshot
// (deleted from another terminal, say).
func (m *appModel) pruneSelection() {
	kept := m.selected[:0]
	for _, id := range m.selected {
		for _, n := range m.nodes {
			if n.ID == id {
				kept = append(kept, id)
				break
			}
		}
	}
	m.selected = kept
}

func (m *appModel) updatePreview() {
	m.preview = ""
	it, ok := m.filesList.SelectedItem().(fileItem)
	if !ok || it.file.IsDirectory {
		return
	}
	content, ok := loadPreview(it.file.Path)
	if !ok {
		return
	}
	m.preview = renderMarkdown(content, m.rightWidth()-2)
}

func (m *appModel) layout() {
	if m.treeWidth < minTreeWidth {
		m.treeWidth = minTreeWidth
	}
	if m.width > 0 && m.treeWidth > m.width/2 {
		m.treeWidth = m.width / 2
	}
	listH := m.bodyHeight()
	if m.preview != "" {
		listH -= m.previewHeight() + 1
	}
	if listH < 0 {
		listH = 0
	}
	m.filesList.SetSize(m.rightWidth(), listH)
	m.ensureVisible()
}

func (m appModel) bodyHeight() int { return m.height - 2 }
func (m appModel) treeHeight() int { return m.bodyHeight() }
func (m appModel) rightWidth() int { return m.width - m.treeWidth - 1 }
func (m appModel) previewHeight() int {
	h := m.bodyHeight() / 2
	if h > 16 {
		h = 16
	}
	return h
}

func (m appModel) View() string {
	if m.width == 0 || m.height < 4 {
		return ""
	}

	header := headerStyle.Render("tagme")
	mode := "any-of"
	if m.allOf {
		mode = "all-of"
	}
	header += statusBarStyle.Render(fmt.Sprintf("  %d tags · %d files · %s", len(m.rows), len(m.filesList.Items()), mode))

	tree := m.renderTree(m.treeWidth, m.bodyHeight())

	right := m.filesList.View()
	if m.preview != "" {
		preview := lipgloss.NewStyle().
			Width(m.rightWidth()).
			Height(m.previewHeight()).
			MaxHeight(m.previewHeight()).
			Render(m.preview)
		right = lipgloss.JoinVertical(lipgloss.Left, right,
			statusBarStyle.Render(strings.Repeat("─", max(0, m.rightWidth()))), preview)
	}

	sep := strings.TrimRight(strings.Repeat(paneBorder.Render("│")+"\n", m.bodyHeight()), "\n")
	body := lipgloss.JoinHorizontal(lipgloss.Top, tree, sep, right)

	status := m.statusLine()

	return header + "\n" + body + "\n" + status
}

func (m appModel) statusLine() string {
	if m.errMsg != "" {
		return errorStyle.Render(m.errMsg)
	}
	if _, dragging := m.session.DraggedID(); dragging {
		return statusBarStyle.Render("dragging · release to drop · esc cancels")
	}
	hints := "space select · drag to move · J/K reorder · H/L nest · a mode · tab focus · q quit"
	return statusBarStyle.Render(hints)
}
