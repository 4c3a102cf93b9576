package tui

import (
	"context"

	"tagme-cli/internal/model"
	"tagme-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type tagsLoadedMsg struct {
	tags []model.Tag
	err  error
}

type filesLoadedMsg struct {
	files []model.File
	err   error
}

type moveDoneMsg struct {
	err error
}

func loadTags(s store.Store) tea.Cmd {
	return func() tea.Msg {
		tags, err := s.GetAllTags(context.Background())
		return tagsLoadedMsg{tags: tags, err: err}
	}
}

func loadFiles(s store.Store, tagIDs []int64, allOf bool) tea.Cmd {
	ids := append([]int64{}, tagIDs...)
	return func() tea.Msg {
		files, err := s.FilesByTags(context.Background(), ids, allOf)
		return filesLoadedMsg{files: files, err: err}
	}
}

// commitMove persists one validated drop. The model keeps a single commit in
// flight and refreshes the snapshot before accepting the next one, so
// positions are never computed against stale state.
func commitMove(s store.Store, id int64, newParentID *int64, position int) tea.Cmd {
	return func() tea.Msg {
		return moveDoneMsg{err: s.MoveTag(context.Background(), id, newParentID, position)}
	}
}

func saveWindowState(s store.Store, ws model.WindowState) tea.Cmd {
	return func() tea.Msg {
		_ = s.SaveWindowState(context.Background(), ws)
		return nil
	}
}
