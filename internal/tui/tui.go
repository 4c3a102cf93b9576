package tui

import (
	"os"

	"tagme-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive tag organizer.
func Run(s store.Store) error {
	if os.Getenv("TAGME_DEBUG") != "" {
		f, err := tea.LogToFile("tagme-debug.log", "tagme")
		if err == nil {
			defer f.Close()
		}
	}
	applyColorProfilePreference()
	m := newAppModel(s)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
