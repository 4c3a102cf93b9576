package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme helpers. The panes must stay readable on both light and dark
// terminal backgrounds, so colors are adaptive and "faint" styling is only
// applied on dark backgrounds (faint on light terminals often becomes
// illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted      = ac("240", "243")
	colorAccent     = ac("26", "39")
	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")
	colorDropBg     = ac("153", "24")

	treeRowStyle    = lipgloss.NewStyle()
	cursorRowStyle  = lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg).Bold(true)
	draggedRowStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	dropTargetStyle = lipgloss.NewStyle().Background(colorDropBg)

	headerStyle    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	statusBarStyle = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle     = lipgloss.NewStyle().Foreground(ac("160", "203"))
	paneBorder     = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(colorMuted)
)

// applyColorProfilePreference sets Lip Gloss's color profile for the
// interactive TUI. Only NO_COLOR is honored as an off switch; CLICOLOR
// conventions target non-interactive output and can accidentally disable
// colors in a TUI. When COLORTERM advertises truecolor, trust it over the
// probe, which under-reports on some terminals.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	}
	lipgloss.SetColorProfile(profile)
}
