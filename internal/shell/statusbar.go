package shell

import (
	"fmt"
	"strings"

	"chartbridge/internal/syncctl"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const statusBarPadding = 1

var (
	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#343433", Dark: "#C1C6B2"}).
			Background(lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#353533"}).
			Padding(0, statusBarPadding)
	statusBarWarnStyle = statusBarStyle.
				Foreground(lipgloss.AdaptiveColor{Light: "#5C4400", Dark: "#FFD866"})
)

// StatusBar is the one-line bar below the chart.
type StatusBar struct {
	Width     int
	LeftText  string
	RightText string
	Warn      bool
}

// Render returns the styled status bar. The right text is dropped when both
// sides do not fit.
func (s StatusBar) Render() string {
	inner := s.Width - statusBarPadding*2
	var content string
	switch {
	case s.LeftText != "" && s.RightText != "":
		gap := inner - lipgloss.Width(s.LeftText) - lipgloss.Width(s.RightText)
		if gap > 0 {
			content = s.LeftText + strings.Repeat(" ", gap) + s.RightText
		} else {
			content = runewidth.Truncate(s.LeftText, max(0, inner), "…")
		}
	case s.LeftText != "":
		content = s.LeftText
	default:
		content = s.RightText
	}

	style := statusBarStyle
	if s.Warn {
		style = statusBarWarnStyle
	}
	if s.Width <= 0 {
		return style.Render(content)
	}
	return style.Width(s.Width).MaxWidth(s.Width).Render(content)
}

func (m *Model) statusBar() StatusBar {
	phase := m.ctrl.Phase()
	left := fmt.Sprintf("%s · rev %d", phase, m.ctrl.Revision())
	if m.debug {
		left += " · L log"
	}
	return StatusBar{
		Width:     m.width,
		LeftText:  left,
		RightText: m.endpoint,
		Warn:      phase != syncctl.PhaseSynced,
	}
}
