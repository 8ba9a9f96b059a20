package shell

import (
	"strings"

	"chartbridge/pkg/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const maxLogLines = 500

var (
	logOverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#606060", Dark: "#A0A0A0"}).
			Padding(0, 1)
	logTitleStyle = lipgloss.NewStyle().Bold(true)
	logErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	logWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	logDebugStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// listenForLogEntries waits for the next entry on the logging channel.
func listenForLogEntries(ch <-chan logging.LogEntry) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return nil
		}
		return logEntryMsg{entry: entry}
	}
}

func (m *Model) appendLog(entry logging.LogEntry) {
	m.logLines = append(m.logLines, entry.String())
	if len(m.logLines) > maxLogLines {
		m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
	}
	m.logViewport.SetContent(prepareLogContent(m.logLines, m.logViewport.Width))
	m.logViewport.GotoBottom()
}

// prepareLogContent truncates long lines so the viewport does not wrap them
// and colours them by level.
func prepareLogContent(lines []string, maxWidth int) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if maxWidth > 0 && runewidth.StringWidth(line) > maxWidth {
			line = runewidth.Truncate(line, maxWidth, "…")
		}
		out[i] = styleLogLine(line)
	}
	return strings.Join(out, "\n")
}

func styleLogLine(l string) string {
	switch {
	case strings.Contains(l, "[ERROR]"):
		return logErrorStyle.Render(l)
	case strings.Contains(l, "[WARN]"):
		return logWarnStyle.Render(l)
	case strings.Contains(l, "[DEBUG]"):
		return logDebugStyle.Render(l)
	default:
		return l
	}
}

func (m *Model) renderLogOverlay() string {
	title := "Activity Log  (↑/↓ scroll  •  y copy  •  Esc close)"
	if m.logNotice != "" {
		title += "  " + m.logNotice
	}
	title = logTitleStyle.Render(title)
	content := lipgloss.JoinVertical(lipgloss.Left, title, m.logViewport.View())
	return logOverlayStyle.
		Width(max(0, m.width-logOverlayStyle.GetHorizontalFrameSize())).
		Render(content)
}
