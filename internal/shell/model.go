package shell

import (
	"context"
	"strings"

	"chartbridge/internal/syncctl"
	"chartbridge/internal/widget"
	"chartbridge/pkg/logging"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const shellSubsystem = "Shell"

// clipboardWrite is replaced in tests.
var clipboardWrite = clipboard.WriteAll

// Options configure the shell model.
type Options struct {
	// Debug enables the log overlay.
	Debug bool
	// LogChannel feeds the log overlay; see logging.InitForTUI.
	LogChannel <-chan logging.LogEntry
	// Endpoint is shown in the status bar.
	Endpoint string
}

// Model is the root bubbletea model.
type Model struct {
	ctx   context.Context
	ctrl  *syncctl.Controller
	chart *widget.Chart
	keys  keyMap

	// controller revision last pushed into the widget
	shownRevision uint64

	width    int
	height   int
	endpoint string

	debug       bool
	showLog     bool
	logChannel  <-chan logging.LogEntry
	logLines    []string
	logViewport viewport.Model
	// shown in the log overlay title after a copy
	logNotice string
}

// New creates the shell model. ctx bounds image jobs.
func New(ctx context.Context, ctrl *syncctl.Controller, chart *widget.Chart, opts Options) *Model {
	return &Model{
		ctx:         ctx,
		ctrl:        ctrl,
		chart:       chart,
		keys:        defaultKeyMap(opts.Debug),
		debug:       opts.Debug,
		endpoint:    opts.Endpoint,
		logChannel:  opts.LogChannel,
		logViewport: viewport.New(0, 0),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return listenForLogEntries(m.logChannel)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.logViewport.Width = max(0, msg.Width-logOverlayStyle.GetHorizontalFrameSize())
		m.logViewport.Height = max(0, msg.Height-logOverlayStyle.GetVerticalFrameSize()-1)
		m.logViewport.SetContent(prepareLogContent(m.logLines, m.logViewport.Width))
		// one row for the status bar
		m.dispatch(m.chart.Resize(msg.Width, max(0, msg.Height-1)))

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	case HostStateMsg:
		// rejected payloads are logged by the controller
		_ = m.ctrl.OnHostStateChanged(msg.Payload)

	case ImageRequestMsg:
		job := m.ctrl.OnHostImageRequest(msg.Request)
		cmds = append(cmds, runImageJob(m.ctx, job))

	case ImageDoneMsg:
		m.ctrl.CompleteImage(msg.Result)

	case ChannelEstablishedMsg:
		m.ctrl.OnChannelEstablished()

	case logEntryMsg:
		m.appendLog(msg.entry)
		cmds = append(cmds, listenForLogEntries(m.logChannel))
	}

	m.syncWidget()
	return m, tea.Batch(cmds...)
}

// dispatch hands a widget event to the controller within the same Update
// call that produced it.
func (m *Model) dispatch(ev widget.Event) {
	switch ev := ev.(type) {
	case widget.EditEvent:
		m.ctrl.OnUserEdit(ev.Data, ev.Layout, ev.Frames)
	case widget.RenderEvent:
		m.ctrl.OnWidgetRendered(ev.Data, ev.Layout, ev.Frames)
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case !m.ctrl.Ready():
		return nil
	case key.Matches(msg, m.keys.ToggleLog):
		m.showLog = !m.showLog
		m.logNotice = ""
		return nil
	case m.showLog && key.Matches(msg, m.keys.Close):
		m.showLog = false
		return nil
	case m.showLog && key.Matches(msg, m.keys.CopyLog):
		m.copyLog()
		return nil
	case m.showLog:
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return cmd
	default:
		m.dispatch(m.chart.Update(msg))
		return nil
	}
}

func (m *Model) copyLog() {
	if err := clipboardWrite(strings.Join(m.logLines, "\n")); err != nil {
		logging.Error(shellSubsystem, err, "Failed to copy logs")
		m.logNotice = "copy failed"
		return
	}
	m.logNotice = "copied to clipboard"
}

// syncWidget pushes a new controller revision into the widget. The first
// push mounts the widget, which renders once before the model is set.
func (m *Model) syncWidget() {
	if !m.ctrl.Ready() {
		return
	}
	rev := m.ctrl.Revision()
	if rev == m.shownRevision && m.chart.Mounted() {
		return
	}
	m.shownRevision = rev
	view := m.ctrl.View()
	if !m.chart.Mounted() {
		logging.Debug(shellSubsystem, "Initial chart state received, mounting chart")
		m.dispatch(m.chart.Mount())
	}
	m.dispatch(m.chart.SetModel(view))
}

func runImageJob(ctx context.Context, job syncctl.ImageJob) tea.Cmd {
	return func() tea.Msg {
		return ImageDoneMsg{Result: job.Run(ctx)}
	}
}

// View implements tea.Model. Nothing is rendered before the host supplied
// the initial chart state.
func (m *Model) View() string {
	if !m.ctrl.Ready() {
		return ""
	}
	if m.showLog {
		return m.renderLogOverlay()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.chart.View(), m.statusBar().Render())
}
