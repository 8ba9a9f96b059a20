package shell

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"chartbridge/internal/channel"
	"chartbridge/internal/chartmodel"
	"chartbridge/internal/syncctl"
	"chartbridge/internal/widget"
	"chartbridge/pkg/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hostCall struct {
	method string
	args   []any
}

// recordingHost records outbound calls in order.
type recordingHost struct {
	mu    sync.Mutex
	calls []hostCall
}

func (h *recordingHost) record(method string, args ...any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, hostCall{method: method, args: args})
	return nil
}

func (h *recordingHost) DataChanged(data []chartmodel.Trace) error {
	return h.record("DataChanged", data)
}
func (h *recordingHost) LayoutChanged(layout chartmodel.Layout) error {
	return h.record("LayoutChanged", layout)
}
func (h *recordingHost) ChartUpdated() error  { return h.record("ChartUpdated") }
func (h *recordingHost) ChartDidMount() error { return h.record("ChartDidMount") }
func (h *recordingHost) ImageReady(id, url string) error {
	return h.record("ImageReady", id, url)
}
func (h *recordingHost) ImageFailed(id string, cause error) error {
	return h.record("ImageFailed", id, cause)
}

func (h *recordingHost) methods() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.calls))
	for i, c := range h.calls {
		out[i] = c.method
	}
	return out
}

func (h *recordingHost) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = nil
}

func (h *recordingHost) find(method string) []hostCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []hostCall
	for _, c := range h.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

func newTestShell(t *testing.T, opts Options) (*Model, *recordingHost) {
	t.Helper()
	host := &recordingHost{}
	chart := widget.New(widget.DefaultConfig(), widget.Options{CellWidth: 8, CellHeight: 15})
	ctrl := syncctl.New(host, chart)
	return New(context.Background(), ctrl, chart, opts), host
}

// pump feeds msgs through the model like the event loop does, running every
// returned command until the queue is empty.
func pump(t *testing.T, m *Model, msgs ...tea.Msg) {
	t.Helper()
	queue := append([]tea.Msg{}, msgs...)
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 1000, "message loop did not settle")
		msg := queue[0]
		queue = queue[1:]
		if msg == nil {
			continue
		}
		if expanded, ok := expandCommands(msg); ok {
			queue = append(expanded, queue...)
			continue
		}
		if _, ok := msg.(tea.QuitMsg); ok {
			continue
		}
		_, cmd := m.Update(msg)
		if cmd != nil {
			queue = append(queue, cmd())
		}
	}
}

// expandCommands runs the commands of batch and sequence messages in order.
func expandCommands(msg tea.Msg) ([]tea.Msg, bool) {
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Slice {
		return nil, false
	}
	var out []tea.Msg
	for i := 0; i < v.Len(); i++ {
		cmd, ok := v.Index(i).Interface().(tea.Cmd)
		if !ok {
			return nil, false
		}
		if cmd != nil {
			out = append(out, cmd())
		}
	}
	return out, true
}

const initialState = `{"data":[{"x":[1,2]}],"layout":{"title":"A"},"frames":[],"dataSources":{"s1":[1,2,3]}}`

func TestRendersNothingBeforeReady(t *testing.T) {
	m, host := newTestShell(t, Options{})
	pump(t, m, tea.WindowSizeMsg{Width: 100, Height: 40}, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})

	assert.Equal(t, "", m.View())
	assert.Empty(t, host.methods())
}

func TestInitialStateMountsChart(t *testing.T) {
	m, host := newTestShell(t, Options{})
	pump(t, m, tea.WindowSizeMsg{Width: 100, Height: 40}, HostStateMsg{Payload: initialState})

	assert.True(t, m.ctrl.Ready())
	assert.Equal(t, syncctl.PhaseSynced, m.ctrl.Phase())
	assert.Contains(t, m.View(), "A")
	// the mount render is discarded, the first real render is forwarded
	assert.Equal(t, []string{"LayoutChanged", "ChartUpdated"}, host.methods())
	assert.Equal(t, chartmodel.Layout{"title": "A"}, host.find("LayoutChanged")[0].args[0])
}

func TestHostStateIsNotEchoedAsData(t *testing.T) {
	m, host := newTestShell(t, Options{})
	pump(t, m, HostStateMsg{Payload: initialState})
	pump(t, m, HostStateMsg{Payload: `{"data":[{"x":[4]}],"layout":{"title":"B"}}`})

	assert.Empty(t, host.find("DataChanged"))
	layouts := host.find("LayoutChanged")
	require.Len(t, layouts, 2)
	assert.Equal(t, chartmodel.Layout{"title": "B"}, layouts[1].args[0])
}

func TestMalformedStateKeepsGate(t *testing.T) {
	m, host := newTestShell(t, Options{})
	pump(t, m, HostStateMsg{Payload: `{"layout":{}}`})

	assert.False(t, m.ctrl.Ready())
	assert.Equal(t, "", m.View())
	assert.Empty(t, host.methods())
}

func TestUserEditIsForwarded(t *testing.T) {
	m, host := newTestShell(t, Options{})
	pump(t, m, HostStateMsg{Payload: initialState})
	host.reset()

	pump(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})

	assert.Equal(t, []string{"DataChanged", "LayoutChanged", "ChartUpdated"}, host.methods())
	assert.Equal(t, []chartmodel.Trace{{"x": []any{1.0, 2.0, 3.0}}}, host.find("DataChanged")[0].args[0])
	assert.Equal(t, []chartmodel.Trace{{"x": []any{1.0, 2.0, 3.0}}}, m.ctrl.View().Data)
}

func TestPanIsReportedAsLayoutChange(t *testing.T) {
	m, host := newTestShell(t, Options{})
	pump(t, m, HostStateMsg{Payload: `{"data":[{"y":[0,1,2,3,4,5,6,7,8,9,10]}],"layout":{}}`})
	host.reset()

	pump(t, m, tea.KeyMsg{Type: tea.KeyRight})

	assert.Equal(t, []string{"LayoutChanged", "ChartUpdated"}, host.methods())
	layout := host.find("LayoutChanged")[0].args[0].(chartmodel.Layout)
	_, _, ok := layout.AxisRange(chartmodel.XAxisKey)
	assert.True(t, ok)
}

func TestImageRequestUsesWidgetSize(t *testing.T) {
	m, host := newTestShell(t, Options{})
	pump(t, m, tea.WindowSizeMsg{Width: 100, Height: 40}, HostStateMsg{Payload: initialState})
	host.reset()

	pump(t, m, ImageRequestMsg{Request: channel.ImageRequest{ID: "req-1"}})

	ready := host.find("ImageReady")
	require.Len(t, ready, 1)
	assert.Equal(t, "req-1", ready[0].args[0])
	assert.True(t, strings.HasPrefix(ready[0].args[1].(string), "data:image/png;base64,"))
	assert.Empty(t, host.find("ImageFailed"))
}

func TestImageFailureIsReported(t *testing.T) {
	m, host := newTestShell(t, Options{})
	pump(t, m, ImageRequestMsg{Request: channel.ImageRequest{ID: "big", Width: widget.MaxImageSide + 1, Height: 10}})

	failed := host.find("ImageFailed")
	require.Len(t, failed, 1)
	assert.Equal(t, "big", failed[0].args[0])
	assert.Empty(t, host.find("ImageReady"))
}

func TestChannelEstablishedSendsDidMountOnce(t *testing.T) {
	m, host := newTestShell(t, Options{})
	pump(t, m, ChannelEstablishedMsg{}, ChannelEstablishedMsg{})
	assert.Equal(t, []string{"ChartDidMount"}, host.methods())
}

func TestQuitKey(t *testing.T) {
	m, _ := newTestShell(t, Options{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestLogOverlay(t *testing.T) {
	ch := make(chan logging.LogEntry, 1)
	m, _ := newTestShell(t, Options{Debug: true, LogChannel: ch})
	pump(t, m, tea.WindowSizeMsg{Width: 100, Height: 40}, HostStateMsg{Payload: initialState})

	m.Update(logEntryMsg{entry: logging.LogEntry{Level: logging.LevelWarn, Subsystem: "Sync", Message: "dropped"}})
	pump(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("L")})
	assert.True(t, m.showLog)
	assert.Contains(t, m.View(), "Activity Log")
	assert.Contains(t, m.View(), "Sync: dropped")

	pump(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showLog)
}

func TestLogOverlayCopiesToClipboard(t *testing.T) {
	original := clipboardWrite
	defer func() { clipboardWrite = original }()
	var copied []string
	clipboardWrite = func(text string) error {
		copied = append(copied, text)
		return nil
	}

	ch := make(chan logging.LogEntry, 1)
	m, _ := newTestShell(t, Options{Debug: true, LogChannel: ch})
	pump(t, m, tea.WindowSizeMsg{Width: 100, Height: 40}, HostStateMsg{Payload: initialState})
	m.Update(logEntryMsg{entry: logging.LogEntry{Level: logging.LevelInfo, Subsystem: "Sync", Message: "one"}})
	m.Update(logEntryMsg{entry: logging.LogEntry{Level: logging.LevelWarn, Subsystem: "Channel", Message: "two"}})

	pump(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	assert.Empty(t, copied, "y only copies while the overlay is open")

	pump(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("L")}, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	require.Len(t, copied, 1)
	assert.Equal(t, strings.Join(m.logLines, "\n"), copied[0])
	assert.Contains(t, copied[0], "Sync: one")
	assert.Contains(t, copied[0], "Channel: two")
	assert.Contains(t, m.View(), "copied to clipboard")
}

func TestLogOverlayCopyFailure(t *testing.T) {
	original := clipboardWrite
	defer func() { clipboardWrite = original }()
	clipboardWrite = func(string) error { return errors.New("no clipboard") }

	m, _ := newTestShell(t, Options{Debug: true})
	pump(t, m,
		tea.WindowSizeMsg{Width: 100, Height: 40},
		HostStateMsg{Payload: initialState},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("L")},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")},
	)
	assert.True(t, m.showLog)
	assert.Contains(t, m.View(), "copy failed")
}

func TestLogOverlayDisabledWithoutDebug(t *testing.T) {
	m, _ := newTestShell(t, Options{})
	pump(t, m, HostStateMsg{Payload: initialState}, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("L")})
	assert.False(t, m.showLog)
}

func TestListenForLogEntries(t *testing.T) {
	assert.Nil(t, listenForLogEntries(nil))

	ch := make(chan logging.LogEntry, 1)
	ch <- logging.LogEntry{Message: "hello"}
	msg := listenForLogEntries(ch)()
	assert.Equal(t, "hello", msg.(logEntryMsg).entry.Message)

	close(ch)
	assert.Nil(t, listenForLogEntries(ch)())
}

type fakeSignals struct {
	state       func(string)
	image       func(channel.ImageRequest)
	established func()
}

func (f *fakeSignals) OnStateChanged(h func(string))               { f.state = h }
func (f *fakeSignals) OnImageRequest(h func(channel.ImageRequest)) { f.image = h }
func (f *fakeSignals) OnEstablished(h func())                      { f.established = h }

func TestSubscribe(t *testing.T) {
	signals := &fakeSignals{}
	var got []tea.Msg
	Subscribe(signals, func(msg tea.Msg) { got = append(got, msg) })

	signals.established()
	signals.state(`{"data":[],"layout":{}}`)
	signals.image(channel.ImageRequest{ID: "r"})

	assert.Equal(t, []tea.Msg{
		ChannelEstablishedMsg{},
		HostStateMsg{Payload: `{"data":[],"layout":{}}`},
		ImageRequestMsg{Request: channel.ImageRequest{ID: "r"}},
	}, got)
}
