package widget

import (
	"fmt"
	"strings"

	"chartbridge/internal/chartmodel"
	"chartbridge/pkg/logging"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"
	"github.com/mattn/go-runewidth"
)

const widgetSubsystem = "Widget"

const (
	// rows used by the title, legend and mode bar around the canvas
	chromeRows = 4

	minCanvasWidth  = 10
	minCanvasHeight = 4

	panStep  = 0.1
	zoomStep = 0.8
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	legendStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	modeBarStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	logoStyle     = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("63"))
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Chart is the terminal chart widget. It holds its own copy of the model it
// was last given and reports edits and render passes as events returned by
// the call that produced them.
type Chart struct {
	cfg  Config
	opts Options
	keys KeyMap
	help help.Model

	data   []chartmodel.Trace
	layout chartmodel.Layout
	frames []chartmodel.Frame
	// y data source options of the last model
	sources *chartmodel.DataSources

	canvas   *plot.Canvas
	width    int
	height   int
	selected int
	mounted  bool
}

// New creates an unmounted chart widget.
func New(cfg Config, opts Options) *Chart {
	if opts.CellWidth <= 0 {
		opts.CellWidth = 1
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = 1
	}
	c := &Chart{
		cfg:     cfg,
		opts:    opts,
		keys:    DefaultKeyMap(cfg),
		help:    help.New(),
		data:    []chartmodel.Trace{},
		layout:  chartmodel.Layout{},
		frames:  []chartmodel.Frame{},
		sources: chartmodel.NewDataSources(),
	}
	c.resizeCanvas(0, 0)
	return c
}

// Config returns the widget configuration.
func (c *Chart) Config() Config {
	return c.cfg
}

// Mounted reports whether Mount was called.
func (c *Chart) Mounted() bool {
	return c.mounted
}

// Mount attaches the widget. Like the browser chart it wraps, the widget
// performs one render pass right away, before any content was set.
func (c *Chart) Mount() Event {
	if c.mounted {
		return nil
	}
	c.mounted = true
	logging.Debug(widgetSubsystem, "Chart mounted (%dx%d cells)", c.width, c.height)
	c.redraw()
	return c.rendered()
}

// SetModel replaces the displayed model and performs a render pass.
func (c *Chart) SetModel(view chartmodel.UIModel) Event {
	c.data = chartmodel.CloneTraces(view.Data)
	c.layout = chartmodel.CloneLayout(view.Layout)
	c.frames = chartmodel.CloneFrames(view.Frames)
	c.sources = view.DataSources.Clone()
	if c.selected >= len(c.data) {
		c.selected = max(0, len(c.data)-1)
	}
	if !c.mounted {
		return nil
	}
	c.redraw()
	return c.rendered()
}

// Resize sets the widget area in terminal cells. A mounted widget re-renders.
func (c *Chart) Resize(width, height int) Event {
	if width == c.width && height == c.height {
		return nil
	}
	c.resizeCanvas(width, height)
	c.help.Width = width
	if !c.mounted {
		return nil
	}
	c.redraw()
	return c.rendered()
}

// ClientSize reports the widget area in pixels.
func (c *Chart) ClientSize() (int, int) {
	return c.width * c.opts.CellWidth, c.height * c.opts.CellHeight
}

// Selected returns the index of the trace edit keys act on.
func (c *Chart) Selected() int {
	return c.selected
}

// Update handles key input. Edits are applied to the displayed model and
// reported as an EditEvent; layout keys re-render.
func (c *Chart) Update(msg tea.Msg) Event {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !c.mounted {
		return nil
	}

	switch {
	case key.Matches(keyMsg, c.keys.PrevTrace):
		c.selectTrace(-1)
		c.redraw()
		return nil
	case key.Matches(keyMsg, c.keys.NextTrace):
		c.selectTrace(1)
		c.redraw()
		return nil
	case key.Matches(keyMsg, c.keys.AppendPoint):
		return c.edit(appendPoint)
	case key.Matches(keyMsg, c.keys.DropPoint):
		return c.edit(dropPoint)
	case key.Matches(keyMsg, c.keys.NudgeUp):
		return c.edit(nudge(1))
	case key.Matches(keyMsg, c.keys.NudgeDown):
		return c.edit(nudge(-1))
	case key.Matches(keyMsg, c.keys.CycleSource):
		return c.edit(c.cycleSource)
	case key.Matches(keyMsg, c.keys.AddTrace):
		return c.addTrace()
	case key.Matches(keyMsg, c.keys.PanLeft):
		return c.relayout(func(lo, hi float64) (float64, float64) { d := (hi - lo) * panStep; return lo - d, hi - d })
	case key.Matches(keyMsg, c.keys.PanRight):
		return c.relayout(func(lo, hi float64) (float64, float64) { d := (hi - lo) * panStep; return lo + d, hi + d })
	case key.Matches(keyMsg, c.keys.ZoomIn):
		return c.relayout(zoom(zoomStep))
	case key.Matches(keyMsg, c.keys.ZoomOut):
		return c.relayout(zoom(1 / zoomStep))
	case key.Matches(keyMsg, c.keys.ResetScale):
		c.layout.ResetAxisRange(chartmodel.XAxisKey)
		c.redraw()
		return c.rendered()
	}
	return nil
}

func (c *Chart) selectTrace(delta int) {
	if len(c.data) == 0 {
		return
	}
	c.selected = (c.selected + delta + len(c.data)) % len(c.data)
}

// traceEdit mutates a copy of the selected trace and reports whether
// anything changed.
type traceEdit func(t chartmodel.Trace) bool

func (c *Chart) edit(fn traceEdit) Event {
	if len(c.data) == 0 {
		return nil
	}
	data := chartmodel.CloneTraces(c.data)
	if !fn(data[c.selected]) {
		return nil
	}
	return c.emitEdit(data)
}

func (c *Chart) addTrace() Event {
	data := chartmodel.CloneTraces(c.data)
	data = append(data, chartmodel.Trace{
		"type": "scatter",
		"mode": "lines",
		"name": fmt.Sprintf("trace %d", len(data)),
		"y":    []any{},
	})
	c.selected = len(data) - 1
	return c.emitEdit(data)
}

// emitEdit makes data the displayed model, so the next edit builds on it
// even before the owner pushes the model back.
func (c *Chart) emitEdit(data []chartmodel.Trace) Event {
	c.data = data
	c.redraw()
	return EditEvent{
		Data:   chartmodel.CloneTraces(data),
		Layout: chartmodel.CloneLayout(c.layout),
		Frames: chartmodel.CloneFrames(c.frames),
	}
}

func (c *Chart) cycleSource(t chartmodel.Trace) bool {
	keys := c.sources.Keys()
	if len(keys) == 0 {
		return false
	}
	current, _ := t["ysrc"].(string)
	next := keys[0]
	for i, k := range keys {
		if k == current {
			next = keys[(i+1)%len(keys)]
			break
		}
	}
	values, _ := c.sources.Get(next)
	t["y"] = append([]any{}, values...)
	t["ysrc"] = next
	return true
}

// seriesKey is the key edits act on: y when present, x otherwise.
func seriesKey(t chartmodel.Trace) string {
	if _, ok := t["y"].([]any); ok {
		return "y"
	}
	if _, ok := t["x"].([]any); ok {
		return "x"
	}
	return "y"
}

func appendPoint(t chartmodel.Trace) bool {
	k := seriesKey(t)
	values, _ := t[k].([]any)
	next := 0.0
	if n := len(values); n > 0 {
		next, _ = chartmodel.ToFloat(values[n-1])
		if k == "x" {
			next++
		}
	}
	t[k] = append(values, next)

	if k == "y" {
		if xs, ok := t["x"].([]any); ok && len(xs) == len(values) {
			x := float64(len(xs))
			if n := len(xs); n > 0 {
				last, _ := chartmodel.ToFloat(xs[n-1])
				x = last + 1
			}
			t["x"] = append(xs, x)
		}
	}
	delete(t, k+"src")
	return true
}

func dropPoint(t chartmodel.Trace) bool {
	k := seriesKey(t)
	values, _ := t[k].([]any)
	if len(values) == 0 {
		return false
	}
	t[k] = values[:len(values)-1]
	if k == "y" {
		if xs, ok := t["x"].([]any); ok && len(xs) == len(values) {
			t["x"] = xs[:len(xs)-1]
		}
	}
	delete(t, k+"src")
	return true
}

func nudge(delta float64) traceEdit {
	return func(t chartmodel.Trace) bool {
		k := seriesKey(t)
		values, _ := t[k].([]any)
		if len(values) == 0 {
			return false
		}
		last, _ := chartmodel.ToFloat(values[len(values)-1])
		values[len(values)-1] = last + delta
		delete(t, k+"src")
		return true
	}
}

func zoom(factor float64) func(lo, hi float64) (float64, float64) {
	return func(lo, hi float64) (float64, float64) {
		mid := (lo + hi) / 2
		half := (hi - lo) / 2 * factor
		return mid - half, mid + half
	}
}

func (c *Chart) relayout(fn func(lo, hi float64) (float64, float64)) Event {
	lo, hi, ok := c.layout.AxisRange(chartmodel.XAxisKey)
	if !ok {
		lo, hi = c.dataExtent()
	}
	lo, hi = fn(lo, hi)
	c.layout.SetAxisRange(chartmodel.XAxisKey, lo, hi)
	c.redraw()
	return c.rendered()
}

// dataExtent returns the x extent of all traces, in point positions.
func (c *Chart) dataExtent() (float64, float64) {
	longest := 0
	for _, t := range c.data {
		longest = max(longest, len(t.Values(seriesKey(t))))
	}
	if longest < 2 {
		return 0, 1
	}
	return 0, float64(longest - 1)
}

func (c *Chart) rendered() Event {
	return RenderEvent{
		Data:   chartmodel.CloneTraces(c.data),
		Layout: chartmodel.CleanLayout(c.layout),
		Frames: chartmodel.CloneFrames(c.frames),
	}
}

func (c *Chart) canvasSize() (int, int) {
	return max(minCanvasWidth, c.width), max(minCanvasHeight, c.height-chromeRows)
}

func (c *Chart) resizeCanvas(width, height int) {
	c.width, c.height = width, height
	w, h := c.canvasSize()
	p := plot.NewCanvas(w, h)
	p.ShowAxis = c.opts.ShowAxis
	if c.canvas != nil {
		p.NumDataPoints = c.canvas.NumDataPoints
		p.LineColors = c.canvas.LineColors
	}
	c.canvas = &p
}

// redraw fills the canvas from the current traces, windowed by the x axis
// range. Shorter traces are held at their last value.
func (c *Chart) redraw() {
	series := windowedSeries(c.data, c.layout)
	if len(series) == 0 {
		c.canvas.NumDataPoints = 0
		return
	}

	points := 2
	for _, s := range series {
		points = max(points, len(s))
	}
	filled := make([][]float64, len(series))
	colors := make([]plot.Color, len(series))
	highlight, dim := plot.Red, plot.DimGray
	if !lipgloss.DefaultRenderer().HasDarkBackground() {
		highlight, dim = plot.Black, plot.LightGray
	}
	for i, s := range series {
		row := make([]float64, points)
		copy(row, s)
		for j := len(s); j < points && len(s) > 0; j++ {
			row[j] = s[len(s)-1]
		}
		filled[i] = row
		colors[i] = dim
		if i == c.selected {
			colors[i] = highlight
		}
	}
	c.canvas.NumDataPoints = points
	c.canvas.LineColors = colors
	c.canvas.Fill(filled)
}

// windowedSeries returns every trace's plotted values restricted to the
// positions inside the x axis range.
func windowedSeries(data []chartmodel.Trace, layout chartmodel.Layout) [][]float64 {
	lo, hi, windowed := layout.AxisRange(chartmodel.XAxisKey)
	out := make([][]float64, 0, len(data))
	for _, t := range data {
		values := t.Values(seriesKey(t))
		if !windowed {
			out = append(out, values)
			continue
		}
		kept := make([]float64, 0, len(values))
		for i, v := range values {
			if float64(i) >= lo && float64(i) <= hi {
				kept = append(kept, v)
			}
		}
		out = append(out, kept)
	}
	return out
}

// View renders the widget.
func (c *Chart) View() string {
	if !c.mounted {
		return ""
	}
	var b strings.Builder

	if title := c.layout.Title(); title != "" {
		b.WriteString(titleStyle.Render(runewidth.Truncate(title, max(c.width, minCanvasWidth), "…")))
	}
	b.WriteString("\n")

	if c.canvas.NumDataPoints == 0 {
		w, h := c.canvasSize()
		b.WriteString(emptyStyle.Width(w).Height(h).Render("no data"))
	} else {
		b.WriteString(c.canvas.String())
	}
	b.WriteString("\n")
	b.WriteString(c.legend())
	b.WriteString("\n")
	b.WriteString(c.modeBar())
	return b.String()
}

func (c *Chart) legend() string {
	if len(c.data) == 0 {
		return ""
	}
	width := max(c.width, minCanvasWidth)
	per := max(4, width/len(c.data)-2)
	parts := make([]string, 0, len(c.data))
	for i, t := range c.data {
		name := runewidth.Truncate(t.Name(fmt.Sprintf("trace %d", i)), per, "…")
		if i == c.selected {
			parts = append(parts, selectedStyle.Render("● "+name))
			continue
		}
		parts = append(parts, legendStyle.Render("○ "+name))
	}
	return strings.Join(parts, "  ")
}

func (c *Chart) modeBar() string {
	buttons := c.cfg.ModeBar()
	labels := make([]string, len(buttons))
	for i, b := range buttons {
		labels[i] = "[" + b + "]"
	}
	bar := modeBarStyle.Render(strings.Join(labels, " "))
	if help := c.help.View(c.keys); help != "" {
		bar += "  " + help
	}
	if c.cfg.DisplayLogo {
		bar += "  " + logoStyle.Render("chartbridge")
	}
	return bar
}
