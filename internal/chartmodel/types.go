package chartmodel

// Trace is a single chart trace object (type, name, x, y, xsrc, ysrc, ...).
type Trace map[string]any

// Layout maps layout keys (title, xaxis, yaxis, ...) to values.
type Layout map[string]any

// Frame is a single animation frame object.
type Frame map[string]any

// DataSourceOption is an entry of the data-source picker.
type DataSourceOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// UIModel is the UI-side model. It is owned by the sync controller; everyone
// else receives copies produced by Clone.
type UIModel struct {
	Data              []Trace
	Layout            Layout
	Frames            []Frame
	DataSources       *DataSources
	DataSourceOptions []DataSourceOption
	Ready             bool
}

// NewUIModel returns the empty, not-ready model a component starts with.
func NewUIModel() *UIModel {
	return &UIModel{
		Data:              []Trace{},
		Layout:            Layout{},
		Frames:            []Frame{},
		DataSources:       NewDataSources(),
		DataSourceOptions: []DataSourceOption{},
	}
}

// ReplaceWith replaces the whole model with a host snapshot and marks it ready.
// The data-source options are derived here and nowhere else.
func (m *UIModel) ReplaceWith(s Snapshot) {
	ds := s.DataSources
	if ds == nil {
		ds = NewDataSources()
	}
	*m = UIModel{
		Data:              s.Data,
		Layout:            s.Layout,
		Frames:            s.Frames,
		DataSources:       ds,
		DataSourceOptions: Options(ds),
		Ready:             true,
	}
}

// ApplyEdit updates data, layout and frames from a UI-originated event.
// Data sources, options and readiness are left alone.
func (m *UIModel) ApplyEdit(data []Trace, layout Layout, frames []Frame) {
	m.Data = data
	m.Layout = layout
	m.Frames = frames
}

// Clone returns a deep copy, safe to hand to the widget or an image encoder.
func (m *UIModel) Clone() UIModel {
	return UIModel{
		Data:              CloneTraces(m.Data),
		Layout:            CloneLayout(m.Layout),
		Frames:            CloneFrames(m.Frames),
		DataSources:       m.DataSources.Clone(),
		DataSourceOptions: append([]DataSourceOption{}, m.DataSourceOptions...),
		Ready:             m.Ready,
	}
}

// Options derives the data-source picker entries from the catalog keys, in order.
func Options(ds *DataSources) []DataSourceOption {
	keys := ds.Keys()
	opts := make([]DataSourceOption, 0, len(keys))
	for _, k := range keys {
		opts = append(opts, DataSourceOption{Value: k, Label: k})
	}
	return opts
}
