package config

// ChartbridgeConfig is the top-level configuration structure for chartbridge.
type ChartbridgeConfig struct {
	Channel ChannelConfig `yaml:"channel"`
	Image   ImageConfig   `yaml:"image"`
	UI      UIConfig      `yaml:"ui"`
	Logging LoggingConfig `yaml:"logging"`
}

const (
	// TransportSSE serves the host channel as an MCP Server-Sent Events endpoint.
	TransportSSE = "sse"
	// TransportStdio serves the host channel on stdin/stdout (headless mode).
	TransportStdio = "stdio"
)

// ChannelConfig describes how the host reaches the UI.
type ChannelConfig struct {
	Transport string `yaml:"transport,omitempty"` // "sse" or "stdio"
	Host      string `yaml:"host,omitempty"`
	Port      int    `yaml:"port,omitempty"`
}

// ImageConfig holds image export sizing.
type ImageConfig struct {
	DefaultWidth  int `yaml:"defaultWidth,omitempty"` // used when neither the request nor the widget supply a size
	DefaultHeight int `yaml:"defaultHeight,omitempty"`
	CellWidth     int `yaml:"cellWidth,omitempty"` // pixels per terminal column
	CellHeight    int `yaml:"cellHeight,omitempty"`
}

// UIConfig holds terminal presentation settings. The chart widget's own
// configuration (editing, logo, mode bar) is fixed and not part of this file.
type UIConfig struct {
	AltScreen *bool `yaml:"altScreen,omitempty"`
	ShowAxis  *bool `yaml:"showAxis,omitempty"`
	Debug     bool  `yaml:"debug,omitempty"`
}

// LoggingConfig selects the minimum log level.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"`
}

// AltScreenEnabled reports whether the TUI should take over the alternate screen.
func (u UIConfig) AltScreenEnabled() bool {
	return u.AltScreen == nil || *u.AltScreen
}

// AxisEnabled reports whether the chart canvas draws its axis.
func (u UIConfig) AxisEnabled() bool {
	return u.ShowAxis == nil || *u.ShowAxis
}

// Address returns host:port for the SSE transport.
func (c ChannelConfig) Address() string {
	return joinHostPort(c.Host, c.Port)
}
