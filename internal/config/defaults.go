package config

import (
	"fmt"
	"net"
	"strconv"

	"chartbridge/pkg/logging"
)

const (
	DefaultPort         = 8765
	DefaultImageWidth   = 800
	DefaultImageHeight  = 600
	DefaultCellWidthPx  = 8
	DefaultCellHeightPx = 16
	defaultChannelHost  = "localhost"
	defaultLoggingLevel = "info"
)

// GetDefaultConfig returns the configuration used when no file overrides a field.
func GetDefaultConfig() ChartbridgeConfig {
	return ChartbridgeConfig{
		Channel: ChannelConfig{
			Transport: TransportSSE,
			Host:      defaultChannelHost,
			Port:      DefaultPort,
		},
		Image: ImageConfig{
			DefaultWidth:  DefaultImageWidth,
			DefaultHeight: DefaultImageHeight,
			CellWidth:     DefaultCellWidthPx,
			CellHeight:    DefaultCellHeightPx,
		},
		UI: UIConfig{
			AltScreen: boolPtr(true),
			ShowAxis:  boolPtr(true),
		},
		Logging: LoggingConfig{Level: defaultLoggingLevel},
	}
}

// Validate checks a merged configuration for values the runtime cannot use.
func (c ChartbridgeConfig) Validate() error {
	switch c.Channel.Transport {
	case TransportSSE, TransportStdio:
	default:
		return fmt.Errorf("channel.transport: unsupported transport %q", c.Channel.Transport)
	}
	if c.Channel.Transport == TransportSSE && (c.Channel.Port <= 0 || c.Channel.Port > 65535) {
		return fmt.Errorf("channel.port: %d is out of range", c.Channel.Port)
	}
	if c.Image.DefaultWidth <= 0 || c.Image.DefaultHeight <= 0 {
		return fmt.Errorf("image: default size %dx%d must be positive", c.Image.DefaultWidth, c.Image.DefaultHeight)
	}
	if c.Image.CellWidth <= 0 || c.Image.CellHeight <= 0 {
		return fmt.Errorf("image: cell size %dx%d must be positive", c.Image.CellWidth, c.Image.CellHeight)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

func boolPtr(b bool) *bool { return &b }

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
