package shell

import (
	"chartbridge/internal/channel"
	"chartbridge/internal/syncctl"
	"chartbridge/pkg/logging"
)

// HostStateMsg carries a "chart state changed" payload from the host.
type HostStateMsg struct {
	Payload string
}

// ImageRequestMsg carries a "request image" signal from the host.
type ImageRequestMsg struct {
	Request channel.ImageRequest
}

// ImageDoneMsg is delivered when an image job finished.
type ImageDoneMsg struct {
	Result syncctl.ImageResult
}

// ChannelEstablishedMsg is delivered once the host completed the handshake.
type ChannelEstablishedMsg struct{}

// logEntryMsg wraps a log entry for the debug overlay.
type logEntryMsg struct {
	entry logging.LogEntry
}
