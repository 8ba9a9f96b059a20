package shell

import (
	"chartbridge/internal/channel"

	tea "github.com/charmbracelet/bubbletea"
)

// Sender posts a message to the event loop, e.g. (*tea.Program).Send.
type Sender func(tea.Msg)

// Subscribe forwards host signals into the event loop, in arrival order.
func Subscribe(signals channel.Signals, send Sender) {
	signals.OnStateChanged(func(payload string) {
		send(HostStateMsg{Payload: payload})
	})
	signals.OnImageRequest(func(req channel.ImageRequest) {
		send(ImageRequestMsg{Request: req})
	})
	signals.OnEstablished(func() {
		send(ChannelEstablishedMsg{})
	})
}
