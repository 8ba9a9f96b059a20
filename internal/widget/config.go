package widget

// Mode bar buttons known to the chart widget.
const (
	ButtonZoomIn          = "zoomIn"
	ButtonZoomOut         = "zoomOut"
	ButtonPan             = "pan"
	ButtonResetScale      = "resetScale"
	ButtonToImage         = "toImage"
	ButtonSendDataToCloud = "sendDataToCloud"
)

var modeBarButtons = []string{
	ButtonZoomIn,
	ButtonZoomOut,
	ButtonPan,
	ButtonResetScale,
	ButtonToImage,
	ButtonSendDataToCloud,
}

// Config is the chart widget configuration.
type Config struct {
	Editable               bool
	DisplayLogo            bool
	ModeBarButtonsToRemove []string
}

// DefaultConfig is the fixed configuration the shell presents to the widget.
// Image export and persistence go through the host channel, so their mode bar
// buttons are removed.
func DefaultConfig() Config {
	return Config{
		Editable:               true,
		DisplayLogo:            false,
		ModeBarButtonsToRemove: []string{ButtonToImage, ButtonSendDataToCloud},
	}
}

// Removed reports whether a mode bar button is hidden.
func (c Config) Removed(button string) bool {
	for _, b := range c.ModeBarButtonsToRemove {
		if b == button {
			return true
		}
	}
	return false
}

// ModeBar returns the visible mode bar buttons, in display order.
func (c Config) ModeBar() []string {
	out := make([]string, 0, len(modeBarButtons))
	for _, b := range modeBarButtons {
		if !c.Removed(b) {
			out = append(out, b)
		}
	}
	return out
}

// Options are presentation settings taken from the user configuration.
type Options struct {
	ShowAxis   bool
	CellWidth  int // pixels per terminal column
	CellHeight int // pixels per terminal row
}
