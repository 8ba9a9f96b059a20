package channel

import (
	"errors"

	"chartbridge/internal/chartmodel"

	"github.com/google/uuid"
)

var (
	// ErrNotEstablished is returned by outbound calls made before the host handshake.
	ErrNotEstablished = errors.New("host channel not established")
	// ErrUnsupportedTransport is returned when the configured transport is unknown.
	ErrUnsupportedTransport = errors.New("unsupported channel transport")
)

// Host is the set of calls the UI may make into the host process.
// All calls are fire-and-forget.
type Host interface {
	DataChanged(data []chartmodel.Trace) error
	LayoutChanged(layout chartmodel.Layout) error
	ChartUpdated() error
	ChartDidMount() error
	ImageReady(requestID, dataURL string) error
	ImageFailed(requestID string, cause error) error
}

// Signals is the set of notifications the host may send to the UI.
// Handlers run on the channel's goroutines; subscribers are expected to hand
// the values over to their own event loop.
type Signals interface {
	OnStateChanged(handler func(payload string))
	OnImageRequest(handler func(req ImageRequest))
	OnEstablished(handler func())
}

// ImageRequest asks the UI for an encoded image of the chart. Zero width or
// height means "use the live widget size".
type ImageRequest struct {
	ID     string
	Width  int
	Height int
}

// NewImageRequest returns a request with a fresh correlation ID.
func NewImageRequest(width, height int) ImageRequest {
	return ImageRequest{ID: uuid.NewString(), Width: width, Height: height}
}

// Outbound notification methods.
const (
	MethodDataChanged   = "chart/dataChanged"
	MethodLayoutChanged = "chart/layoutChanged"
	MethodChartUpdated  = "chart/updated"
	MethodChartDidMount = "chart/didMount"
	MethodImageReady    = "chart/imageReady"
	MethodImageFailed   = "chart/imageFailed"
)

// Inbound tool names.
const (
	ToolUpdateChartState = "update_chart_state"
	ToolRequestImage     = "request_image"
)

// Notification parameter keys.
const (
	ParamJSON      = "json"
	ParamRequestID = "requestId"
	ParamDataURL   = "dataUrl"
	ParamError     = "error"
)
