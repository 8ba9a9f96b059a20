package syncctl

import (
	"context"
	"fmt"

	"chartbridge/internal/channel"
	"chartbridge/internal/chartmodel"
	"chartbridge/internal/config"
	"chartbridge/pkg/logging"

	"github.com/google/uuid"
)

const syncSubsystem = "Sync"

// Surface is the controller's view of the chart widget.
type Surface interface {
	// ClientSize returns the widget's drawable area in pixels.
	ClientSize() (width, height int)
	// ExportImage renders view to an image data URL.
	ExportImage(ctx context.Context, view chartmodel.UIModel, width, height int) (string, error)
}

// Controller owns the UI model and enforces the synchronization rules.
type Controller struct {
	host    channel.Host
	surface Surface

	model    *chartmodel.UIModel
	filter   renderFilter
	revision uint64
	mounted  bool

	defaultWidth  int
	defaultHeight int
}

// Option configures a Controller.
type Option func(*Controller)

// WithDefaultImageSize sets the image size used when neither the request
// nor the widget provide one.
func WithDefaultImageSize(width, height int) Option {
	return func(c *Controller) {
		if width > 0 && height > 0 {
			c.defaultWidth = width
			c.defaultHeight = height
		}
	}
}

// New creates a controller with an empty, not-ready model.
func New(host channel.Host, surface Surface, opts ...Option) *Controller {
	c := &Controller{
		host:          host,
		surface:       surface,
		model:         chartmodel.NewUIModel(),
		filter:        awaitingSpurious,
		defaultWidth:  config.DefaultImageWidth,
		defaultHeight: config.DefaultImageHeight,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnChannelEstablished tells the host the chart is mounted. Only the first
// call has an effect.
func (c *Controller) OnChannelEstablished() {
	if c.mounted {
		return
	}
	c.mounted = true
	c.outbound("chart did mount", c.host.ChartDidMount())
}

// OnHostStateChanged replaces the model with a host snapshot. A malformed
// payload is rejected and leaves the model untouched. It never calls the
// host.
func (c *Controller) OnHostStateChanged(payload string) error {
	snapshot, err := chartmodel.DecodeSnapshot(payload)
	if err != nil {
		logging.Error(syncSubsystem, err, "Rejected host chart state")
		return fmt.Errorf("apply host state: %w", err)
	}

	wasReady := c.model.Ready
	c.model.ReplaceWith(snapshot)
	c.revision++
	if !wasReady {
		logging.Info(syncSubsystem, "Received initial chart state (%d traces, %d data sources)",
			len(snapshot.Data), snapshot.DataSources.Len())
	} else {
		logging.Debug(syncSubsystem, "Applied host chart state, revision %d", c.revision)
	}
	return nil
}

// OnUserEdit records an edit made through the widget and, once ready,
// forwards the new data to the host.
func (c *Controller) OnUserEdit(data []chartmodel.Trace, layout chartmodel.Layout, frames []chartmodel.Frame) {
	c.model.ApplyEdit(data, layout, frames)
	c.revision++
	if !c.model.Ready {
		logging.Debug(syncSubsystem, "Edit before initial state kept locally")
		return
	}
	c.outbound("data changed", c.host.DataChanged(data))
}

// OnWidgetRendered forwards a render pass to the host as "layout changed"
// then "chart updated". The first render pass ever seen is discarded.
func (c *Controller) OnWidgetRendered(data []chartmodel.Trace, layout chartmodel.Layout, frames []chartmodel.Frame) {
	if !c.filter.admit() {
		logging.Debug(syncSubsystem, "Discarded initial render event")
		return
	}
	if !c.model.Ready {
		return
	}
	c.outbound("layout changed", c.host.LayoutChanged(layout))
	c.outbound("chart updated", c.host.ChartUpdated())
}

// OnHostImageRequest prepares an image job for a host request. Each missing
// dimension falls back to the widget size, then to the default image size.
func (c *Controller) OnHostImageRequest(req channel.ImageRequest) ImageJob {
	clientWidth, clientHeight := c.surface.ClientSize()
	width := firstPositive(req.Width, clientWidth, c.defaultWidth)
	height := firstPositive(req.Height, clientHeight, c.defaultHeight)
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	logging.Debug(syncSubsystem, "Image request %s at %dx%d", id, width, height)
	return ImageJob{
		RequestID: id,
		Width:     width,
		Height:    height,
		view:      c.model.Clone(),
		surface:   c.surface,
	}
}

// CompleteImage reports a finished image job to the host.
func (c *Controller) CompleteImage(result ImageResult) {
	if result.Err != nil {
		logging.Error(syncSubsystem, result.Err, "Image request %s failed", result.RequestID)
		c.outbound("image failed", c.host.ImageFailed(result.RequestID, result.Err))
		return
	}
	c.outbound("image ready", c.host.ImageReady(result.RequestID, result.DataURL))
}

func firstPositive(sizes ...int) int {
	for _, s := range sizes {
		if s > 0 {
			return s
		}
	}
	return 0
}

func (c *Controller) outbound(call string, err error) {
	if err != nil {
		logging.Warn(syncSubsystem, "Dropped outbound %s: %v", call, err)
	}
}

// Ready reports whether the host supplied its first snapshot.
func (c *Controller) Ready() bool {
	return c.model.Ready
}

// View returns a deep copy of the model.
func (c *Controller) View() chartmodel.UIModel {
	return c.model.Clone()
}

// Revision increases every time the model changes.
func (c *Controller) Revision() uint64 {
	return c.revision
}

// Phase returns the current synchronization phase.
func (c *Controller) Phase() Phase {
	switch {
	case !c.model.Ready:
		return PhaseUninitialized
	case c.filter == awaitingSpurious:
		return PhaseAwaitingFirstRender
	default:
		return PhaseSynced
	}
}
