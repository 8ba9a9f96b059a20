package widget

import "chartbridge/internal/chartmodel"

// Event is reported synchronously by the widget method that caused it, so
// the owner sees edits and render passes in the order they happened. It is
// either an EditEvent or a RenderEvent.
type Event interface {
	widgetEvent()
}

// EditEvent is reported when the user changed the model through the widget.
type EditEvent struct {
	Data   []chartmodel.Trace
	Layout chartmodel.Layout
	Frames []chartmodel.Frame
}

// RenderEvent is reported after every render pass, including the one
// performed right after mount before any content was set.
type RenderEvent struct {
	Data   []chartmodel.Trace
	Layout chartmodel.Layout
	Frames []chartmodel.Frame
}

func (EditEvent) widgetEvent()   {}
func (RenderEvent) widgetEvent() {}
