package syncctl

// Phase is the synchronization phase of a Controller.
type Phase int

const (
	// PhaseUninitialized: no host snapshot received yet.
	PhaseUninitialized Phase = iota
	// PhaseAwaitingFirstRender: ready, but the widget's mount render was not
	// seen yet.
	PhaseAwaitingFirstRender
	// PhaseSynced: ready and the mount render was discarded.
	PhaseSynced
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "Uninitialized"
	case PhaseAwaitingFirstRender:
		return "AwaitingFirstRender"
	case PhaseSynced:
		return "Synced"
	default:
		return "Unknown"
	}
}

// renderFilter discards the first render event and passes all others. It
// does not depend on readiness.
type renderFilter int

const (
	awaitingSpurious renderFilter = iota
	passing
)

// admit reports whether a render event should be handled.
func (f *renderFilter) admit() bool {
	if *f == awaitingSpurious {
		*f = passing
		return false
	}
	return true
}
