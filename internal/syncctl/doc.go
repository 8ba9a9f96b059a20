// Package syncctl keeps the UI model in step with the host.
//
// The Controller is the only writer of the UI model. Host snapshots replace
// the model wholesale and never cause an outbound call; user edits update the
// model and are forwarded as "data changed"; widget render passes are
// forwarded as "layout changed" followed by "chart updated", except for the
// first one, which the widget emits on mount before any content exists.
// Nothing is forwarded before the host supplied its first snapshot.
//
// All methods must be called from the UI event loop. ImageJob.Run is the
// only part meant to run elsewhere.
package syncctl
