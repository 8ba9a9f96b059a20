// Package chartmodel holds the UI-side copy of the chart model: traces,
// layout, animation frames and the host's data-source catalog, plus the
// readiness flag that gates rendering and outbound traffic.
//
// Host snapshots are decoded against a declared schema (DecodeSnapshot) and
// applied by whole-object replacement; UI edits update data, layout and
// frames only. Data sources keep the key order of the host payload so the
// derived data-source options are stable.
package chartmodel
