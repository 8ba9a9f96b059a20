// Package widget implements the terminal chart widget: a braille line chart
// with edit and pan/zoom keys that reports edits and render passes as
// bubbletea messages, plus PNG export of a model to a data URL.
package widget
