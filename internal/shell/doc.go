// Package shell hosts the chart widget in a bubbletea program and wires it
// to the sync controller and the host channel.
//
// Nothing is rendered until the host supplied its first chart state. From
// then on, every model revision published by the controller is pushed into
// the widget, which renders and reports the pass back through the
// controller.
package shell
