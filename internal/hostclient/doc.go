// Package hostclient is a minimal host for chartbridge: it connects to the
// UI's MCP endpoint, pushes chart state, requests images and reports the
// notifications the UI sends back. It is meant for debugging the bridge.
package hostclient
