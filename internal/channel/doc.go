// Package channel is the bidirectional call/notify bridge between the chart UI
// and the host process.
//
// Host is the outbound half: calls the UI makes into the host. Signals is the
// inbound half: notifications the host sends, to which the UI subscribes.
// MCPChannel implements both on top of an MCP server. Inbound signals are host
// tool calls (update_chart_state, request_image); outbound calls are server
// notifications under the "chart/" method prefix.
//
// The channel counts as established once the host completed the MCP
// initialize handshake. Outbound calls made before that fail with
// ErrNotEstablished and are dropped by the caller.
package channel
