package hostclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"chartbridge/internal/channel"
	"chartbridge/pkg/logging"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/vincent-petithory/dataurl"
)

const hostSubsystem = "Host"

// ErrToolFailed is returned when the UI rejected a tool call.
var ErrToolFailed = errors.New("tool call failed")

// Notification is a notification received from the UI.
type Notification struct {
	Method string
	Params map[string]any
}

// String returns a one-line summary of the notification.
func (n Notification) String() string {
	switch n.Method {
	case channel.MethodImageReady:
		url, _ := n.Params[channel.ParamDataURL].(string)
		return fmt.Sprintf("%s request=%v (%d bytes)", n.Method, n.Params[channel.ParamRequestID], len(url))
	case channel.MethodImageFailed:
		return fmt.Sprintf("%s request=%v error=%v", n.Method, n.Params[channel.ParamRequestID], n.Params[channel.ParamError])
	}
	if body, ok := n.Params[channel.ParamJSON].(string); ok {
		return fmt.Sprintf("%s %s", n.Method, body)
	}
	return n.Method
}

// mcpClient is the part of the mcp-go client the host uses.
type mcpClient interface {
	Start(ctx context.Context) error
	OnNotification(handler func(notification mcp.JSONRPCNotification))
	Initialize(ctx context.Context, request mcp.InitializeRequest) (*mcp.InitializeResult, error)
	CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
	Close() error
}

// newSSEClient is replaced in tests.
var newSSEClient = func(endpoint string) (mcpClient, error) {
	return client.NewSSEMCPClient(endpoint)
}

// Client is an MCP client talking to the chartbridge UI.
type Client struct {
	endpoint      string
	client        mcpClient
	notifications chan Notification
}

// New creates a client for the SSE endpoint, e.g. http://localhost:8765/sse.
func New(endpoint string) *Client {
	return &Client{
		endpoint:      endpoint,
		notifications: make(chan Notification, 64),
	}
}

// Connect opens the SSE stream and performs the MCP handshake. The UI
// considers the channel established once this returns.
func (c *Client) Connect(ctx context.Context) error {
	logging.Info(hostSubsystem, "Connecting to chartbridge at %s", c.endpoint)

	sseClient, err := newSSEClient(c.endpoint)
	if err != nil {
		return fmt.Errorf("failed to create SSE client: %w", err)
	}
	if err := sseClient.Start(ctx); err != nil {
		sseClient.Close()
		return fmt.Errorf("failed to start SSE client: %w", err)
	}

	sseClient.OnNotification(func(notification mcp.JSONRPCNotification) {
		n := Notification{
			Method: notification.Method,
			Params: notification.Params.AdditionalFields,
		}
		select {
		case c.notifications <- n:
		case <-ctx.Done():
		default:
			logging.Warn(hostSubsystem, "Notification buffer full, dropped %s", n.Method)
		}
	})

	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{
		Name:    "chartbridge-host",
		Version: "1.0.0",
	}
	req.Params.Capabilities = mcp.ClientCapabilities{}

	result, err := sseClient.Initialize(ctx, req)
	if err != nil {
		sseClient.Close()
		return fmt.Errorf("initialization failed: %w", err)
	}
	logging.Debug(hostSubsystem, "Connected to %s %s", result.ServerInfo.Name, result.ServerInfo.Version)

	c.client = sseClient
	return nil
}

// Close closes the connection.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Notifications returns the stream of notifications sent by the UI.
func (c *Client) Notifications() <-chan Notification {
	return c.notifications
}

func (c *Client) callTool(ctx context.Context, name string, args map[string]any) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("%s: not connected", name)
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := c.client.CallTool(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}

	var text []string
	for _, content := range result.Content {
		if tc, ok := mcp.AsTextContent(content); ok {
			text = append(text, tc.Text)
		}
	}
	body := strings.Join(text, "\n")
	if result.IsError {
		return "", fmt.Errorf("%w: %s: %s", ErrToolFailed, name, body)
	}
	return body, nil
}

// PushState sends a chart state payload to the UI.
func (c *Client) PushState(ctx context.Context, payload string) error {
	_, err := c.callTool(ctx, channel.ToolUpdateChartState, map[string]any{"state": payload})
	if err == nil {
		logging.Info(hostSubsystem, "Pushed chart state (%d bytes)", len(payload))
	}
	return err
}

// RequestImage asks the UI for an image and returns the request ID the
// matching chart/imageReady or chart/imageFailed notification will carry.
// Zero sizes leave the choice to the UI.
func (c *Client) RequestImage(ctx context.Context, width, height int) (string, error) {
	args := map[string]any{}
	if width > 0 {
		args["width"] = width
	}
	if height > 0 {
		args["height"] = height
	}
	body, err := c.callTool(ctx, channel.ToolRequestImage, args)
	if err != nil {
		return "", err
	}
	var resp map[string]string
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return "", fmt.Errorf("request_image: unexpected response %q: %w", body, err)
	}
	return resp[channel.ParamRequestID], nil
}

// SaveImage writes the PNG carried by a chart/imageReady notification.
func SaveImage(n Notification, path string) error {
	if n.Method != channel.MethodImageReady {
		return fmt.Errorf("%s carries no image", n.Method)
	}
	raw, _ := n.Params[channel.ParamDataURL].(string)
	du, err := dataurl.DecodeString(raw)
	if err != nil {
		return fmt.Errorf("decode image data URL: %w", err)
	}
	if err := os.WriteFile(path, du.Data, 0644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	return nil
}
