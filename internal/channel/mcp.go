package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"chartbridge/internal/chartmodel"
	"chartbridge/internal/config"
	"chartbridge/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const channelSubsystem = "Channel"

// notifier is the part of the MCP server used for outbound calls.
type notifier interface {
	SendNotificationToAllClients(method string, params map[string]any)
}

// MCPChannel serves the host channel as an MCP server.
type MCPChannel struct {
	config  config.ChannelConfig
	server  *server.MCPServer
	outbox  notifier
	stdin   io.Reader
	stdout  io.Writer
	baseURL string

	established atomic.Bool

	mu                  sync.RWMutex
	stateHandlers       []func(string)
	imageHandlers       []func(ImageRequest)
	establishedHandlers []func()
}

// Option configures an MCPChannel.
type Option func(*MCPChannel)

// WithStdio overrides the streams used by the stdio transport.
func WithStdio(in io.Reader, out io.Writer) Option {
	return func(c *MCPChannel) {
		c.stdin = in
		c.stdout = out
	}
}

// NewMCPChannel creates the MCP server and registers the inbound tools.
func NewMCPChannel(cfg config.ChannelConfig, version string, opts ...Option) *MCPChannel {
	c := &MCPChannel{
		config:  cfg,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		baseURL: fmt.Sprintf("http://%s", cfg.Address()),
	}
	for _, opt := range opts {
		opt(c)
	}

	hooks := &server.Hooks{}
	hooks.AddAfterInitialize(func(ctx context.Context, id any, message *mcp.InitializeRequest, result *mcp.InitializeResult) {
		logging.Info(channelSubsystem, "Host %s completed handshake", message.Params.ClientInfo.Name)
		c.markEstablished()
	})

	c.server = server.NewMCPServer(
		"chartbridge",
		version,
		server.WithToolCapabilities(false),
		server.WithHooks(hooks),
	)
	c.outbox = c.server
	c.registerTools()
	return c
}

func (c *MCPChannel) registerTools() {
	c.server.AddTool(
		mcp.NewTool(ToolUpdateChartState,
			mcp.WithDescription("Replace the chart state shown by the UI"),
			mcp.WithString("state",
				mcp.Required(),
				mcp.Description("JSON object with data, layout, frames and dataSources"),
			),
		),
		c.handleUpdateChartState,
	)
	c.server.AddTool(
		mcp.NewTool(ToolRequestImage,
			mcp.WithDescription("Render the chart to a PNG data URL, delivered as a chart/imageReady notification"),
			mcp.WithNumber("width", mcp.Description("Image width in pixels; 0 uses the widget size")),
			mcp.WithNumber("height", mcp.Description("Image height in pixels; 0 uses the widget size")),
		),
		c.handleRequestImage,
	)
}

// Serve runs the configured transport until ctx is cancelled.
func (c *MCPChannel) Serve(ctx context.Context) error {
	switch c.config.Transport {
	case config.TransportStdio:
		logging.Info(channelSubsystem, "Serving host channel on stdio")
		err := server.NewStdioServer(c.server).Listen(ctx, c.stdin, c.stdout)
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("stdio transport: %w", err)
		}
		return nil
	case config.TransportSSE:
		return c.serveSSE(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedTransport, c.config.Transport)
	}
}

// SSEServer returns an SSE transport for the channel that advertises
// baseURL to hosts. It can be mounted as an http.Handler.
func (c *MCPChannel) SSEServer(baseURL string) *server.SSEServer {
	return server.NewSSEServer(
		c.server,
		server.WithBaseURL(baseURL),
		server.WithSSEEndpoint("/sse"),
		server.WithMessageEndpoint("/message"),
		server.WithKeepAlive(true),
		server.WithKeepAliveInterval(30*time.Second),
	)
}

func (c *MCPChannel) serveSSE(ctx context.Context) error {
	sseServer := c.SSEServer(c.baseURL)

	addr := c.config.Address()
	errCh := make(chan error, 1)
	go func() {
		logging.Info(channelSubsystem, "Serving host channel on %s", c.Endpoint())
		if err := sseServer.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			return fmt.Errorf("sse transport on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sseServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(channelSubsystem, err, "Error shutting down SSE server")
	}
	return nil
}

// Endpoint returns the SSE endpoint hosts connect to.
func (c *MCPChannel) Endpoint() string {
	return c.baseURL + "/sse"
}

// Established reports whether a host completed the handshake.
func (c *MCPChannel) Established() bool {
	return c.established.Load()
}

func (c *MCPChannel) markEstablished() {
	if !c.established.CompareAndSwap(false, true) {
		return
	}
	c.mu.RLock()
	handlers := append([]func(){}, c.establishedHandlers...)
	c.mu.RUnlock()
	for _, h := range handlers {
		h()
	}
}

// OnStateChanged implements Signals.
func (c *MCPChannel) OnStateChanged(handler func(payload string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stateHandlers = append(c.stateHandlers, handler)
}

// OnImageRequest implements Signals.
func (c *MCPChannel) OnImageRequest(handler func(req ImageRequest)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.imageHandlers = append(c.imageHandlers, handler)
}

// OnEstablished implements Signals. A handler registered after the handshake
// runs immediately.
func (c *MCPChannel) OnEstablished(handler func()) {
	c.mu.Lock()
	c.establishedHandlers = append(c.establishedHandlers, handler)
	c.mu.Unlock()
	if c.established.Load() {
		handler()
	}
}

func (c *MCPChannel) handleUpdateChartState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := request.RequireString("state")
	if err != nil {
		return mcp.NewToolResultError("state parameter is required"), nil
	}
	// Rejected here so the host gets the schema error as the call result; the
	// controller decodes again on its own loop.
	if _, err := chartmodel.DecodeSnapshot(state); err != nil {
		logging.Warn(channelSubsystem, "Rejected chart state from host: %v", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	c.mu.RLock()
	handlers := append([]func(string){}, c.stateHandlers...)
	c.mu.RUnlock()
	for _, h := range handlers {
		h(state)
	}
	return mcp.NewToolResultText("chart state accepted"), nil
}

func (c *MCPChannel) handleRequestImage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	width := request.GetFloat("width", 0)
	height := request.GetFloat("height", 0)
	if width < 0 || height < 0 || math.IsNaN(width) || math.IsNaN(height) {
		return mcp.NewToolResultError(fmt.Sprintf("invalid image size %vx%v", width, height)), nil
	}

	req := NewImageRequest(int(width), int(height))

	c.mu.RLock()
	handlers := append([]func(ImageRequest){}, c.imageHandlers...)
	c.mu.RUnlock()
	for _, h := range handlers {
		h(req)
	}

	body, err := json.Marshal(map[string]any{ParamRequestID: req.ID})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}

func (c *MCPChannel) notify(method string, params map[string]any) error {
	if !c.established.Load() {
		return fmt.Errorf("%s: %w", method, ErrNotEstablished)
	}
	c.outbox.SendNotificationToAllClients(method, params)
	return nil
}

func (c *MCPChannel) notifyJSON(method string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: encode payload: %w", method, err)
	}
	return c.notify(method, map[string]any{ParamJSON: string(body)})
}

// DataChanged implements Host.
func (c *MCPChannel) DataChanged(data []chartmodel.Trace) error {
	if data == nil {
		data = []chartmodel.Trace{}
	}
	return c.notifyJSON(MethodDataChanged, data)
}

// LayoutChanged implements Host.
func (c *MCPChannel) LayoutChanged(layout chartmodel.Layout) error {
	if layout == nil {
		layout = chartmodel.Layout{}
	}
	return c.notifyJSON(MethodLayoutChanged, layout)
}

// ChartUpdated implements Host.
func (c *MCPChannel) ChartUpdated() error {
	return c.notify(MethodChartUpdated, nil)
}

// ChartDidMount implements Host.
func (c *MCPChannel) ChartDidMount() error {
	return c.notify(MethodChartDidMount, nil)
}

// ImageReady implements Host.
func (c *MCPChannel) ImageReady(requestID, dataURL string) error {
	return c.notify(MethodImageReady, map[string]any{
		ParamRequestID: requestID,
		ParamDataURL:   dataURL,
	})
}

// ImageFailed implements Host.
func (c *MCPChannel) ImageFailed(requestID string, cause error) error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	return c.notify(MethodImageFailed, map[string]any{
		ParamRequestID: requestID,
		ParamError:     msg,
	})
}

var (
	_ Host    = (*MCPChannel)(nil)
	_ Signals = (*MCPChannel)(nil)
)
