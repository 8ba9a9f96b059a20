package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"chartbridge/internal/channel"
	"chartbridge/internal/config"
	"chartbridge/internal/shell"
	"chartbridge/internal/syncctl"
	"chartbridge/internal/widget"
	"chartbridge/pkg/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// serveHeadless runs the event loop without drawing to the terminal.
var serveHeadless bool

// serveDebug enables debug logging and the log overlay.
var serveDebug bool

// serveTransport and servePort override the channel configuration.
var (
	serveTransport string
	servePort      int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chart UI and wait for a host to connect.",
	Long: `Starts the chart UI and serves the host channel over MCP.

The UI stays empty until the host sends the first chart state with the
update_chart_state tool. Edits made in the UI are sent back to the host as
chart/* notifications.

Transports:
  sse    (default) an HTTP SSE endpoint at http://<host>:<port>/sse
  stdio  MCP over stdin/stdout; implies --headless

Configuration:
  chartbridge loads ~/.config/chartbridge/config.yaml and then
  .chartbridge/config.yaml in the current directory. Flags win over both.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// serveSettings resolves configuration and flags.
func serveSettings(cmd *cobra.Command) (config.ChartbridgeConfig, logging.LogLevel, bool, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, logging.LevelInfo, false, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cmd.Flags().Changed("transport") {
		cfg.Channel.Transport = serveTransport
	}
	if cmd.Flags().Changed("port") {
		cfg.Channel.Port = servePort
	}
	if serveDebug {
		cfg.UI.Debug = true
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return cfg, logging.LevelInfo, false, err
	}
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return cfg, logging.LevelInfo, false, err
	}
	headless := serveHeadless || cfg.Channel.Transport == config.TransportStdio
	return cfg, level, headless, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, level, headless, err := serveSettings(cmd)
	if err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var logChannel <-chan logging.LogEntry
	if headless {
		logging.InitForCLI(level, os.Stderr)
	} else {
		logChannel = logging.InitForTUI(level)
		defer logging.CloseTUIChannel()
	}

	host := channel.NewMCPChannel(cfg.Channel, rootCmd.Version)
	chart := widget.New(widget.DefaultConfig(), widget.Options{
		ShowAxis:   cfg.UI.AxisEnabled(),
		CellWidth:  cfg.Image.CellWidth,
		CellHeight: cfg.Image.CellHeight,
	})
	ctrl := syncctl.New(host, chart, syncctl.WithDefaultImageSize(cfg.Image.DefaultWidth, cfg.Image.DefaultHeight))
	endpoint := config.TransportStdio
	if cfg.Channel.Transport == config.TransportSSE {
		endpoint = host.Endpoint()
	}
	model := shell.New(ctx, ctrl, chart, shell.Options{
		Debug:      cfg.UI.Debug,
		LogChannel: logChannel,
		Endpoint:   endpoint,
	})
	program := shell.NewProgram(ctx, model, shell.ProgramOptions{
		AltScreen: cfg.UI.AltScreenEnabled(),
		Headless:  headless,
	})
	shell.Subscribe(host, program.Send)

	serveErr := make(chan error, 1)
	go func() {
		err := host.Serve(ctx)
		if err != nil {
			logging.Error("CLI", err, "Host channel stopped")
			program.Quit()
		}
		serveErr <- err
	}()

	logging.Info("CLI", "Waiting for a host on %s", endpoint)

	_, runErr := program.Run()
	stop()
	chErr := <-serveErr

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("chart UI failed: %w", runErr)
	}
	return chErr
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveHeadless, "headless", false, "Run without drawing the UI (the sync loop still runs)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging and the log overlay (L)")
	serveCmd.Flags().StringVar(&serveTransport, "transport", config.TransportSSE, "Host channel transport: sse or stdio")
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Port of the SSE host channel")
}
