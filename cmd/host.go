package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"chartbridge/internal/channel"
	"chartbridge/internal/config"
	"chartbridge/internal/hostclient"
	"chartbridge/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	hostEndpoint string
	hostImage    string
	hostImageOut string
)

var hostCmd = &cobra.Command{
	Use:   "host <state.json>",
	Short: "Act as a host: push a chart state to a running chartbridge and print what it sends back.",
	Long: `Connects to a running 'chartbridge serve' over SSE, sends the chart state
read from the given file and prints every notification the UI sends until
interrupted. Useful for trying the UI without a real host process.

The state file is a JSON object with data, layout and optionally frames and
dataSources.`,
	Args: cobra.ExactArgs(1),
	RunE: runHost,
}

// parseSize parses WIDTHxHEIGHT, e.g. 800x600.
func parseSize(s string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q, expected WIDTHxHEIGHT", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil || width < 0 {
		return 0, 0, fmt.Errorf("invalid width in %q", s)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height < 0 {
		return 0, 0, fmt.Errorf("invalid height in %q", s)
	}
	return width, height, nil
}

func defaultEndpoint() string {
	cfg, err := config.LoadConfig()
	if err != nil {
		cfg = config.GetDefaultConfig()
	}
	return fmt.Sprintf("http://%s/sse", cfg.Channel.Address())
}

func runHost(cmd *cobra.Command, args []string) error {
	payload, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read chart state: %w", err)
	}

	var width, height int
	if hostImage != "" {
		if width, height, err = parseSize(hostImage); err != nil {
			return err
		}
	}

	logging.InitForCLI(logging.LevelInfo, os.Stderr)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	endpoint := hostEndpoint
	if endpoint == "" {
		endpoint = defaultEndpoint()
	}
	client := hostclient.New(endpoint)
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()

	if err := client.PushState(ctx, string(payload)); err != nil {
		return err
	}

	var imageID string
	if hostImage != "" || hostImageOut != "" {
		if imageID, err = client.RequestImage(ctx, width, height); err != nil {
			return err
		}
		logging.Info("Host", "Requested image %s", imageID)
	}

	out := cmd.OutOrStdout()
	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-client.Notifications():
			fmt.Fprintln(out, n.String())
			if hostImageOut == "" || n.Method != channel.MethodImageReady || n.Params[channel.ParamRequestID] != imageID {
				continue
			}
			if err := hostclient.SaveImage(n, hostImageOut); err != nil {
				logging.Error("Host", err, "Could not save image")
				continue
			}
			fmt.Fprintf(out, "Saved image to %s\n", hostImageOut)
		}
	}
}

func init() {
	rootCmd.AddCommand(hostCmd)

	hostCmd.Flags().StringVar(&hostEndpoint, "endpoint", "", "SSE endpoint of the UI (default from configuration)")
	hostCmd.Flags().StringVar(&hostImage, "image", "", "Request an image of WIDTHxHEIGHT pixels after pushing the state (0x0 uses the widget size)")
	hostCmd.Flags().StringVar(&hostImageOut, "image-out", "", "Write the requested image to this PNG file")
}
