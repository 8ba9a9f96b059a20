package cmd

import (
	"context"
	"fmt"
	"os"

	"chartbridge/internal/chartmodel"
	"chartbridge/internal/config"
	"chartbridge/internal/widget"

	"github.com/spf13/cobra"
	"github.com/vincent-petithory/dataurl"
)

var (
	exportOut     string
	exportWidth   int
	exportHeight  int
	exportDataURL bool
)

var exportCmd = &cobra.Command{
	Use:   "export <state.json>",
	Short: "Render a chart state to a PNG file without starting the UI.",
	Long: `Renders the chart state in the given file with the same encoder the UI
uses for host image requests and writes it as PNG. With --data-url the
image is printed as a data URL instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportOut == "" && !exportDataURL {
		return fmt.Errorf("either --out or --data-url is required")
	}
	payload, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read chart state: %w", err)
	}
	snapshot, err := chartmodel.DecodeSnapshot(string(payload))
	if err != nil {
		return err
	}
	model := chartmodel.NewUIModel()
	model.ReplaceWith(snapshot)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	url, err := widget.EncodePNG(ctx, model.Clone(), exportWidth, exportHeight)
	if err != nil {
		return err
	}
	if exportDataURL {
		fmt.Fprintln(cmd.OutOrStdout(), url)
		return nil
	}

	du, err := dataurl.DecodeString(url)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	if err := os.WriteFile(exportOut, du.Data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOut, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %dx%d image to %s\n", exportWidth, exportHeight, exportOut)
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "PNG file to write")
	exportCmd.Flags().IntVar(&exportWidth, "width", config.DefaultImageWidth, "Image width in pixels")
	exportCmd.Flags().IntVar(&exportHeight, "height", config.DefaultImageHeight, "Image height in pixels")
	exportCmd.Flags().BoolVar(&exportDataURL, "data-url", false, "Print a data URL instead of writing a file")
}
