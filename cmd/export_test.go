package cmd

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withExportFlags(t *testing.T, out string, width, height int, asURL bool) {
	t.Helper()
	o, w, h, d := exportOut, exportWidth, exportHeight, exportDataURL
	t.Cleanup(func() { exportOut, exportWidth, exportHeight, exportDataURL = o, w, h, d })
	exportOut, exportWidth, exportHeight, exportDataURL = out, width, height, asURL
}

func writeState(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExportWritesPNG(t *testing.T) {
	state := writeState(t, `{"data":[{"y":[1,3,2]}],"layout":{"title":"Export"}}`)
	out := filepath.Join(t.TempDir(), "chart.png")
	withExportFlags(t, out, 320, 200, false)

	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	require.NoError(t, runExport(cmd, []string{state}))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
	assert.Contains(t, buf.String(), "Wrote 320x200 image")
}

func TestExportDataURL(t *testing.T) {
	state := writeState(t, `{"data":[],"layout":{}}`)
	withExportFlags(t, "", 100, 100, true)

	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	require.NoError(t, runExport(cmd, []string{state}))
	assert.True(t, strings.HasPrefix(buf.String(), "data:image/png;base64,"))
}

func TestExportErrors(t *testing.T) {
	withExportFlags(t, "", 100, 100, false)
	assert.Error(t, runExport(&cobra.Command{}, []string{"missing.json"}))

	withExportFlags(t, filepath.Join(t.TempDir(), "x.png"), 100, 100, false)
	assert.Error(t, runExport(&cobra.Command{}, []string{filepath.Join(t.TempDir(), "missing.json")}))

	bad := writeState(t, `{"layout":{}}`)
	err := runExport(&cobra.Command{}, []string{bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data")
}
