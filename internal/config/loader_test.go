package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withConfigPaths points the loader at files inside a temp directory.
func withConfigPaths(t *testing.T, userPath, projectPath string) {
	t.Helper()
	originalUser := getUserConfigPath
	originalProject := getProjectConfigPath
	t.Cleanup(func() {
		getUserConfigPath = originalUser
		getProjectConfigPath = originalProject
	})
	getUserConfigPath = func() (string, error) { return userPath, nil }
	getProjectConfigPath = func() (string, error) { return projectPath, nil }
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	tempDir := t.TempDir()
	withConfigPaths(t,
		filepath.Join(tempDir, "missing-user.yaml"),
		filepath.Join(tempDir, "missing-project.yaml"),
	)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)
	assert.Equal(t, "localhost:8765", cfg.Channel.Address())
	assert.True(t, cfg.UI.AltScreenEnabled())
	assert.True(t, cfg.UI.AxisEnabled())
}

func TestLoadConfig_ProjectOverridesUser(t *testing.T) {
	tempDir := t.TempDir()
	userPath := filepath.Join(tempDir, "home", userConfigDir, configFileName)
	projectPath := filepath.Join(tempDir, "work", projectConfigDir, configFileName)
	withConfigPaths(t, userPath, projectPath)

	writeFile(t, userPath, `
channel:
  port: 9000
image:
  defaultWidth: 1024
ui:
  altScreen: false
logging:
  level: debug
`)
	writeFile(t, projectPath, `
channel:
  port: 9100
image:
  cellHeight: 20
`)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Channel.Port)
	assert.Equal(t, TransportSSE, cfg.Channel.Transport)
	assert.Equal(t, 1024, cfg.Image.DefaultWidth)
	assert.Equal(t, DefaultImageHeight, cfg.Image.DefaultHeight)
	assert.Equal(t, 20, cfg.Image.CellHeight)
	assert.False(t, cfg.UI.AltScreenEnabled())
	assert.True(t, cfg.UI.AxisEnabled())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	userPath := filepath.Join(tempDir, "user.yaml")
	withConfigPaths(t, userPath, filepath.Join(tempDir, "missing.yaml"))
	writeFile(t, userPath, "channel: [not, a, map")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error loading user config")
}

func TestLoadConfig_UserPathErrorIsNotFatal(t *testing.T) {
	tempDir := t.TempDir()
	originalUser := getUserConfigPath
	originalProject := getProjectConfigPath
	defer func() {
		getUserConfigPath = originalUser
		getProjectConfigPath = originalProject
	}()
	getUserConfigPath = func() (string, error) { return "", errors.New("no home") }
	getProjectConfigPath = func() (string, error) { return filepath.Join(tempDir, "missing.yaml"), nil }

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Channel.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ChartbridgeConfig)
		wantErr string
	}{
		{"defaults", func(*ChartbridgeConfig) {}, ""},
		{"stdio ignores port", func(c *ChartbridgeConfig) { c.Channel.Transport = TransportStdio; c.Channel.Port = 0 }, ""},
		{"unknown transport", func(c *ChartbridgeConfig) { c.Channel.Transport = "carrier-pigeon" }, "unsupported transport"},
		{"bad port", func(c *ChartbridgeConfig) { c.Channel.Port = 70000 }, "out of range"},
		{"bad image size", func(c *ChartbridgeConfig) { c.Image.DefaultWidth = 0 }, "default size"},
		{"bad cell size", func(c *ChartbridgeConfig) { c.Image.CellHeight = -1 }, "cell size"},
		{"bad level", func(c *ChartbridgeConfig) { c.Logging.Level = "chatty" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetUserConfigDir(t *testing.T) {
	original := osUserHomeDir
	defer func() { osUserHomeDir = original }()
	osUserHomeDir = func() (string, error) { return "/home/tester", nil }

	dir, err := GetUserConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".config", "chartbridge"), dir)
}
