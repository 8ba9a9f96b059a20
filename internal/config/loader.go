package config

import (
	"fmt"
	"os"
	"path/filepath"

	"chartbridge/pkg/logging"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/chartbridge"
	projectConfigDir = ".chartbridge"
	configFileName   = "config.yaml"

	configSubsystem = "Config"
)

// LoadConfig loads the chartbridge configuration by layering default, user, and project settings.
func LoadConfig() (ChartbridgeConfig, error) {
	config := GetDefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// User config is optional.
		logging.Warn(configSubsystem, "Could not determine user config path: %v", err)
	} else if config, err = overlayFromFile(config, userConfigPath); err != nil {
		return ChartbridgeConfig{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		logging.Warn(configSubsystem, "Could not determine project config path: %v", err)
	} else if config, err = overlayFromFile(config, projectConfigPath); err != nil {
		return ChartbridgeConfig{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
	}

	if err := config.Validate(); err != nil {
		return ChartbridgeConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

func overlayFromFile(base ChartbridgeConfig, path string) (ChartbridgeConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return base, nil
	}
	overlay, err := loadConfigFromFile(path)
	if err != nil {
		return base, err
	}
	logging.Debug(configSubsystem, "Applied configuration layer %s", path)
	return mergeConfigs(base, overlay), nil
}

// loadConfigFromFile loads a ChartbridgeConfig from a YAML file.
func loadConfigFromFile(filePath string) (ChartbridgeConfig, error) {
	var config ChartbridgeConfig
	data, err := os.ReadFile(filePath)
	if err != nil {
		return ChartbridgeConfig{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return ChartbridgeConfig{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config. Zero values in the
// overlay leave the base untouched.
func mergeConfigs(base, overlay ChartbridgeConfig) ChartbridgeConfig {
	merged := base

	if overlay.Channel.Transport != "" {
		merged.Channel.Transport = overlay.Channel.Transport
	}
	if overlay.Channel.Host != "" {
		merged.Channel.Host = overlay.Channel.Host
	}
	if overlay.Channel.Port != 0 {
		merged.Channel.Port = overlay.Channel.Port
	}

	if overlay.Image.DefaultWidth != 0 {
		merged.Image.DefaultWidth = overlay.Image.DefaultWidth
	}
	if overlay.Image.DefaultHeight != 0 {
		merged.Image.DefaultHeight = overlay.Image.DefaultHeight
	}
	if overlay.Image.CellWidth != 0 {
		merged.Image.CellWidth = overlay.Image.CellWidth
	}
	if overlay.Image.CellHeight != 0 {
		merged.Image.CellHeight = overlay.Image.CellHeight
	}

	if overlay.UI.AltScreen != nil {
		merged.UI.AltScreen = overlay.UI.AltScreen
	}
	if overlay.UI.ShowAxis != nil {
		merged.UI.ShowAxis = overlay.UI.ShowAxis
	}
	if overlay.UI.Debug {
		merged.UI.Debug = true
	}

	if overlay.Logging.Level != "" {
		merged.Logging.Level = overlay.Logging.Level
	}
	return merged
}

// GetUserConfigDir returns the user configuration directory path
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
