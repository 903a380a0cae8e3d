package config

import (
	"fmt"

	"github.com/dooshek/winbridge/internal/fileops"
	"github.com/dooshek/winbridge/internal/logger"
	"github.com/dooshek/winbridge/internal/types"
	"gopkg.in/yaml.v3"
)

const (
	configFilename = "winbridge.yaml"
)

func LoadConfig() (*types.Config, error) {
	fileOps, err := fileops.NewDefaultFileOps()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file operations: %w", err)
	}

	if err := fileOps.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	data, err := fileOps.LoadConfig(configFilename)
	if err != nil {
		if err == fileops.ErrConfigNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config types.Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

func SaveConfig(config *types.Config) error {
	fileOps, err := fileops.NewDefaultFileOps()
	if err != nil {
		return fmt.Errorf("failed to initialize file operations: %w", err)
	}

	// Try to load existing config first
	existingConfig, err := LoadConfig()
	if err != nil {
		// Just log the error but continue with new config
		logger.Warnf("Failed to load existing config: %v", err)
	} else if existingConfig != nil {
		// We have an existing config, merge the new settings into it
		mergeConfigs(existingConfig, config)
		config = existingConfig
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := fileOps.SaveConfig(configFilename, data); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// mergeConfigs merges the sourceConfig into targetConfig, preserving existing values in targetConfig
// that are not explicitly set in sourceConfig
func mergeConfigs(targetConfig, sourceConfig *types.Config) {
	if sourceConfig.Server.Host != "" {
		targetConfig.Server.Host = sourceConfig.Server.Host
	}
	if sourceConfig.Server.Port != 0 {
		targetConfig.Server.Port = sourceConfig.Server.Port
	}

	if sourceConfig.Browser.Preferred != "" {
		targetConfig.Browser.Preferred = sourceConfig.Browser.Preferred
	}
	if sourceConfig.Browser.WaitTimeoutSec != 0 {
		targetConfig.Browser.WaitTimeoutSec = sourceConfig.Browser.WaitTimeoutSec
	}
	if sourceConfig.Browser.ExecutablePath != "" {
		targetConfig.Browser.ExecutablePath = sourceConfig.Browser.ExecutablePath
	}

	if sourceConfig.Capture.AnchorX != 0 {
		targetConfig.Capture.AnchorX = sourceConfig.Capture.AnchorX
	}
	if sourceConfig.Capture.AnchorY != 0 {
		targetConfig.Capture.AnchorY = sourceConfig.Capture.AnchorY
	}
	if sourceConfig.Capture.MaxWidth != 0 {
		targetConfig.Capture.MaxWidth = sourceConfig.Capture.MaxWidth
	}
	if sourceConfig.Capture.MaxHeight != 0 {
		targetConfig.Capture.MaxHeight = sourceConfig.Capture.MaxHeight
	}
}
