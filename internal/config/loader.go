package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/mcpctl"
	projectConfigDir = ".mcpctl"
	configFileName   = "config.yaml"
)

// LoadConfig loads the mcpctl configuration by layering default, user,
// project, and environment settings.
func LoadConfig() (Config, error) {
	config := GetDefaultConfig()

	userConfigPath, err := getUserConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
		userConfig, err := loadConfigFromFile(userConfigPath)
		if err != nil {
			return Config{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
		}
		config = mergeConfigs(config, userConfig)
	}

	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
		projectConfig, err := loadConfigFromFile(projectConfigPath)
		if err != nil {
			return Config{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
		}
		config = mergeConfigs(config, projectConfig)
	}

	// Environment variables override every file layer.
	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("error applying environment overrides: %w", err)
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

// loadConfigFromFile loads a Config from a YAML file.
func loadConfigFromFile(filePath string) (Config, error) {
	var config Config
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config. Only fields the
// overlay actually sets replace the base values.
func mergeConfigs(base, overlay Config) Config {
	merged := base

	if overlay.Backend.BaseURL != "" {
		merged.Backend.BaseURL = overlay.Backend.BaseURL
	}
	if overlay.Backend.Timeout != 0 {
		merged.Backend.Timeout = overlay.Backend.Timeout
	}

	if overlay.Auth.RequiredRoles != nil {
		merged.Auth.RequiredRoles = overlay.Auth.RequiredRoles
	}
	if overlay.Auth.OperatorRoles != nil {
		merged.Auth.OperatorRoles = overlay.Auth.OperatorRoles
	}
	if overlay.Auth.LoginPath != "" {
		merged.Auth.LoginPath = overlay.Auth.LoginPath
	}
	if overlay.Auth.UnauthorizedPath != "" {
		merged.Auth.UnauthorizedPath = overlay.Auth.UnauthorizedPath
	}

	if overlay.Dashboard.HistoryPageSize != 0 {
		merged.Dashboard.HistoryPageSize = overlay.Dashboard.HistoryPageSize
	}
	if overlay.Dashboard.ToastDuration != 0 {
		merged.Dashboard.ToastDuration = overlay.Dashboard.ToastDuration
	}
	if overlay.Dashboard.RefreshInterval != 0 {
		merged.Dashboard.RefreshInterval = overlay.Dashboard.RefreshInterval
	}

	if overlay.LogLevel != "" {
		merged.LogLevel = overlay.LogLevel
	}

	return merged
}
