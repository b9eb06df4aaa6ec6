package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"divicards/pkg/logger"
)

// LoadFromFile loads the configuration from a JSON file on top of the
// current values.
func (c *Config) LoadFromFile(path string, log *logger.Logger) error {
	log.Debug("Loading configuration from file", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("Failed to read config file", err, "path", path)
		return err
	}
	log.Debug("Config file read successfully", "size_bytes", len(data))

	var temp fileConfig
	if err := json.Unmarshal(data, &temp); err != nil {
		log.Error("Failed to parse config JSON", err)
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	log.Debug("Config JSON parsed successfully")

	c.apply(temp)
	return nil
}

// WriteFile stores the configuration as indented JSON.
func (c *Config) WriteFile(path string) error {
	data, err := json.MarshalIndent(c.toFile(), "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// initializeConfig creates or loads the configuration.
func initializeConfig(providedPath string, defaultPath string, log *logger.Logger) (*Config, error) {
	config, err := DefaultConfig(log)
	if err != nil {
		return nil, err
	}

	// Try provided path first if specified
	if providedPath != "" {
		if err := config.LoadFromFile(providedPath, log); err != nil {
			return nil, fmt.Errorf("failed to load config from provided path: %w", err)
		}
		return config, nil
	}

	// Try default path, create if doesn't exist
	if _, err := os.Stat(defaultPath); os.IsNotExist(err) {
		log.Info("Writing default configuration", "path", defaultPath)
		if err := config.WriteFile(defaultPath); err != nil {
			return nil, err
		}
		return config, nil
	}

	if err := config.LoadFromFile(defaultPath, log); err != nil {
		log.Warn("Default config unreadable, using defaults", "path", defaultPath)
		return DefaultConfig(log)
	}
	return config, nil
}

// FindConfig locates and initializes the configuration. Precedence, lowest
// first: defaults, config file, .env file, process environment.
func FindConfig(providedPath string, log *logger.Logger) (*Config, error) {
	log.Info("Looking for configuration", "provided_path", providedPath)

	// Get user config directory
	homeConfigDir, err := os.UserConfigDir()
	if err != nil {
		log.Error("Failed to get user config directory", err)
		return nil, err
	}

	defaultConfigDir := filepath.Join(homeConfigDir, "divicards")
	defaultConfigPath := filepath.Join(defaultConfigDir, "config.json")

	log.Debug("Configuration paths",
		"config_dir", defaultConfigDir,
		"config_path", defaultConfigPath)

	log.Debug("Ensuring directory exists", "path", defaultConfigDir)
	if err := os.MkdirAll(defaultConfigDir, 0755); err != nil {
		log.Error("Failed to create directory", err, "path", defaultConfigDir)
		return nil, err
	}

	config, err := initializeConfig(providedPath, defaultConfigPath, log)
	if err != nil {
		return nil, err
	}

	loadDotEnv(log, ".env", filepath.Join(defaultConfigDir, ".env"))
	if err := config.applyEnv(); err != nil {
		log.Error("Failed to apply environment overrides", err)
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}
