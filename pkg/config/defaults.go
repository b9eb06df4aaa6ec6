package config

import (
	"fmt"
	"os"
	"path/filepath"

	"divicards/pkg/logger"
)

const (
	DefaultAppName         = "divicards"
	DefaultAppVersion      = "0.1.0"
	DefaultAPIURL          = "https://api.pathofexile.com"
	DefaultPricesURL       = "https://poe.ninja/api/data"
	DefaultReferenceLeague = "Standard"
	DefaultListenAddr      = ":8080"
)

// DefaultConfig creates a default configuration.
func DefaultConfig(log *logger.Logger) (*Config, error) {
	log.Debug("Creating default configuration")

	dbPath, err := defaultDBPath()
	if err != nil {
		log.Error("Failed to resolve default database path", err)
		return nil, fmt.Errorf("failed to create default config: %w", err)
	}

	config := &Config{
		appName:         DefaultAppName,
		appVersion:      DefaultAppVersion,
		apiURL:          DefaultAPIURL,
		pricesURL:       DefaultPricesURL,
		referenceLeague: DefaultReferenceLeague,
		defaultLeague:   DefaultReferenceLeague,
		dbPath:          dbPath,
		listenAddr:      DefaultListenAddr,
		allowedOrigins:  []string{"http://localhost:*"},
	}

	log.Info("Created default configuration",
		"db_path", dbPath,
		"api_url", config.apiURL,
		"reference_league", config.referenceLeague)

	return config, nil
}

// defaultDBPath returns the sample database location under the user config dir.
func defaultDBPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, "divicards", "samples.db"), nil
}
