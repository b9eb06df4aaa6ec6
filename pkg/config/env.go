package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"divicards/pkg/logger"
)

// envConfig mirrors fileConfig for DIVICARDS_* variables.
type envConfig struct {
	AppName         string   `env:"APP_NAME"`
	AppVersion      string   `env:"APP_VERSION"`
	ContactEmail    string   `env:"CONTACT_EMAIL"`
	AccessToken     string   `env:"ACCESS_TOKEN"`
	APIURL          string   `env:"API_URL"`
	PricesURL       string   `env:"PRICES_URL"`
	ReferenceLeague string   `env:"REFERENCE_LEAGUE"`
	DefaultLeague   string   `env:"LEAGUE"`
	DBPath          string   `env:"DB_PATH"`
	ListenAddr      string   `env:"LISTEN_ADDR"`
	AllowedOrigins  []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	GoogleCredsFile string   `env:"GOOGLE_CREDENTIALS_FILE"`
}

const envPrefix = "DIVICARDS_"

// applyEnv overlays DIVICARDS_* environment variables.
func (c *Config) applyEnv() error {
	var e envConfig
	if err := env.ParseWithOptions(&e, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	c.apply(fileConfig{
		AppName:         e.AppName,
		AppVersion:      e.AppVersion,
		ContactEmail:    e.ContactEmail,
		AccessToken:     e.AccessToken,
		APIURL:          e.APIURL,
		PricesURL:       e.PricesURL,
		ReferenceLeague: e.ReferenceLeague,
		DefaultLeague:   e.DefaultLeague,
		DBPath:          e.DBPath,
		ListenAddr:      e.ListenAddr,
		AllowedOrigins:  e.AllowedOrigins,
		GoogleCredsFile: e.GoogleCredsFile,
	})
	return nil
}

// loadDotEnv loads the first existing .env file. Variables already present
// in the process environment win.
func loadDotEnv(log *logger.Logger, paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			log.Warn("Failed to load .env file", "path", p, "error", err.Error())
			continue
		}
		log.Debug("Loaded environment file", "path", p)
		return
	}
}
