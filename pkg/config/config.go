package config

import "fmt"

// Config holds the application configuration.
type Config struct {
	// Configurable via JSON file and environment (private to keep it read-only)
	appName         string
	appVersion      string
	contactEmail    string
	accessToken     string
	apiURL          string
	pricesURL       string
	referenceLeague string
	defaultLeague   string
	dbPath          string
	listenAddr      string
	allowedOrigins  []string
	googleCredsFile string
}

// fileConfig is the on-disk JSON shape.
type fileConfig struct {
	AppName         string   `json:"app_name"`
	AppVersion      string   `json:"app_version"`
	ContactEmail    string   `json:"contact_email"`
	AccessToken     string   `json:"access_token,omitempty"`
	APIURL          string   `json:"api_url"`
	PricesURL       string   `json:"prices_url"`
	ReferenceLeague string   `json:"reference_league"`
	DefaultLeague   string   `json:"default_league"`
	DBPath          string   `json:"db_path"`
	ListenAddr      string   `json:"listen_addr"`
	AllowedOrigins  []string `json:"allowed_origins"`
	GoogleCredsFile string   `json:"google_credentials_file,omitempty"`
}

func (c *Config) AppName() string         { return c.appName }
func (c *Config) AppVersion() string      { return c.appVersion }
func (c *Config) ContactEmail() string    { return c.contactEmail }
func (c *Config) AccessToken() string     { return c.accessToken }
func (c *Config) APIURL() string          { return c.apiURL }
func (c *Config) PricesURL() string       { return c.pricesURL }
func (c *Config) ReferenceLeague() string { return c.referenceLeague }
func (c *Config) DefaultLeague() string   { return c.defaultLeague }
func (c *Config) DBPath() string          { return c.dbPath }
func (c *Config) ListenAddr() string      { return c.listenAddr }
func (c *Config) GoogleCredsFile() string { return c.googleCredsFile }

// AllowedOrigins returns a copy of the CORS origins.
func (c *Config) AllowedOrigins() []string {
	return append([]string{}, c.allowedOrigins...)
}

// validate checks the fields every command depends on.
func (c *Config) validate() error {
	if c.appName == "" || c.appVersion == "" {
		return fmt.Errorf("app_name and app_version are required")
	}
	if c.apiURL == "" || c.pricesURL == "" {
		return fmt.Errorf("api_url and prices_url are required")
	}
	if c.referenceLeague == "" {
		return fmt.Errorf("reference_league must not be empty")
	}
	return nil
}

func (c *Config) toFile() fileConfig {
	return fileConfig{
		AppName:         c.appName,
		AppVersion:      c.appVersion,
		ContactEmail:    c.contactEmail,
		AccessToken:     c.accessToken,
		APIURL:          c.apiURL,
		PricesURL:       c.pricesURL,
		ReferenceLeague: c.referenceLeague,
		DefaultLeague:   c.defaultLeague,
		DBPath:          c.dbPath,
		ListenAddr:      c.listenAddr,
		AllowedOrigins:  c.allowedOrigins,
		GoogleCredsFile: c.googleCredsFile,
	}
}

// apply copies every non-empty field of f over c.
func (c *Config) apply(f fileConfig) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.appName, f.AppName)
	set(&c.appVersion, f.AppVersion)
	set(&c.contactEmail, f.ContactEmail)
	set(&c.accessToken, f.AccessToken)
	set(&c.apiURL, f.APIURL)
	set(&c.pricesURL, f.PricesURL)
	set(&c.referenceLeague, f.ReferenceLeague)
	set(&c.defaultLeague, f.DefaultLeague)
	set(&c.dbPath, f.DBPath)
	set(&c.listenAddr, f.ListenAddr)
	set(&c.googleCredsFile, f.GoogleCredsFile)
	if len(f.AllowedOrigins) > 0 {
		c.allowedOrigins = append([]string{}, f.AllowedOrigins...)
	}
}
