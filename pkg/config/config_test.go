package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"divicards/pkg/logger"
)

func TestFindConfig_ProvidedFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"contact_email": "me@example.com",
		"reference_league": "Hardcore",
		"allowed_origins": ["https://divicards.example"]
	}`), 0644))

	cfg, err := FindConfig(path, logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, "me@example.com", cfg.ContactEmail())
	assert.Equal(t, "Hardcore", cfg.ReferenceLeague())
	assert.Equal(t, DefaultAPIURL, cfg.APIURL())
	assert.Equal(t, []string{"https://divicards.example"}, cfg.AllowedOrigins())
}

func TestFindConfig_WritesDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := FindConfig("", logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, DefaultReferenceLeague, cfg.ReferenceLeague())

	configDir, err := os.UserConfigDir()
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(configDir, "divicards", "config.json"))
	assert.NoError(t, err)
}

func TestFindConfig_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("DIVICARDS_ACCESS_TOKEN", "secret")
	t.Setenv("DIVICARDS_LEAGUE", "Settlers")
	t.Setenv("DIVICARDS_ALLOWED_ORIGINS", "http://a,http://b")

	cfg, err := FindConfig("", logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.AccessToken())
	assert.Equal(t, "Settlers", cfg.DefaultLeague())
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.AllowedOrigins())
}

func TestFindConfig_InvalidProvidedFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))

	_, err := FindConfig(path, logger.Nop())
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := DefaultConfig(logger.Nop())
	require.NoError(t, err)
	require.NoError(t, cfg.validate())

	cfg.referenceLeague = ""
	assert.Error(t, cfg.validate())
}
