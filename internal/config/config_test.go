package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.API.Host)
	assert.Equal(t, 8053, cfg.API.Port)
	assert.Equal(t, 10*time.Second, cfg.Lookup.Timeout)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.False(t, cfg.History.Enabled)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "osdnsd.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"api": {"host": "0.0.0.0", "port": 9000, "api_key": "k"},
		"lookup": {"workers": 4, "api_timeout": "2s"},
		"history": {"enabled": true},
		"logging": {"level": "debug", "json": true}
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.API.Host)
	assert.Equal(t, 9000, cfg.API.Port)
	assert.Equal(t, "k", cfg.API.APIKey)
	assert.Equal(t, 4, cfg.Lookup.Workers)
	assert.Equal(t, 2*time.Second, cfg.Lookup.Timeout)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON)

	// Enabling history fills in its defaults.
	assert.Equal(t, "osdns-history.db", cfg.History.Path)
	assert.Equal(t, 10000, cfg.History.MaxEntries)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad json", `{"api":`},
		{"bad port", `{"api": {"port": 99999}}`},
		{"bad timeout", `{"lookup": {"api_timeout": "soon"}}`},
		{"negative workers", `{"lookup": {"workers": -1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "osdnsd.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("OSDNS_CONFIG", "/etc/osdnsd.json")
	assert.Equal(t, "/tmp/override.json", ResolveConfigPath("/tmp/override.json"))
	assert.Equal(t, "/etc/osdnsd.json", ResolveConfigPath(""))

	t.Setenv("OSDNS_CONFIG", "")
	assert.Equal(t, "", ResolveConfigPath("  "))
}
