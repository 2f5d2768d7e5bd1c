package resolver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConf(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resolv.conf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Full(t *testing.T) {
	path := writeConf(t, `
# Managed by test
nameserver 10.0.0.1
nameserver 10.0.0.2 ; inline comment
search corp.example.com example.com
options ndots:2 timeout:3 attempts:5
`)
	conf, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1:53", "10.0.0.2:53"}, conf.Servers)
	assert.Equal(t, []string{"corp.example.com", "example.com"}, conf.Search)
	assert.Equal(t, 2, conf.NDots)
	assert.Equal(t, 3*time.Second, conf.Timeout)
	assert.Equal(t, 5, conf.Attempts)
}

func TestLoadConfig_NameserverCap(t *testing.T) {
	path := writeConf(t, `
nameserver 10.0.0.1
nameserver 10.0.0.2
nameserver 10.0.0.3
nameserver 10.0.0.4
`)
	conf, err := LoadConfig(path)
	require.NoError(t, err)
	// libresolv only uses the first MAXNS entries.
	assert.Len(t, conf.Servers, 3)
	assert.NotContains(t, conf.Servers, "10.0.0.4:53")
}

func TestLoadConfig_DomainDirective(t *testing.T) {
	path := writeConf(t, "nameserver 10.0.0.1\ndomain example.com\n")
	conf, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com"}, conf.Search)
}

func TestLoadConfig_EmptyFileUsesDefaults(t *testing.T) {
	conf, err := LoadConfig(writeConf(t, ""))
	require.NoError(t, err)
	assert.Equal(t, []string{"127.0.0.1:53"}, conf.Servers)
	assert.Empty(t, conf.Search)
	assert.Equal(t, 1, conf.NDots)
	assert.Equal(t, 5*time.Second, conf.Timeout)
	assert.Equal(t, 2, conf.Attempts)
}

func TestLoadConfig_IgnoresUnknownDirectivesAndBadOptions(t *testing.T) {
	path := writeConf(t, `
nameserver 10.0.0.1
sortlist 130.155.160.0/255.255.240.0
options ndots:abc attempts:0 rotate timeout:7
`)
	conf, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1, conf.NDots, "unparseable ndots keeps the default")
	assert.Equal(t, 2, conf.Attempts, "attempts:0 keeps the default")
	assert.Equal(t, 7*time.Second, conf.Timeout)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.conf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResolverInit)
}
