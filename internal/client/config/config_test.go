package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.ServerEndpointAddr)
	assert.Equal(t, "session.db", c.DatabaseDSN)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 3*time.Second, c.SessionPollInterval)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	os.Args = []string{"client"}
	defer func() { os.Args = origArgs }()

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerEndpointAddr)
	assert.Equal(t, "session.db", cfg.DatabaseDSN)
}

func TestParseJson_PartialOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")

	payload := `{"server_endpoint_addr":"https://api.example.com","request_timeout":"30s"}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	origArgs := os.Args
	os.Args = []string{"client", "-c", path}
	defer func() { os.Args = origArgs }()

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, "https://api.example.com", c.ServerEndpointAddr)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	// untouched fields keep defaults
	assert.Equal(t, "session.db", c.DatabaseDSN)
	assert.Equal(t, 3*time.Second, c.SessionPollInterval)
}

func TestParseFlags_Overrides(t *testing.T) {
	origArgs := os.Args
	os.Args = []string{"client", "-a", "http://10.0.0.5:9090", "-t", "5"}
	defer func() { os.Args = origArgs }()

	var c Config
	c.LoadDefaults()
	parseFlags(&c)

	assert.Equal(t, "http://10.0.0.5:9090", c.ServerEndpointAddr)
	assert.Equal(t, 5*time.Second, c.RequestTimeout)
}
