// Package config handles configuration for the chat client: defaults,
// an optional JSON file, and command-line flags.
package config

import "time"

// Config holds runtime settings for the my-umkm CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the backend HTTP API.
//   - DatabaseDSN: path to the local sqlite session database.
//   - RequestTimeout: per-request timeout for API calls.
//   - SessionPollInterval: how often the session watcher re-reads the
//     local store to pick up changes made by other client contexts.
type Config struct {
	ServerEndpointAddr  string
	DatabaseDSN         string
	RequestTimeout      time.Duration
	SessionPollInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.DatabaseDSN = "session.db"
	c.RequestTimeout = 10 * time.Second
	c.SessionPollInterval = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
