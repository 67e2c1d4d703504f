package config

import "time"

// Config holds runtime settings for the FitSync client.
//
// Fields:
//   - ServerBaseURL: base URL of the backend REST API.
//   - DatabasePath: path of the local SQLite database file.
//   - RequestTimeout: upper bound on any single network call.
//   - SyncInterval: how often the opportunistic sync trigger fires.
//   - MetricsAddress: listen address for the Prometheus /metrics endpoint;
//     empty disables it.
type Config struct {
	ServerBaseURL  string
	DatabasePath   string
	RequestTimeout time.Duration
	SyncInterval   time.Duration
	MetricsAddress string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.DatabasePath = "fitsync.db"
	c.RequestTimeout = 10 * time.Second
	c.SyncInterval = 30 * time.Second
	c.MetricsAddress = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
