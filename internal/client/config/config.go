package config

import "time"

// Config holds runtime settings for the Bloqedex CLI.
type Config struct {
	// ServerBaseURL is the root of the backend REST API, without a trailing
	// slash.
	ServerBaseURL string

	// DatabasePath is the SQLite file holding the local store.
	DatabasePath string

	// RequestTimeout bounds regular API calls; HealthTimeout bounds the
	// connectivity probe and should be much shorter.
	RequestTimeout time.Duration
	HealthTimeout  time.Duration

	// SyncInterval is how often connectivity is re-checked and, while
	// online, queued actions are replayed.
	SyncInterval time.Duration

	// CacheTTL is how long catalog responses stay fresh in memory.
	CacheTTL time.Duration

	// PageSize is the default page size for listings.
	PageSize int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.DatabasePath = "bloqedex.db"
	c.RequestTimeout = 10 * time.Second
	c.HealthTimeout = 2 * time.Second
	c.SyncInterval = 30 * time.Second
	c.CacheTTL = 5 * time.Minute
	c.PageSize = 20
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), environment variables, and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
