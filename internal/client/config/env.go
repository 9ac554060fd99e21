package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// envConfig maps BLOQEDEX_* environment variables. Zero values mean the
// variable was not set and the current value stands.
type envConfig struct {
	ServerBaseURL  string        `envconfig:"SERVER_BASE_URL"`
	DatabasePath   string        `envconfig:"DATABASE_PATH"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT"`
	HealthTimeout  time.Duration `envconfig:"HEALTH_TIMEOUT"`
	SyncInterval   time.Duration `envconfig:"SYNC_INTERVAL"`
	CacheTTL       time.Duration `envconfig:"CACHE_TTL"`
	PageSize       int           `envconfig:"PAGE_SIZE"`
}

// parseEnv overlays Config with environment variables. A .env file in the
// working directory is loaded first; its absence is not an error.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	var ec envConfig
	if err := envconfig.Process("bloqedex", &ec); err != nil {
		panic(err)
	}

	if ec.ServerBaseURL != "" {
		cfg.ServerBaseURL = ec.ServerBaseURL
	}
	if ec.DatabasePath != "" {
		cfg.DatabasePath = ec.DatabasePath
	}
	if ec.RequestTimeout > 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	if ec.HealthTimeout > 0 {
		cfg.HealthTimeout = ec.HealthTimeout
	}
	if ec.SyncInterval > 0 {
		cfg.SyncInterval = ec.SyncInterval
	}
	if ec.CacheTTL > 0 {
		cfg.CacheTTL = ec.CacheTTL
	}
	if ec.PageSize > 0 {
		cfg.PageSize = ec.PageSize
	}
}
