package config

import (
	"encoding/json"
	"os"

	"github.com/joao-paulo-santos/bloqedex/internal/flagx"
	"github.com/joao-paulo-santos/bloqedex/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so intervals can be strings like "3s" or integer
// nanoseconds. Parsed values are copied into the runtime Config.
type JsonConfig struct {
	ServerBaseURL  *string         `json:"server_base_url"`
	DatabasePath   *string         `json:"database_path"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	HealthTimeout  *timex.Duration `json:"health_timeout"`
	SyncInterval   *timex.Duration `json:"sync_interval"`
	CacheTTL       *timex.Duration `json:"cache_ttl"`
	PageSize       *int            `json:"page_size"`
}

// parseJson overlays Config with values from the JSON file named by the
// -c/-config flag. Absent file path means no JSON layer; absent keys leave
// the current value in place. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != nil {
		cfg.ServerBaseURL = *jc.ServerBaseURL
	}
	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Std()
	}
	if jc.HealthTimeout != nil {
		cfg.HealthTimeout = jc.HealthTimeout.Std()
	}
	if jc.SyncInterval != nil {
		cfg.SyncInterval = jc.SyncInterval.Std()
	}
	if jc.CacheTTL != nil {
		cfg.CacheTTL = jc.CacheTTL.Std()
	}
	if jc.PageSize != nil {
		cfg.PageSize = *jc.PageSize
	}
}
