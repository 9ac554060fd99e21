// Package config loads runtime configuration for the Bloqedex CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables with the BLOQEDEX_ prefix (a .env file in the
//     working directory is loaded first if present).
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the backend REST API
//	-d string   path to the local SQLite database
//	-i int      connectivity check interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://127.0.0.1:8080",
//	  "database_path": "bloqedex.db",
//	  "request_timeout": "10s",
//	  "health_timeout": "2s",
//	  "sync_interval": "30s",
//	  "cache_ttl": "5m",
//	  "page_size": 20
//	}
package config
