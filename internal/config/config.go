package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Store backends selectable via store.backend.
const (
	BackendJSON = "json"
	BackendBolt = "bolt"
)

// Config holds the runtime configuration for the catalog server and CLI.
type Config struct {
	// Port the HTTP server listens on.
	Port int

	// StoreBackend selects the persistence adapter: "json" or "bolt".
	StoreBackend string

	// StorePath is the store location: a directory for the JSON backend,
	// a database file for the bolt backend.
	StorePath string

	// UploadsDir is where decoded image payloads are written.
	UploadsDir string

	// LegacyEmptyList makes GET /api/vehicles answer 200 with an empty
	// array on store failure instead of a 500, matching the historical
	// behaviour. Off by default.
	LegacyEmptyList bool
}

// Load reads configuration from an optional config file and CATALOG_*
// environment variables, falling back to defaults. An empty path means
// "catalog.yaml in the working directory, if present".
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("store.backend", BackendJSON)
	v.SetDefault("store.path", "data/vehicles")
	v.SetDefault("uploads.dir", "uploads")
	v.SetDefault("api.legacy_empty_list", false)

	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	} else {
		v.SetConfigName("catalog")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// The default config file is optional.
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{
		Port:            v.GetInt("server.port"),
		StoreBackend:    v.GetString("store.backend"),
		StorePath:       v.GetString("store.path"),
		UploadsDir:      v.GetString("uploads.dir"),
		LegacyEmptyList: v.GetBool("api.legacy_empty_list"),
	}

	if cfg.StoreBackend != BackendJSON && cfg.StoreBackend != BackendBolt {
		return nil, fmt.Errorf("unknown store backend %q (want %q or %q)", cfg.StoreBackend, BackendJSON, BackendBolt)
	}
	return cfg, nil
}
