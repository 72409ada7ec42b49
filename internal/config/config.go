// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

// Package config loads layered configuration: defaults, then an
// optional YAML file, then CINESCOPE_* environment variables, then
// command-line flags. Later layers win.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/cinescope/cinescope/internal/auth"
)

// envPrefix namespaces the environment variables this process reads.
// DATABASE_URL is additionally honored without the prefix.
const envPrefix = "CINESCOPE_"

// Config is the resolved process configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	OMDb     OMDbConfig
	Log      LogConfig
}

// ServerConfig configures the HTTP listeners.
type ServerConfig struct {
	Addr    string // API listen address
	Metrics string // metrics/health listen address (empty = disabled)
}

// DatabaseConfig configures PostgreSQL connectivity.
type DatabaseConfig struct {
	URL string
}

// AuthConfig configures the authentication core.
type AuthConfig struct {
	Secret string            // token signing secret, required
	TTL    time.Duration     // session token validity window
	Argon2 auth.Argon2Params // password hashing work factor
}

// OMDbConfig configures the movie-data upstream.
type OMDbConfig struct {
	Key string
	URL string
}

// LogConfig configures structured logging.
type LogConfig struct {
	Format string // "json" or "text"
}

// Load resolves the configuration. configFile may be empty; flags may
// be nil when the caller has no flag overrides.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]any{
		"server.addr":    ":5000",
		"server.metrics": "127.0.0.1:9100",
		"database.url":   "",
		"auth.secret":    "",
		"auth.ttl":       "24h",
		"argon2.time":    int(auth.DefaultArgon2Params.Time),
		"argon2.memory":  int(auth.DefaultArgon2Params.Memory),
		"argon2.threads": int(auth.DefaultArgon2Params.Threads),
		"omdb.key":       "",
		"omdb.url":       "https://www.omdbapi.com/",
		"log.format":     "json",
	}
	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return nil, oops.Code("CONFIG_INVALID").With("key", key).Wrap(err)
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("file", configFile).
				Wrap(err)
		}
	}

	// CINESCOPE_AUTH_SECRET -> auth.secret; every key segment is a single
	// word so the underscore maps cleanly to the delimiter.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("layer", "env").Wrap(err)
	}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		if err := k.Set("database.url", dsn); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("layer", "env").Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("layer", "flags").Wrap(err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:    k.String("server.addr"),
			Metrics: k.String("server.metrics"),
		},
		Database: DatabaseConfig{
			URL: k.String("database.url"),
		},
		Auth: AuthConfig{
			Secret: k.String("auth.secret"),
			TTL:    k.Duration("auth.ttl"),
			Argon2: auth.Argon2Params{
				Time:    uint32(k.Int("argon2.time")),
				Memory:  uint32(k.Int("argon2.memory")),
				Threads: uint8(k.Int("argon2.threads")),
			},
		},
		OMDb: OMDbConfig{
			Key: k.String("omdb.key"),
			URL: k.String("omdb.url"),
		},
		Log: LogConfig{
			Format: k.String("log.format"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants the rest of the process relies on.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("server.addr is required")
	}
	if c.Auth.Secret == "" {
		return oops.Code("CONFIG_INVALID").Errorf("auth.secret is required (set CINESCOPE_AUTH_SECRET)")
	}
	if c.Auth.TTL <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("auth.ttl must be positive")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log.format must be 'json' or 'text', got %q", c.Log.Format)
	}
	return nil
}
