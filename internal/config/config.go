// Package config loads the process configuration from environment
// variables into one explicit struct.
//
// The struct is built exactly once, in main, and handed down through the
// wiring. No package below this one reads the environment — core logic sees
// only the values it was given, which keeps it testable and keeps secrets
// handling in a single place.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the full process configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port int `env:"PORT" envDefault:"3000"`

	// DBPath is the SQLite database file. The parent directory is created
	// at startup if needed.
	DBPath string `env:"DB_PATH" envDefault:"data/taskmaster.db"`

	// JWTSecret signs session tokens. No default on purpose: the process
	// refuses to start without one. Generate with: openssl rand -hex 32
	JWTSecret string `env:"JWT_SECRET"`

	// AllowedOrigins is the CORS allow-list. Browsers on any other origin
	// are refused cross-origin access.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"https://task-master-rose-three.vercel.app,http://localhost:3000"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}
	return cfg, nil
}
