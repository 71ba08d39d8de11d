// apps/go-server/config.go
//
// Typed configuration for the Battleship Go server.
// Values come from the environment (a .env file is loaded first in main);
// every field has a development-friendly default.

package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings.
// CORS origin is read directly from CLIENT_ORIGIN by the HTTP middleware.
type Config struct {
	Port     string `env:"PORT" envDefault:"5177"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// ScoreboardPath is the canonical location of the durable scoreboard
	// JSON file, relative to the working directory.
	ScoreboardPath string `env:"SCOREBOARD_PATH" envDefault:"./data/scoreboard.json"`

	// History archive (SQLite). Informational; disable to run without a DB.
	DBPath         string `env:"DB_PATH" envDefault:"./data/app.db"`
	HistoryEnabled bool   `env:"HISTORY_ENABLED" envDefault:"true"`
}

// loadConfig parses the environment into a Config.
func loadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
