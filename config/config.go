// Package config loads host settings from MTG_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/tardis-games/errors"
)

// Config holds the settings of the mtg command.
type Config struct {
	// GamesDir is scanned for *.wasm and *.wasm.gz games.
	GamesDir string `env:"MTG_GAMES_DIR" envDefault:"games"`

	// Store is the sqlite database for persistent data. Empty keeps data
	// in memory.
	Store string `env:"MTG_STORE"`

	Tick     time.Duration `env:"MTG_TICK" envDefault:"50ms"`
	LogLevel zapcore.Level `env:"MTG_LOG_LEVEL" envDefault:"info"`
	LogFile  string        `env:"MTG_LOG_FILE"`

	Width  int `env:"MTG_CANVAS_WIDTH" envDefault:"128"`
	Height int `env:"MTG_CANVAS_HEIGHT" envDefault:"96"`

	Seed uint64 `env:"MTG_SEED"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the configuration from the given variables instead of the
// process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	var c Config
	if err := env.ParseWithOptions(&c, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Tick <= 0:
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("MTG_TICK must be positive, got %s", c.Tick))
	case c.Width <= 0 || c.Height <= 0:
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("canvas size %dx%d must be positive", c.Width, c.Height))
	case c.GamesDir == "":
		return errors.InvalidInput(errors.PhaseConfig, "MTG_GAMES_DIR is empty")
	}
	return nil
}
