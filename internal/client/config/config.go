// Package config loads the command-line client's settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the client settings.
type Config struct {
	APIURL      string        `env:"MOVIE_REVIEW_API_URL" envDefault:"http://localhost:8080"`
	TokenFile   string        `env:"MOVIE_REVIEW_TOKEN_FILE"`
	HTTPTimeout time.Duration `env:"MOVIE_REVIEW_HTTP_TIMEOUT" envDefault:"10s"`
	Debug       bool          `env:"MOVIE_REVIEW_DEBUG" envDefault:"false"`
}

// Load reads Config from the environment. An unset token file defaults to
// movie-review/token under the user's configuration directory.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("MOVIE_REVIEW_HTTP_TIMEOUT must be positive, got %s", cfg.HTTPTimeout)
	}
	if cfg.TokenFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("locate config directory: %w", err)
		}
		cfg.TokenFile = filepath.Join(dir, "movie-review", "token")
	}
	return cfg, nil
}
