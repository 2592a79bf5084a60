package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/countrynames.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"web"`

	// RedisURL enables the leaderboard cache when set; empty disables it.
	RedisURL string `env:"REDIS_URL"`

	// SessionTimeLimit is the classic/flags/capitals countdown in seconds.
	SessionTimeLimit int `env:"SESSION_TIME_LIMIT" envDefault:"300"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.SessionTimeLimit <= 0 {
		return nil, fmt.Errorf("SESSION_TIME_LIMIT must be positive, got %d", cfg.SessionTimeLimit)
	}
	return &cfg, nil
}
