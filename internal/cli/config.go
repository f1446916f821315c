package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds defaults read from the environment. Flags override them.
type Config struct {
	Database string `env:"DOOMHOST_DB"`
	Script   string `env:"DOOMHOST_SCRIPT"`
	TicRate  int    `env:"DOOMHOST_TIC_RATE" envDefault:"35"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.TicRate < 0 {
		return Config{}, fmt.Errorf("parse env: DOOMHOST_TIC_RATE must be non-negative, got %d", cfg.TicRate)
	}
	return cfg, nil
}
