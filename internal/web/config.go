package web

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the gateway's settings, read from the environment with
// DUELCORE_-prefixed variables. Flags on the command line override it.
type Config struct {
	Host     string `env:"HOST" envDefault:""`
	Port     int    `env:"PORT" envDefault:"8080"`
	CardFile string `env:"CARDS" envDefault:"cards.yaml"`
	DeckFile string `env:"DECKS" envDefault:"decks.yaml"`
}

// LoadConfig reads the gateway configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "DUELCORE_"}); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
