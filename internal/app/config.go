package app

import (
	"errors"

	"github.com/vk/scalgrid/internal/config"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	config.Model

	LogFormat  string
	LogLevel   string
	StatusPort int
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	if err := cfg.Model.Validate(); err != nil {
		return nil, err
	}

	if err := checkFormat(cfg.LogFormat); err != nil {
		return nil, err
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if cfg.StatusPort < 0 || cfg.StatusPort > 65535 {
		return nil, errors.New("status-port must be between 0 and 65535")
	}

	return &cfg, nil
}
