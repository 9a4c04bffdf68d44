// Package config loads process configuration from the environment.
package config

import (
	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/rpg-stats/internal/errors"
)

// Log formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Env is the environment read by the CLI
type Env struct {
	LogLevel  string `env:"RPG_STATS_LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"RPG_STATS_LOG_FORMAT" envDefault:"text"`
}

// ParseEnv loads configuration from environment variables into target
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "parse env")
	}
	return nil
}

// Load reads and validates Env
func Load() (*Env, error) {
	cfg := &Env{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the log settings
func (e *Env) Validate() error {
	vb := errors.NewValidationBuilder()

	if _, err := parseLevel(e.LogLevel); err != nil {
		vb.InvalidField("RPG_STATS_LOG_LEVEL", err.Error())
	}
	errors.ValidateEnum("RPG_STATS_LOG_FORMAT", e.LogFormat, []string{LogFormatText, LogFormatJSON}, vb)

	return vb.Build()
}
