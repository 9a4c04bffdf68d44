package config

import (
	"io"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/rpg-stats/internal/errors"
)

// NewLogger builds a slog logger writing to w in the configured format
func (e *Env) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(e.LogLevel)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}

	switch e.LogFormat {
	case LogFormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case LogFormatText, "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, errors.InvalidArgumentf("unknown log format %q", e.LogFormat)
	}
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, errors.InvalidArgumentf("unknown log level %q", name)
	}
	return level, nil
}
