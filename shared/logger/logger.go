package logger

import (
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

type loggerConfig struct {
	Level  string `env:"LOG_LEVEL"  envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// NewLogger creates the process logger for the named service. LOG_LEVEL and
// LOG_FORMAT ("json" or "console") are read from the environment.
func NewLogger(service string) *zerolog.Logger {
	cfg, err := env.ParseAs[loggerConfig]()
	if err != nil {
		cfg = loggerConfig{Level: "info", Format: "json"}
	}

	return newLogger(os.Stdout, service, cfg)
}

func newLogger(out io.Writer, service string, cfg loggerConfig) *zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger()

	return &logger
}
