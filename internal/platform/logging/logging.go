package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds the service logger. LOG_FORMAT=console switches to the
// human-readable writer for local runs; the default is JSON.
func New(service, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var out = os.Stdout
	zerolog.TimeFieldFormat = time.RFC3339Nano

	logger := zerolog.New(out).With().
		Timestamp().
		Str("service", service).
		Logger().
		Level(lvl)

	if os.Getenv("LOG_FORMAT") == "console" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"})
	}

	return logger
}
