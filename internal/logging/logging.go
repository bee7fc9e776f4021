// Package logging configures the global zerolog logger: human-readable
// console output outside production, JSON in production.
package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Setup(env string, level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout)
	if env != "production" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	log.Logger = logger.Level(parsed).With().Timestamp().Logger()
}
