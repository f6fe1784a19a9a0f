// Package logger provides leveled printf-style logging backed by
// zerolog's global logger.
package logger

import "github.com/rs/zerolog/log"

func Debug(format string, args ...interface{}) {
	log.Debug().Msgf(format, args...)
}

func Info(format string, args ...interface{}) {
	log.Info().Msgf(format, args...)
}

func Warn(format string, args ...interface{}) {
	log.Warn().Msgf(format, args...)
}

func Error(format string, args ...interface{}) {
	log.Error().Msgf(format, args...)
}
