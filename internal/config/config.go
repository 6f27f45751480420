// Package config sets up the logging of the application.
package config

import (
	"github.com/retroenv/asmgen/internal/generator"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger that logs debug messages in debug mode and
// only errors in quiet mode.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	switch {
	case debug:
		cfg.Level = log.DebugLevel
	case quiet:
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// ProgressLogger returns a progress function that logs the generation
// progress of an assembler at debug level.
func ProgressLogger(logger *log.Logger, assemblerName string) generator.ProgressFunc {
	return func(percent int) {
		logger.Debug("Generating source",
			log.String("assembler", assemblerName),
			log.Int("progress", percent))
	}
}
