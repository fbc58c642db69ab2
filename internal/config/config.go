// Package config handles emulator configuration and logger setup
package config

import (
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates the emulator logger. Debug mode enables the
// per-cycle instruction trace and takes precedence over quiet mode,
// which limits output to errors.
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
