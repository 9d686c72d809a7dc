// Package config provides configuration management for the chparse CLI.
package config

import (
	"context"
	"log/slog"
)

// Config holds all CLI configuration options.
type Config struct {
	StatePath string      `koanf:"state_path"`
	Verbose   bool        `koanf:"verbose"`
	Trace     bool        `koanf:"trace"`
	Output    string      `koanf:"output"`
	Watch     WatchConfig `koanf:"watch"`
}

// WatchConfig holds settings for the watch command.
type WatchConfig struct {
	DebounceMillis int `koanf:"debounce_millis"`
}

// Default configuration values.
const (
	DefaultStateFile      = ".chparse/state.db"
	DefaultOutput         = "text"
	DefaultDebounceMillis = 250
)

// loggerKey is used to store the logger in context. Shared with the cli
// package via LoggerKey so the commands package can retrieve the logger
// without an import cycle.
type loggerKey struct{}

// LoggerKey returns the context key used for storing the logger.
func LoggerKey() any {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
