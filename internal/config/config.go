// Package config resolves CLI flags and environment variables into runtime
// settings shared by cmd/ugit and cmd/ugitd, following the
// flag-with-env-fallback pattern used throughout the rest of the CLI.
package config

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ugit-vcs/ugit/internal/termcolor"
)

// Config holds resolved settings for a ugit invocation.
type Config struct {
	RepoPath  string
	Color     termcolor.ColorMode
	WatchHost string
	WatchPort string
	LogLevel  slog.Level
	LogFormat string
}

// getEnv returns the value of the named environment variable, or fallback
// if it is unset or empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// RegisterFlags binds flags to fs, seeded from UGIT_* environment variables,
// and returns a function that resolves the final Config once fs.Parse has
// been called.
func RegisterFlags(fs *flag.FlagSet) func() (Config, error) {
	repoPath := fs.String("repo", getEnv("UGIT_REPO", "."), "Path to the repository")
	colorFlag := fs.String("color", getEnv("UGIT_COLOR", "auto"), "Color output: auto, always, never")
	host := fs.String("host", getEnv("UGIT_WATCH_HOST", ""), "Watch server bind host (empty = all interfaces)")
	port := fs.String("port", getEnv("UGIT_WATCH_PORT", "7417"), "Watch server port")
	logLevel := fs.String("log-level", getEnv("UGIT_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	logFormat := fs.String("log-format", getEnv("UGIT_LOG_FORMAT", "text"), "Log format: text, json")

	return func() (Config, error) {
		mode, err := termcolor.ParseColorMode(*colorFlag)
		if err != nil {
			return Config{}, fmt.Errorf("resolve color flag: %w", err)
		}

		var level slog.Level
		switch *logLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		if *logFormat != "text" && *logFormat != "json" {
			return Config{}, fmt.Errorf("log-format %q is not valid; must be text or json", *logFormat)
		}

		return Config{
			RepoPath:  *repoPath,
			Color:     mode,
			WatchHost: *host,
			WatchPort: *port,
			LogLevel:  level,
			LogFormat: *logFormat,
		}, nil
	}
}

// InitLogger installs a slog default logger matching cfg's level and format,
// writing to stderr so stdout stays reserved for command output.
func InitLogger(cfg Config) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
