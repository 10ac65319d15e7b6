// Package logging configures the process-wide structured logger. Console
// output is always on; file output goes through lumberjack rotation when a
// path is configured.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects log destinations and verbosity.
type Config struct {
	Level    string `yaml:"level"`
	FilePath string `yaml:"file_path"`
}

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// Initialize replaces the default logger according to config.
func Initialize(cfg Config) {
	var out io.Writer = os.Stderr
	if cfg.FilePath != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}
	logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "DEBUG", "debug":
		return slog.LevelDebug
	case "WARN", "warn", "WARNING", "warning":
		return slog.LevelWarn
	case "ERROR", "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	logger.Debug(msg, args...)
}

// Info logs an info message.
func Info(msg string, args ...any) {
	logger.Info(msg, args...)
}

// Warning logs a warning message.
func Warning(msg string, args ...any) {
	logger.Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	logger.Error(msg, args...)
}
