// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"wavescrub/internal/config"
)

// ParseLevel converts a config log level to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelWarn, fmt.Errorf("invalid log level '%s', must be one of: debug, info, warn, error", level)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup installs the default logger: stderr at the configured level plus,
// when enabled, a rotating log file that records everything from debug up
// along with the source line of each call.
// The returned closer releases the log file.
func Setup(cfg *config.Config, logFilePath string, stderr io.Writer) (io.Closer, error) {
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return nopCloser{}, err
	}

	sinks := []Sink{{
		Name:    "stderr",
		Handler: slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}),
		Level:   level,
	}}
	var closer io.Closer = nopCloser{}

	if fl := cfg.FileLogging; fl != nil && fl.Enabled {
		if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
			slog.Error("failed to create log directory", "path", logFilePath, "error", err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   logFilePath,
				MaxSize:    fl.MaxSizeMB,
				MaxBackups: fl.MaxBackups,
				MaxAge:     fl.MaxAgeDays,
				Compress:   fl.Compress,
			}
			sinks = append(sinks, Sink{
				Name: "file",
				Handler: slog.NewTextHandler(fileWriter, &slog.HandlerOptions{
					Level:     slog.LevelDebug,
					AddSource: true,
				}),
				Level: slog.LevelDebug,
			})
			closer = fileWriter
		}
	}

	slog.SetDefault(slog.New(NewMultiLevelHandler(sinks...)))
	slog.Debug("logging setup completed",
		"level", level.String(),
		"sinks", len(sinks))
	return closer, nil
}
