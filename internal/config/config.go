package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// FileLoggingConfig represents file-based logging configuration
type FileLoggingConfig struct {
	Enabled    bool   `json:"enabled"`      // Whether file logging is enabled
	Filename   string `json:"filename"`     // Log file path (empty = XDG cache path)
	MaxSizeMB  int    `json:"max_size_mb"`  // Max file size in MB before rotation
	MaxBackups int    `json:"max_backups"`  // Max number of backup files to keep
	MaxAgeDays int    `json:"max_age_days"` // Max age in days before deletion
	Compress   bool   `json:"compress"`     // Whether to compress rotated files
}

// Config represents wavescrub configuration
type Config struct {
	LogLevel          string             `json:"log_level"`           // debug, info, warn, error
	TickHz            int                `json:"tick_hz"`             // Playhead refresh rate
	InitialScale      float64            `json:"initial_scale"`       // Milliseconds per pixel on load, >= 1
	SpeakerSampleRate int                `json:"speaker_sample_rate"` // Output device rate in Hz
	SpeakerBufferMs   int                `json:"speaker_buffer_ms"`   // Output device buffer
	ResampleQuality   int                `json:"resample_quality"`    // 1-64
	FileLogging       *FileLoggingConfig `json:"file_logging,omitempty"`
}

// SpeakerBuffer returns the speaker buffer length as a duration.
func (c *Config) SpeakerBuffer() time.Duration {
	return time.Duration(c.SpeakerBufferMs) * time.Millisecond
}

// ConfigManager handles loading and validating configuration
type ConfigManager struct {
	fs  afero.Fs
	xdg XDGInterface
}

// NewConfigManager creates a configuration manager on the OS filesystem
func NewConfigManager() *ConfigManager {
	return NewConfigManagerWithFilesystem(afero.NewOsFs())
}

// NewConfigManagerWithFilesystem creates a configuration manager on fs
func NewConfigManagerWithFilesystem(fs afero.Fs) *ConfigManager {
	slog.Debug("creating new config manager")
	return &ConfigManager{fs: fs, xdg: NewXDGDirs()}
}

// GetDefaultConfig returns the default configuration
func (cm *ConfigManager) GetDefaultConfig() *Config {
	return &Config{
		LogLevel:          "warn",
		TickHz:            25,
		InitialScale:      16,
		SpeakerSampleRate: 44100,
		SpeakerBufferMs:   100,
		ResampleQuality:   4,
		FileLogging: &FileLoggingConfig{
			Enabled:    false,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 30,
			Compress:   true,
		},
	}
}

// LoadFromFile loads configuration from a specific file. Missing fields
// keep their defaults.
func (cm *ConfigManager) LoadFromFile(filePath string) (*Config, error) {
	slog.Debug("loading config from file", "file_path", filePath)

	data, err := afero.ReadFile(cm.fs, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := cm.GetDefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		slog.Error("failed to parse config JSON", "file_path", filePath, "error", err)
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cm.ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	slog.Debug("config loaded successfully", "file_path", filePath)
	return config, nil
}

// LoadConfig loads the first config file found on the XDG search path,
// or the defaults when there is none.
func (cm *ConfigManager) LoadConfig() (*Config, error) {
	for _, configPath := range cm.xdg.GetConfigPaths("config.json") {
		if _, err := cm.fs.Stat(configPath); err == nil {
			slog.Debug("found config file", "path", configPath)
			return cm.LoadFromFile(configPath)
		}
	}

	slog.Debug("no config file found, using defaults")
	return cm.GetDefaultConfig(), nil
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// ValidateConfig validates configuration values
func (cm *ConfigManager) ValidateConfig(config *Config) error {
	var errors []string

	if config.LogLevel != "" && !isValidLogLevel(config.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s', must be one of: %s",
			config.LogLevel, strings.Join(validLogLevels, ", ")))
	}
	if config.TickHz < 1 || config.TickHz > 240 {
		errors = append(errors, fmt.Sprintf("tick_hz must be between 1 and 240, got %d", config.TickHz))
	}
	if config.InitialScale < 1 {
		errors = append(errors, fmt.Sprintf("initial_scale must be >= 1, got %g", config.InitialScale))
	}
	if config.SpeakerSampleRate <= 0 {
		errors = append(errors, fmt.Sprintf("speaker_sample_rate must be positive, got %d", config.SpeakerSampleRate))
	}
	if config.SpeakerBufferMs <= 0 {
		errors = append(errors, fmt.Sprintf("speaker_buffer_ms must be positive, got %d", config.SpeakerBufferMs))
	}
	if config.ResampleQuality < 1 || config.ResampleQuality > 64 {
		errors = append(errors, fmt.Sprintf("resample_quality must be between 1 and 64, got %d", config.ResampleQuality))
	}

	if fl := config.FileLogging; fl != nil {
		if fl.MaxSizeMB < 0 {
			errors = append(errors, fmt.Sprintf("file logging max_size_mb must be >= 0, got %d", fl.MaxSizeMB))
		}
		if fl.MaxBackups < 0 {
			errors = append(errors, fmt.Sprintf("file logging max_backups must be >= 0, got %d", fl.MaxBackups))
		}
		if fl.MaxAgeDays < 0 {
			errors = append(errors, fmt.Sprintf("file logging max_age_days must be >= 0, got %d", fl.MaxAgeDays))
		}
	}

	if len(errors) > 0 {
		errMsg := strings.Join(errors, "; ")
		slog.Error("config validation failed", "errors", errMsg)
		return fmt.Errorf("config validation failed: %s", errMsg)
	}
	return nil
}

func isValidLogLevel(level string) bool {
	for _, l := range validLogLevels {
		if strings.EqualFold(level, l) {
			return true
		}
	}
	return false
}

// ApplyEnvironmentOverrides applies WAVESCRUB_* environment variables to a
// copy of config. Unparseable values are logged and ignored.
func (cm *ConfigManager) ApplyEnvironmentOverrides(config *Config) *Config {
	result := *config

	if level := os.Getenv("WAVESCRUB_LOG_LEVEL"); level != "" {
		result.LogLevel = level
		slog.Debug("applied log level override from environment", "value", level)
	}

	if hzStr := os.Getenv("WAVESCRUB_TICK_HZ"); hzStr != "" {
		if hz, err := strconv.Atoi(hzStr); err == nil {
			result.TickHz = hz
		} else {
			slog.Warn("invalid WAVESCRUB_TICK_HZ environment variable", "value", hzStr, "error", err)
		}
	}

	if scaleStr := os.Getenv("WAVESCRUB_INITIAL_SCALE"); scaleStr != "" {
		if scale, err := strconv.ParseFloat(scaleStr, 64); err == nil {
			result.InitialScale = scale
		} else {
			slog.Warn("invalid WAVESCRUB_INITIAL_SCALE environment variable", "value", scaleStr, "error", err)
		}
	}

	return &result
}

// ResolveLogFilePath resolves the log file path, defaulting to the XDG
// cache directory when filename is empty.
func (cm *ConfigManager) ResolveLogFilePath(filename string) string {
	if filename != "" {
		return filename
	}
	return filepath.Join(cm.xdg.GetCachePath("logs"), "wavescrub.log")
}
