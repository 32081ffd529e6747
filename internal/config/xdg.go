package config

import (
	"log/slog"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appDir = "wavescrub"

// XDGInterface locates configuration and cache files.
type XDGInterface interface {
	GetConfigPaths(filename string) []string
	GetCachePath(purpose string) string
}

// XDGDirs provides XDG Base Directory compliant paths.
type XDGDirs struct{}

// NewXDGDirs creates a new XDG directory manager
func NewXDGDirs() *XDGDirs {
	return &XDGDirs{}
}

// GetConfigPaths returns candidate config file paths in search order:
// user config dir, then system config dirs.
func (x *XDGDirs) GetConfigPaths(filename string) []string {
	paths := []string{filepath.Join(xdg.ConfigHome, appDir, filename)}
	for _, dir := range xdg.ConfigDirs {
		paths = append(paths, filepath.Join(dir, appDir, filename))
	}

	slog.Debug("generated config paths", "filename", filename, "total_paths", len(paths))
	return paths
}

// GetCachePath returns the cache directory for purpose.
func (x *XDGDirs) GetCachePath(purpose string) string {
	return filepath.Join(xdg.CacheHome, appDir, purpose)
}
