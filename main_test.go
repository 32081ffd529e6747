package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wavescrub/internal/config"
)

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCommand()

	assert.Equal(t, Version, cmd.Version)
	assert.NotNil(t, cmd.Flags().Lookup("config"))
	assert.NotNil(t, cmd.Flags().Lookup("log-level"))
	assert.Error(t, cmd.Args(cmd, []string{"a.wav", "b.wav"}))
	assert.NoError(t, cmd.Args(cmd, []string{"a.wav"}))
}

func TestLoadConfigFromFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tick_hz": 40}`), 0644))

	cmd := newRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--log-level", "debug"}))

	cfg, err := loadConfig(cmd, config.NewConfigManager())
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.TickHz)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigRejectsBadLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

	cmd := newRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--log-level", "shouty"}))

	_, err := loadConfig(cmd, config.NewConfigManager())
	assert.ErrorContains(t, err, "invalid configuration")
}
