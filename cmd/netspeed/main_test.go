package main

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/nozo-moto/netspeed/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_TUIDefaultsToCacheFile(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CACHE_HOME only steers os.UserCacheDir on linux")
	}
	cache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cache)

	cfg := config.Default()
	require.Equal(t, config.DisplayTUI, cfg.Display)

	logger, closeLog, err := newLogger(cfg)
	require.NoError(t, err)
	logger.Error("failed to sample counters", "error", "counter file vanished")
	closeLog()

	data, err := os.ReadFile(filepath.Join(cache, "netspeed", "netspeed.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "failed to sample counters")
	assert.Contains(t, string(data), "counter file vanished")
}

func TestNewLogger_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	cfg := config.Default()
	cfg.Display = config.DisplayPlain
	cfg.LogFile = path
	cfg.LogLevel = "debug"

	logger, closeLog, err := newLogger(cfg)
	require.NoError(t, err)
	logger.Debug("sampled counters")
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sampled counters")
}

func TestNewLogger_BadFile(t *testing.T) {
	cfg := config.Default()
	cfg.LogFile = filepath.Join(t.TempDir(), "missing", "out.log")

	_, _, err := newLogger(cfg)
	assert.Error(t, err)
}
