package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Interval.Duration)
	assert.Equal(t, "/proc/net/dev", cfg.CounterFile)
	assert.Equal(t, DisplayTUI, cfg.Display)
	assert.Equal(t, SourceAuto, cfg.Source)
	assert.False(t, cfg.ClampNegative)
	assert.Empty(t, cfg.HTTP.ListenAddr)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
interval: 1500ms
counter_file: /tmp/dev
source: psutil
virtual_prefixes: [cni, flannel]
clamp_negative: true
display: plain
http:
  listen_addr: 127.0.0.1:9100
systemd:
  notify: true
log_level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 1500*time.Millisecond, cfg.Interval.Duration)
	assert.Equal(t, "/tmp/dev", cfg.CounterFile)
	assert.Equal(t, SourcePsutil, cfg.Source)
	assert.Equal(t, []string{"cni", "flannel"}, cfg.VirtualPrefixes)
	assert.True(t, cfg.ClampNegative)
	assert.Equal(t, DisplayPlain, cfg.Display)
	assert.Equal(t, "127.0.0.1:9100", cfg.HTTP.ListenAddr)
	assert.True(t, cfg.Systemd.Notify)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadConfig_PartialKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "display: plain\n"))
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Interval.Duration)
	assert.Equal(t, DisplayPlain, cfg.Display)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"zero interval":     "interval: 0s\n",
		"negative interval": "interval: -1s\n",
		"bad duration":      "interval: soon\n",
		"unknown display":   "display: gtk\n",
		"unknown source":    "source: sysfs\n",
		"bad log level":     "log_level: loud\n",
		"not yaml":          "interval: [\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
