package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, _baseURLDefault, cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.PrimaryTimeout)
	assert.Equal(t, 10*time.Second, cfg.SecondaryTimeout)
	assert.Equal(t, 240, cfg.RequestsPerMin)
	assert.Equal(t, 90, cfg.TradeHistoryDays)
	assert.Equal(t, 500, cfg.TradePageSize)
	assert.Equal(t, "OneDay", cfg.CandleInterval)
	assert.Equal(t, 90, cfg.CandleCount)
	assert.Equal(t, ".portfolio-sync", cfg.CacheDir)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverridesAndFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"base_url: http://localhost:9000\nprimary_timeout: 5s\ntrade_history_days: 30\n",
	), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.PrimaryTimeout)
	assert.Equal(t, 30, cfg.TradeHistoryDays)
	assert.Equal(t, 10*time.Second, cfg.SecondaryTimeout, "unset fields still default")
	assert.Equal(t, 500, cfg.TradePageSize)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
