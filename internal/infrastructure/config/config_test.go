package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	// 在空目錄執行，避免讀到工作目錄的 .env
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "bar-catalog.db", cfg.Database.DSN)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 15*time.Second, cfg.Import.FetchTimeout)
	assert.EqualValues(t, 1<<20, cfg.Import.MaxDocumentBytes)
	assert.Equal(t, time.Second, cfg.DedupWindow)
}

func TestValidateConfigRejectsUnknownDriver(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "oracle", DSN: "x"},
		Import:   ImportConfig{FetchTimeout: time.Second, MaxDocumentBytes: 1},
	}
	assert.Error(t, validateConfig(cfg))

	cfg.Database.Driver = "sqlite"
	assert.NoError(t, validateConfig(cfg))
}

func TestValidateConfigRequiresCacheAddrWhenEnabled(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "sqlite", DSN: "x"},
		Cache:    CacheConfig{Enabled: true},
		Import:   ImportConfig{FetchTimeout: time.Second, MaxDocumentBytes: 1},
	}
	assert.Error(t, validateConfig(cfg))

	cfg.Cache.Addr = "localhost:6379"
	cfg.Cache.TTL = time.Minute
	assert.NoError(t, validateConfig(cfg))
}
