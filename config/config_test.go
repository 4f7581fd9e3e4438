package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/loadingcache/cache"
)

// Tests in this file mutate the process environment and cannot run in parallel.

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CACHE_MAXIMUM_SIZE", "500")
	t.Setenv("CACHE_EXPIRE_AFTER_WRITE", "90s")
	t.Setenv("CACHE_RECORD_STATS", "false")
	t.Setenv("CACHE_REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_REDIS_DB", "2")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, int64(500), cfg.MaximumSize)
	assert.Equal(t, 90*time.Second, cfg.ExpireAfterWrite)
	assert.False(t, cfg.RecordStats)
	assert.Equal(t, ":8080", cfg.MetricsAddr)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 500*time.Millisecond, cfg.Redis.Timeout)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CACHE_MAXIMUM_WEIGHT=1024\nCACHE_REDIS_PREFIX=app:\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("CACHE_MAXIMUM_WEIGHT")
		os.Unsetenv("CACHE_REDIS_PREFIX")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(1024), cfg.MaximumWeight)
	assert.Equal(t, "app:", cfg.Redis.Prefix)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("CACHE_MAXIMUM_SIZE", "lots")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "missing.env")) })
}

func TestApply(t *testing.T) {
	cfg := Config{MaximumSize: 3, ExpireAfterWrite: time.Minute, RecordStats: true}
	var opt cache.Options[string, int]
	Apply(cfg, &opt)

	c, err := cache.New(opt)
	require.NoError(t, err)
	c.Put("a", 1).Put("b", 2).Put("c", 3).Put("d", 4)
	assert.Equal(t, 3, c.Len())

	// a weight bound from the environment still needs a Weigher
	Apply(Config{MaximumWeight: 10}, &opt)
	_, err = cache.New(opt)
	require.ErrorIs(t, err, cache.ErrConfig)
}
