// Package config loads cache policy and service wiring from the environment.
//
// A .env file in the working directory is read first when present; real
// environment variables take precedence over it. Parsing is done by
// caarlos0/env:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	opt := cache.Options[string, string]{}
//	config.Apply(cfg, &opt)
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/IvanBrykalov/loadingcache/cache"
)

// Config is the environment-driven subset of cache.Options plus the
// endpoints used by cmd/bench.
type Config struct {
	MaximumSize      int64         `env:"CACHE_MAXIMUM_SIZE"`
	MaximumWeight    int64         `env:"CACHE_MAXIMUM_WEIGHT"`
	ExpireAfterWrite time.Duration `env:"CACHE_EXPIRE_AFTER_WRITE"`
	RecordStats      bool          `env:"CACHE_RECORD_STATS" envDefault:"true"`

	MetricsAddr string `env:"CACHE_METRICS_ADDR" envDefault:":8080"`

	Redis Redis `envPrefix:"CACHE_REDIS_"`
}

// Redis configures the optional Redis-backed loader.
type Redis struct {
	Addr     string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	Prefix   string        `env:"PREFIX"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"500ms"`
}

// Load reads .env files (default ".env", missing files are skipped) and
// parses the environment into a Config.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load env file: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}

// MustLoad is like Load but panics on failure (useful at startup).
func MustLoad(files ...string) Config {
	cfg, err := Load(files...)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Apply copies the cache policy fields into opt. Validation happens in
// cache.New, so a weight bound without a Weigher surfaces there.
func Apply[K comparable, V any](cfg Config, opt *cache.Options[K, V]) {
	opt.MaximumSize = cfg.MaximumSize
	opt.MaximumWeight = cfg.MaximumWeight
	opt.ExpireAfterWrite = cfg.ExpireAfterWrite
	opt.RecordStats = cfg.RecordStats
}
