// Command bench runs a synthetic workload against the cache and exposes Prometheus metrics.
//
// Defaults come from the environment (see package config); flags override them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/loadingcache/cache"
	"github.com/IvanBrykalov/loadingcache/config"
	"github.com/IvanBrykalov/loadingcache/internal/logattr"
	"github.com/IvanBrykalov/loadingcache/loader/redisloader"
	pmet "github.com/IvanBrykalov/loadingcache/metrics/prom"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	if err := run(log); err != nil {
		log.Error("bench failed", logattr.Error(err))
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	defCap := cfg.MaximumSize
	if defCap == 0 {
		defCap = 100_000
	}
	defWeight := cfg.MaximumWeight

	// ---- Flags ----
	var (
		capacity = flag.Int64("cap", defCap, "maximum entries")
		weighted = flag.Bool("weighted", defWeight > 0, "bound by total key+value bytes instead of entry count")
		maxBytes = flag.Int64("max-weight", defWeight, "weight bound with -weighted (0 = cap*16)")
		ttl      = flag.Duration("ttl", cfg.ExpireAfterWrite, "expire after write (0 = never)")

		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 80, "read percentage [0..100]")
		latency  = flag.Duration("load-latency", time.Millisecond, "simulated loader latency (without -redis)")
		inflight = flag.Int("inflight", 256, "max concurrent loads")

		keys    = flag.Int("keys", 1_000_000, "keyspace size")
		zipfS   = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV   = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		preload = flag.Int("preload", 0, "preload entries (0 = cap/2)")

		metricsAddr = flag.String("http", cfg.MetricsAddr, "serve Prometheus metrics and pprof at addr; empty = disabled")
		redisAddr   = flag.String("redis", cfg.Redis.Addr, "load misses from this Redis instead of simulating")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Loader ----
	// Loads run on their own goroutines; the group bounds how many are in flight.
	var loads errgroup.Group
	loads.SetLimit(*inflight)

	var loader cache.Loader[string, string]
	if *redisAddr != "" {
		client, err := redisloader.Dial(ctx, *redisAddr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		loader = redisloader.New(client, redisloader.String, redisloader.Options{
			Prefix:  cfg.Redis.Prefix,
			Timeout: cfg.Redis.Timeout,
		})
		log.Info("loading from redis", slog.String("addr", *redisAddr))
	} else {
		lat := *latency
		loader = func(_ context.Context, k string, done cache.Completion[string]) {
			loads.Go(func() error {
				time.Sleep(lat)
				done("v:"+k, nil)
				return nil
			})
		}
	}

	// ---- Build cache ----
	opt := cache.Options[string, string]{
		Loader: loader,
		Logger: log,
	}
	config.Apply(cfg, &opt)
	opt.RecordStats = true
	opt.MaximumSize = *capacity
	opt.MaximumWeight = 0
	opt.ExpireAfterWrite = *ttl
	if *weighted {
		opt.MaximumSize = 0
		opt.MaximumWeight = *maxBytes
		if opt.MaximumWeight == 0 {
			opt.MaximumWeight = *capacity * 16
		}
		opt.Weigher = func(k, v string) int64 { return int64(len(k) + len(v)) }
	}

	var metricsSrv *http.Server
	if *metricsAddr != "" {
		opt.Metrics = pmet.New(nil, "loadingcache", "bench", nil)
		http.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: *metricsAddr, ReadHeaderTimeout: 5 * time.Second}
	}

	c, err := cache.New(opt)
	if err != nil {
		return err
	}

	// ---- Preload half capacity to get a realistic hit-rate ----
	pl := *preload
	if pl == 0 {
		pl = int(*capacity / 2)
	}
	for i := 0; i < pl; i++ {
		c.Put("k:"+strconv.Itoa(i), "v"+strconv.Itoa(i))
	}

	g, gctx := errgroup.WithContext(ctx)
	if metricsSrv != nil {
		g.Go(func() error {
			log.Info("metrics: serving", slog.String("addr", *metricsAddr))
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	// ---- Load generation ----
	// The cache is driven from a single goroutine; only loads run elsewhere.
	var reads, writes, total, served uint64
	start := time.Now()
	g.Go(func() error {
		defer func() {
			if metricsSrv != nil {
				_ = metricsSrv.Shutdown(context.Background())
			}
		}()
		wctx, cancel := context.WithTimeout(gctx, *duration)
		defer cancel()

		r := rand.New(rand.NewSource(*seed))
		zipf := rand.NewZipf(r, *zipfS, *zipfV, uint64(*keys-1))
		for wctx.Err() == nil {
			total++
			k := "k:" + strconv.FormatUint(zipf.Uint64(), 10)
			if int(r.Int31n(100)) < *readPct {
				reads++
				c.Get(wctx, k, func(string, error) { atomic.AddUint64(&served, 1) })
			} else {
				writes++
				c.Put(k, "v"+strconv.Itoa(r.Int()))
			}
		}
		return loads.Wait()
	})
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	// ---- Report ----
	s := c.Stats()
	fmt.Printf("cap=%d weighted=%v ttl=%v keys=%d dur=%v seed=%d\n",
		*capacity, *weighted, *ttl, *keys, elapsed, *seed)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d  served=%d\n",
		total, float64(total)/elapsed.Seconds(), reads, writes, atomic.LoadUint64(&served))
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", s.HitCount, s.MissCount, s.HitRate()*100)
	fmt.Printf("loads=%d  load-failures=%d  evictions=%d\n",
		s.LoadSuccessCount, s.LoadFailureCount, s.EvictionCount)
	fmt.Printf("Len()=%d Weight()=%d\n", c.Len(), c.Weight())
	return nil
}
