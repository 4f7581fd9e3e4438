package cache

import (
	"math/rand"
	"strconv"
	"testing"
	"time"
)

// benchmarkMix exercises a read/write mix against a warm cache from a
// single goroutine. String keys include strconv/concat costs, which is fine
// for an end-to-end benchmark.
func benchmarkMix(b *testing.B, readsPct int, ttl time.Duration) {
	c := MustNew(Options[string, string]{
		MaximumSize:      50_000,
		ExpireAfterWrite: ttl,
	})

	// Preload half the keyspace to get a realistic hit-rate.
	for i := 0; i < 32_768; i++ {
		c.Put("k:"+strconv.Itoa(i), "v")
	}

	b.ReportAllocs()
	b.ResetTimer()

	r := rand.New(rand.NewSource(1))
	keyMask := (1 << 16) - 1 // power of two for a fast &-mask
	for i := 0; i < b.N; i++ {
		k := "k:" + strconv.Itoa(i&keyMask)
		if r.Intn(100) < readsPct {
			c.GetIfPresent(k)
		} else {
			c.Put(k, "v")
		}
	}
}

func BenchmarkCache_90r10w(b *testing.B)     { benchmarkMix(b, 90, 0) }
func BenchmarkCache_50r50w(b *testing.B)     { benchmarkMix(b, 50, 0) }
func BenchmarkCache_TTL_90r10w(b *testing.B) { benchmarkMix(b, 90, time.Hour) }

// benchmarkMixInt is the same workload with int keys and a weigher.
// This removes strconv/alloc noise and exposes the hot path.
func benchmarkMixInt(b *testing.B, readsPct int) {
	c := MustNew(Options[int, int]{
		MaximumWeight: 50_000,
		Weigher:       func(int, int) int64 { return 1 },
	})

	for i := 0; i < 32_768; i++ {
		c.Put(i, 1)
	}

	b.ReportAllocs()
	b.ResetTimer()

	r := rand.New(rand.NewSource(1))
	keyMask := (1 << 16) - 1
	for i := 0; i < b.N; i++ {
		k := i & keyMask
		if r.Intn(100) < readsPct {
			c.GetIfPresent(k)
		} else {
			c.Put(k, 1)
		}
	}
}

func BenchmarkCache_IntKeys_90r10w(b *testing.B) { benchmarkMixInt(b, 90) }
func BenchmarkCache_IntKeys_50r50w(b *testing.B) { benchmarkMixInt(b, 50) }
