package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/IvanBrykalov/loadingcache/policy"
)

// RemovalCause explains why an entry left the cache.
type RemovalCause int

const (
	// RemovalExplicit — removed by Invalidate or InvalidateAll.
	RemovalExplicit RemovalCause = iota
	// RemovalSize — evicted to satisfy MaximumSize or MaximumWeight.
	RemovalSize
	// RemovalExpired — older than ExpireAfterWrite (lazy or proactive).
	RemovalExpired
)

// String returns a stable lowercase name, suitable for metric labels.
func (c RemovalCause) String() string {
	switch c {
	case RemovalExplicit:
		return "explicit"
	case RemovalSize:
		return "size"
	case RemovalExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Evicted reports whether the removal was automatic rather than requested.
func (c RemovalCause) Evicted() bool { return c == RemovalSize || c == RemovalExpired }

// Completion delivers a loader result. Only the first call is honoured.
type Completion[V any] func(v V, err error)

// Loader produces a value for an absent or expired key. It must call done
// exactly once, either before returning or later from any goroutine.
type Loader[K comparable, V any] func(ctx context.Context, k K, done Completion[V])

// Callback receives the outcome of Get.
type Callback[V any] func(v V, err error)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Removal(cause RemovalCause)
	Load(d time.Duration, err error)
	Size(entries int, weight int64)
}

// Clock provides time in UnixNano; useful for deterministic tests.
type Clock interface{ NowUnixNano() int64 }

// Options configures the cache. It is validated once by New and never
// modified afterwards. Zero values are safe:
//   - MaximumSize == 0 and MaximumWeight == 0 => unbounded
//   - ExpireAfterWrite == 0                   => entries never expire
//   - nil Policy  => LRU
//   - nil Metrics => NoopMetrics
//   - nil Logger  => discard
type Options[K comparable, V any] struct {
	// MaximumSize bounds the entry count. Mutually exclusive with MaximumWeight.
	MaximumSize int64

	// MaximumWeight bounds the sum of Weigher over all entries.
	// Must be set together with Weigher.
	MaximumWeight int64
	Weigher       func(k K, v V) int64

	// ExpireAfterWrite removes entries whose last write is older than this.
	ExpireAfterWrite time.Duration

	// Loader fetches a value on a miss or expired read in Get.
	Loader Loader[K, V]

	// OnRemove is called once per removed entry, after the mutation that
	// removed it has completed. It may call back into the cache.
	OnRemove func(k K, v V, cause RemovalCause)

	// RecordStats enables the counters returned by Stats.
	RecordStats bool

	// Policy orders the access queue; nil => LRU.
	Policy policy.Policy

	// Observability
	Metrics Metrics
	Logger  *slog.Logger

	// Clock allows overriding the time source (tests). Nil => time.Now().
	Clock Clock
}

func (o *Options[K, V]) validate() error {
	switch {
	case o.MaximumSize < 0:
		return configError("maximum size must not be negative, got %d", o.MaximumSize)
	case o.MaximumWeight < 0:
		return configError("maximum weight must not be negative, got %d", o.MaximumWeight)
	case o.ExpireAfterWrite < 0:
		return configError("expire after write must not be negative, got %s", o.ExpireAfterWrite)
	case (o.MaximumWeight > 0) != (o.Weigher != nil):
		return configError("maximum weight and weigher must be set together")
	case o.MaximumWeight > 0 && o.MaximumSize > 0:
		return configError("maximum size and maximum weight are mutually exclusive")
	}
	return nil
}
