// Package logattr provides slog attribute helpers for the cache packages.
//
// Helpers return an empty slog.Attr for nil inputs, which slog drops, so
// calls like log.Debug("msg", logattr.Error(err)) need no nil checks.
package logattr

import (
	"fmt"
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Key creates an attribute for a cache key, formatted with %v.
func Key(k any) slog.Attr {
	if k == nil {
		return slog.Attr{}
	}
	return slog.String("key", fmt.Sprint(k))
}

// Cause creates an attribute for a removal cause (anything with String).
func Cause(c fmt.Stringer) slog.Attr {
	if c == nil {
		return slog.Attr{}
	}
	return slog.String("cause", c.String())
}

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Count creates a generic counter attribute.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}
