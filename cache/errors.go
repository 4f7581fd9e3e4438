package cache

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is wrapped by every error New returns for invalid Options.
	ErrConfig = errors.New("cache: invalid configuration")

	// ErrNilValue is raised when an absent (nil) value is assigned to an entry.
	ErrNilValue = errors.New("cache: nil value")

	// ErrNotFound is passed to a Get callback when the key is absent or
	// expired and no Loader is configured.
	ErrNotFound = errors.New("cache: key not found")
)

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConfig}, args...)...)
}

func nilValueError(k any) error {
	return fmt.Errorf("%w for key %v", ErrNilValue, k)
}
