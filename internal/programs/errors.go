package programs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks a filter rejected before reaching the store.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrStoreUnavailable wraps any failure of the underlying catalog store.
	ErrStoreUnavailable = errors.New("catalog store unavailable")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
