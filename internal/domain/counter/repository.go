package counter

import "context"

type Repository interface {
	// IncrementAndGet atomically bumps the counter for key and returns the
	// new value. The first call for a key returns 1. Two concurrent callers
	// never observe the same value (serialized at the store).
	IncrementAndGet(ctx context.Context, key string) (int64, error)

	// Current returns the live value, or nil if the key was never used
	Current(ctx context.Context, key string) (*int64, error)

	// Reset sets the counter to an explicit value. Maintenance/test seeding
	// only; never called on the request path.
	Reset(ctx context.Context, key string, value int64) error
}
