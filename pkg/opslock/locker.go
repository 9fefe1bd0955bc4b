package opslock

import "context"

// Locker serializes destructive operations so only one unit at a time stops,
// restarts or leaves the cluster.
type Locker interface {
	// Acquire takes the lock for unit. It returns false without error when
	// another unit holds it. Acquiring a lock already held by unit refreshes it.
	Acquire(ctx context.Context, unit string) (bool, error)

	// Release frees the lock held by unit. Releasing a free lock is a no-op;
	// releasing a lock held by another unit returns ErrNotHolder.
	Release(ctx context.Context, unit string) error

	// Holder returns the unit holding the lock, or "" when it is free.
	Holder(ctx context.Context) (string, error)
}
