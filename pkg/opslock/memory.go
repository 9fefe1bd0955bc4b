package opslock

import (
	"context"
	"sync"
	"time"
)

// MemoryLocker is a process-local Locker. A zero TTL never expires the lock.
type MemoryLocker struct {
	mu      sync.Mutex
	holder  string
	expires time.Time
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryLocker returns a locker whose holder expires after ttl.
func NewMemoryLocker(ttl time.Duration) *MemoryLocker {
	return &MemoryLocker{ttl: ttl, now: time.Now}
}

// WithClock replaces the time source. It is meant for tests.
func (l *MemoryLocker) WithClock(now func() time.Time) *MemoryLocker {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
	return l
}

func (l *MemoryLocker) Acquire(_ context.Context, unit string) (bool, error) {
	if unit == "" {
		return false, ErrEmptyUnit
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.expireLocked()
	if l.holder != "" && l.holder != unit {
		return false, nil
	}
	l.holder = unit
	if l.ttl > 0 {
		l.expires = l.now().Add(l.ttl)
	}
	return true, nil
}

func (l *MemoryLocker) Release(_ context.Context, unit string) error {
	if unit == "" {
		return ErrEmptyUnit
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.expireLocked()
	switch l.holder {
	case "":
		return nil
	case unit:
		l.holder = ""
		return nil
	default:
		return ErrNotHolder
	}
}

func (l *MemoryLocker) Holder(context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.expireLocked()
	return l.holder, nil
}

func (l *MemoryLocker) expireLocked() {
	if l.holder != "" && l.ttl > 0 && !l.now().Before(l.expires) {
		l.holder = ""
	}
}
