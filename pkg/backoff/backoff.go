package backoff

import (
	"math/rand/v2"
	"time"
)

const (
	defaultBase    = time.Second
	defaultCeiling = 5 * time.Minute
)

// Strategy picks the wait after a failed pass from the number of consecutive
// failures and the previous wait.
type Strategy interface {
	Next(failures int, prev time.Duration) time.Duration
}

// Decorrelated draws each wait uniformly between Base and three times the
// previous wait, never above Ceiling. Consecutive failures of several units
// therefore drift apart instead of retrying in lockstep.
type Decorrelated struct {
	Base    time.Duration
	Ceiling time.Duration
	// Rand returns a value in [0, n). Nil uses math/rand/v2.
	Rand func(n int64) int64
}

func (d Decorrelated) Next(failures int, prev time.Duration) time.Duration {
	if failures <= 0 {
		return 0
	}

	base := d.Base
	if base <= 0 {
		base = defaultBase
	}
	ceiling := d.Ceiling
	if ceiling <= 0 {
		ceiling = defaultCeiling
	}
	if base >= ceiling {
		return ceiling
	}

	high := max(prev, base) * 3
	if high > ceiling || high <= 0 {
		high = ceiling
	}

	draw := rand.Int64N
	if d.Rand != nil {
		draw = d.Rand
	}
	return base + time.Duration(draw(int64(high-base)+1))
}

// Constant waits the same duration after every failure.
type Constant time.Duration

func (c Constant) Next(failures int, _ time.Duration) time.Duration {
	if failures <= 0 {
		return 0
	}
	return time.Duration(c)
}

// ForInterval is the reconciler default: retries start after a second and
// never wait longer than a regular pass would.
func ForInterval(interval time.Duration) Strategy {
	return Decorrelated{Base: min(defaultBase, interval), Ceiling: interval}
}

// Tracker counts consecutive failures of one loop. It is not safe for
// concurrent use.
type Tracker struct {
	strategy Strategy
	failures int
	prev     time.Duration
}

// NewTracker returns a Tracker using s, or Decorrelated defaults when s is nil.
func NewTracker(s Strategy) *Tracker {
	if s == nil {
		s = Decorrelated{}
	}
	return &Tracker{strategy: s}
}

// Fail records a failure and returns how long to wait before retrying.
func (t *Tracker) Fail() time.Duration {
	t.failures++
	t.prev = t.strategy.Next(t.failures, t.prev)
	return t.prev
}

// Reset clears the failure streak after a successful pass.
func (t *Tracker) Reset() {
	t.failures, t.prev = 0, 0
}

// Failures returns the length of the current failure streak.
func (t *Tracker) Failures() int { return t.failures }
