package reconcile

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/opensearch-operator/pkg/backoff"
	"github.com/dmitrymomot/opensearch-operator/pkg/clusterstate"
	"github.com/dmitrymomot/opensearch-operator/pkg/opslock"
)

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithAddress sets the address announced for the local unit when it joins.
func WithAddress(ip string) Option {
	return func(r *Reconciler) { r.address = ip }
}

func WithAnnouncer(a Announcer) Option {
	return func(r *Reconciler) {
		if a != nil {
			r.announcer = a
		}
	}
}

func WithShardSource(src clusterstate.ShardSource) Option {
	return func(r *Reconciler) { r.shards = src }
}

func WithHealthSource(src clusterstate.HealthSource) Option {
	return func(r *Reconciler) { r.health = src }
}

func WithLocker(l opslock.Locker) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.locker = l
		}
	}
}

// WithInterval sets the delay between successful passes.
func WithInterval(d time.Duration) Option {
	return func(r *Reconciler) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithBackoff sets the delay strategy after failed passes. The default
// retries within one interval.
func WithBackoff(b backoff.Strategy) Option {
	return func(r *Reconciler) {
		if b != nil {
			r.backoff = b
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}
