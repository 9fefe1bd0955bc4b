package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/opensearch-operator/pkg/backoff"
	"github.com/dmitrymomot/opensearch-operator/pkg/clusterstate"
	"github.com/dmitrymomot/opensearch-operator/pkg/logger"
	"github.com/dmitrymomot/opensearch-operator/pkg/opslock"
	"github.com/dmitrymomot/opensearch-operator/pkg/peers"
	"github.com/dmitrymomot/opensearch-operator/pkg/status"
	"github.com/dmitrymomot/opensearch-operator/pkg/topology"
)

// Reconciler drives the cluster topology towards the planned size: it reads
// the roster, computes role changes and announces them.
type Reconciler struct {
	unit    string
	address string
	peers   peers.Source
	planned peers.PlannedSource

	announcer Announcer
	shards    clusterstate.ShardSource
	health    clusterstate.HealthSource
	locker    opslock.Locker

	interval time.Duration
	backoff  backoff.Strategy
	logger   *slog.Logger

	mu   sync.RWMutex
	last *Result
}

// New returns a reconciler for unit. Without WithLocker a process-local
// MemoryLocker is used.
func New(unit string, roster peers.Source, planned peers.PlannedSource, opts ...Option) (*Reconciler, error) {
	if unit == "" {
		return nil, ErrEmptyUnit
	}
	if roster == nil || planned == nil {
		return nil, ErrNilSource
	}

	r := &Reconciler{
		unit:     unit,
		peers:    roster,
		planned:  planned,
		locker:   opslock.NewMemoryLocker(10 * time.Minute),
		interval: 30 * time.Second,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.backoff == nil {
		r.backoff = backoff.ForInterval(r.interval)
	}
	if r.announcer == nil {
		r.announcer = LogAnnouncer{Logger: r.logger}
	}
	r.logger = r.logger.With(logger.Component("reconciler"), logger.Unit(unit))

	return r, nil
}

// Step runs a single reconciliation pass.
//
// When the local unit is missing from the roster it joins with the roles
// suggested for the planned size. While the roster is smaller than the
// planned size a departure is in progress and a remaining node may be
// promoted. Once the sizes match, an excess cluster manager is demoted.
func (r *Reconciler) Step(ctx context.Context) (Result, error) {
	res := Result{PassID: uuid.New()}
	ctx = withPassID(ctx, res.PassID)

	roster, err := r.peers.Roster(ctx)
	if err != nil {
		return res, errors.Join(ErrReadRoster, err)
	}
	planned, err := r.planned.PlannedUnits(ctx)
	if err != nil {
		return res, errors.Join(ErrPlannedUnits, err)
	}
	res.Roster, res.PlannedUnits = roster, planned

	res.Changes = r.plan(roster, planned)
	for _, change := range res.Changes {
		if err := r.announcer.Announce(ctx, change); err != nil {
			return res, errors.Join(ErrAnnounce, err)
		}
	}

	r.mu.RLock()
	prev := r.last
	r.mu.RUnlock()

	res.Status, err = r.clusterStatus(ctx, prev, roster, planned)
	if err != nil {
		return res, err
	}

	r.mu.Lock()
	r.last = &res
	r.mu.Unlock()

	r.logger.DebugContext(ctx, "reconciliation pass finished",
		slog.Int("roster_size", len(roster)),
		slog.Int("planned_units", planned),
		slog.Int("changes", len(res.Changes)),
		slog.String("status", res.Status.String()),
	)
	return res, nil
}

func (r *Reconciler) plan(roster []topology.Node, planned int) []Change {
	if _, ok := topology.Find(roster, r.unit); !ok {
		roles := topology.SuggestRoles(roster, planned)
		return []Change{{Kind: ChangeJoin, Node: topology.NewNode(r.unit, roles, r.address)}}
	}

	if len(roster) < planned {
		if node, ok := topology.NodeWithNewRoles(roster); ok {
			return []Change{{Kind: ChangePromote, Node: node}}
		}
		return nil
	}

	if node, ok := topology.ExcessClusterManager(roster, planned); ok {
		return []Change{{Kind: ChangeDemote, Node: node}}
	}
	return nil
}

// removedAtOnce reports whether more than one node left since the previous
// pass while the planned size stayed put. A roster below the planned size on
// its own is growth, not removal.
func removedAtOnce(prev *Result, roster []topology.Node, planned int) bool {
	if prev == nil || prev.PlannedUnits != planned {
		return false
	}
	return len(prev.Roster)-len(roster) > 1
}

func (r *Reconciler) clusterStatus(ctx context.Context, prev *Result, roster []topology.Node, planned int) (status.Status, error) {
	if removedAtOnce(prev, roster, planned) {
		return status.TooManyNodesRemoved(), nil
	}
	if r.health == nil {
		return status.Active(), nil
	}

	h, err := clusterstate.CheckHealth(ctx, r.health)
	if err != nil {
		return status.Status{}, errors.Join(ErrClusterState, err)
	}
	switch {
	case h.Status == clusterstate.HealthRed:
		return status.ClusterHealthRed(), nil
	case h.Status == clusterstate.HealthYellow && h.UnassignedShards > 0:
		return status.HorizontalScaleUpSuggest(h.UnassignedShards), nil
	case h.Status == clusterstate.HealthYellow:
		return status.ClusterHealthYellow(), nil
	}
	return status.Active(), nil
}

// Last returns the result of the most recent successful pass.
func (r *Reconciler) Last() (Result, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.last == nil {
		return Result{}, false
	}
	return *r.last, true
}

// CanRemove decides whether unit may stop or leave the cluster now. On
// success the ops lock stays held by unit until FinishRemoval. When removal
// is refused the returned status explains why and the lock is not held.
func (r *Reconciler) CanRemove(ctx context.Context, unit string) (status.Status, bool, error) {
	if r.shards == nil {
		return status.Status{}, false, ErrNoShardSource
	}

	acquired, err := r.locker.Acquire(ctx, unit)
	if err != nil {
		return status.Status{}, false, errors.Join(ErrLock, err)
	}
	if !acquired {
		return status.WaitingForOtherUnitOps(), false, nil
	}

	st, ok, err := r.removalStatus(ctx, unit)
	if err != nil || !ok {
		if relErr := r.locker.Release(ctx, unit); relErr != nil {
			err = errors.Join(err, ErrLock, relErr)
		}
		return st, false, err
	}

	r.logger.InfoContext(ctx, "removal allowed", logger.NodeName(unit))
	return st, true, nil
}

func (r *Reconciler) removalStatus(ctx context.Context, unit string) (status.Status, bool, error) {
	busy, err := clusterstate.UnitBusy(ctx, r.shards, unit)
	if err != nil {
		return status.Status{}, false, errors.Join(ErrClusterState, err)
	}
	if len(busy) > 0 {
		r.logger.InfoContext(ctx, "removal blocked by busy shards", logger.NodeName(unit), logger.Indices(busy))
		return status.WaitingForBusyShards(busy), false, nil
	}

	if r.health != nil {
		h, err := clusterstate.CheckHealth(ctx, r.health)
		if err != nil {
			return status.Status{}, false, errors.Join(ErrClusterState, err)
		}
		if !h.AllowsRemoval() {
			return status.ClusterHealthRed(), false, nil
		}
	}

	return status.RequestLock("remove"), true, nil
}

// BusyShards returns the indices with shards moving on or off unit.
func (r *Reconciler) BusyShards(ctx context.Context, unit string) ([]string, error) {
	if r.shards == nil {
		return nil, ErrNoShardSource
	}
	busy, err := clusterstate.UnitBusy(ctx, r.shards, unit)
	if err != nil {
		return nil, errors.Join(ErrClusterState, err)
	}
	return busy, nil
}

// Unit returns the name of the local unit.
func (r *Reconciler) Unit() string { return r.unit }

// FinishRemoval releases the ops lock taken by a successful CanRemove.
func (r *Reconciler) FinishRemoval(ctx context.Context, unit string) error {
	if err := r.locker.Release(ctx, unit); err != nil {
		return errors.Join(ErrLock, err)
	}
	return nil
}

// Run returns a function suitable for errgroup. It reconciles immediately,
// then every interval, backing off after failures, until ctx is done.
func (r *Reconciler) Run(ctx context.Context) func() error {
	return func() error {
		r.logger.InfoContext(ctx, "reconciler started", logger.Duration(r.interval))
		defer r.logger.InfoContext(ctx, "reconciler stopped")

		failures := backoff.NewTracker(r.backoff)
		for {
			wait := r.interval
			start := time.Now()
			if _, err := r.Step(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				wait = failures.Fail()
				r.logger.WarnContext(ctx, "reconciliation pass failed",
					logger.Error(err),
					logger.RetryCount(failures.Failures()),
					logger.Duration(time.Since(start)),
				)
			} else {
				failures.Reset()
			}

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}
		}
	}
}
