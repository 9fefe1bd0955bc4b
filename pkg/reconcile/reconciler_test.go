package reconcile_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/opensearch-operator/pkg/backoff"
	"github.com/dmitrymomot/opensearch-operator/pkg/clusterstate"
	"github.com/dmitrymomot/opensearch-operator/pkg/opslock"
	"github.com/dmitrymomot/opensearch-operator/pkg/peers"
	"github.com/dmitrymomot/opensearch-operator/pkg/reconcile"
	"github.com/dmitrymomot/opensearch-operator/pkg/status"
	"github.com/dmitrymomot/opensearch-operator/pkg/topology"
)

func cluster6() []topology.Node {
	return []topology.Node{
		topology.NewNode("cm1", topology.ClusterManagerRoles, "0.0.0.1"),
		topology.NewNode("cm2", topology.ClusterManagerRoles, "0.0.0.2"),
		topology.NewNode("cm3", topology.ClusterManagerRoles, "0.0.0.3"),
		topology.NewNode("cm4", topology.ClusterManagerRoles, "0.0.0.4"),
		topology.NewNode("cm5", topology.ClusterManagerRoles, "0.0.0.5"),
		topology.NewNode("data1", topology.BaseRoles, "0.0.0.6"),
	}
}

func health(s clusterstate.HealthStatus, unassigned int) clusterstate.HealthSource {
	return clusterstate.HealthSourceFunc(func(context.Context) (clusterstate.Health, error) {
		return clusterstate.Health{Status: s, UnassignedShards: unassigned}, nil
	})
}

func shards(list ...clusterstate.Shard) clusterstate.ShardSource {
	return clusterstate.ShardSourceFunc(func(context.Context) ([]clusterstate.Shard, error) {
		return list, nil
	})
}

func TestNew(t *testing.T) {
	t.Parallel()

	src := peers.NewStaticSource(1)
	_, err := reconcile.New("", src, src)
	assert.ErrorIs(t, err, reconcile.ErrEmptyUnit)

	_, err = reconcile.New("u", nil, src)
	assert.ErrorIs(t, err, reconcile.ErrNilSource)

	r, err := reconcile.New("u", src, src)
	require.NoError(t, err)
	_, ok := r.Last()
	assert.False(t, ok)
}

func TestStepJoin(t *testing.T) {
	t.Parallel()

	t.Run("first unit becomes cluster manager", func(t *testing.T) {
		src := peers.NewStaticSource(3)
		ann := &MockAnnouncer{}
		ann.On("Announce", mock.Anything, reconcile.Change{
			Kind: reconcile.ChangeJoin,
			Node: topology.NewNode("opensearch-0", topology.ClusterManagerRoles, "10.0.0.1"),
		}).Return(nil).Once()

		r, err := reconcile.New("opensearch-0", src, src,
			reconcile.WithAnnouncer(ann),
			reconcile.WithAddress("10.0.0.1"),
		)
		require.NoError(t, err)

		res, err := r.Step(context.Background())
		require.NoError(t, err)
		assert.Len(t, res.Changes, 1)
		assert.NotEqual(t, [16]byte{}, [16]byte(res.PassID))
		assert.Equal(t, status.Active(), res.Status)
		ann.AssertExpectations(t)
	})

	t.Run("sixth unit gets base roles", func(t *testing.T) {
		src := peers.NewStaticSource(6, cluster6()[:5]...)
		r, err := reconcile.New("data1", src, src)
		require.NoError(t, err)

		res, err := r.Step(context.Background())
		require.NoError(t, err)
		require.Len(t, res.Changes, 1)
		assert.Equal(t, topology.BaseRoles, res.Changes[0].Node.Roles)
	})
}

func TestStepPromoteAfterDeparture(t *testing.T) {
	t.Parallel()

	src := peers.NewStaticSource(6, cluster6()...)
	src.Remove("cm1")

	var announced []reconcile.Change
	r, err := reconcile.New("cm2", src, src, reconcile.WithAnnouncer(reconcile.AnnouncerFunc(
		func(_ context.Context, c reconcile.Change) error {
			announced = append(announced, c)
			return nil
		},
	)))
	require.NoError(t, err)

	for range 2 {
		_, err := r.Step(context.Background())
		require.NoError(t, err)
	}

	require.Len(t, announced, 2)
	assert.Equal(t, announced[0], announced[1], "passes are idempotent")
	assert.Equal(t, reconcile.ChangePromote, announced[0].Kind)
	assert.Equal(t, "data1", announced[0].Node.Name)
	assert.Equal(t, topology.ClusterManagerRoles, announced[0].Node.Roles)
}

func TestStepNoChangeAfterDataNodeDeparture(t *testing.T) {
	t.Parallel()

	src := peers.NewStaticSource(6, cluster6()...)
	src.Remove("data1")

	ann := &MockAnnouncer{}
	r, err := reconcile.New("cm1", src, src, reconcile.WithAnnouncer(ann))
	require.NoError(t, err)

	res, err := r.Step(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Changes)
	ann.AssertNotCalled(t, "Announce", mock.Anything, mock.Anything)
}

func TestStepDemoteAfterScaleDown(t *testing.T) {
	t.Parallel()

	roster := cluster6()[:4]
	src := peers.NewStaticSource(4, roster...)

	r, err := reconcile.New("cm1", src, src)
	require.NoError(t, err)

	res, err := r.Step(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Changes, 1)
	assert.Equal(t, reconcile.ChangeDemote, res.Changes[0].Kind)
	assert.Equal(t, "cm4", res.Changes[0].Node.Name)
	assert.Equal(t, topology.BaseRoles, res.Changes[0].Node.Roles)

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, res.PassID, last.PassID)
}

func TestStepStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		planned int
		health  clusterstate.HealthSource
		want    status.Status
	}{
		{"green", 6, health(clusterstate.HealthGreen, 0), status.Active()},
		{"yellow", 6, health(clusterstate.HealthYellow, 0), status.ClusterHealthYellow()},
		{"yellow with unassigned", 6, health(clusterstate.HealthYellow, 3), status.HorizontalScaleUpSuggest(3)},
		{"red", 6, health(clusterstate.HealthRed, 1), status.ClusterHealthRed()},
		{"roster below planned size is growth", 8, health(clusterstate.HealthGreen, 0), status.Active()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := peers.NewStaticSource(tt.planned, cluster6()...)
			r, err := reconcile.New("cm1", src, src, reconcile.WithHealthSource(tt.health))
			require.NoError(t, err)

			res, err := r.Step(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Status)
		})
	}
}

func TestStepScaleUpIsActive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	src := peers.NewStaticSource(5,
		topology.NewNode("opensearch-0", topology.ClusterManagerRoles, "10.0.0.1"),
		topology.NewNode("opensearch-1", topology.ClusterManagerRoles, "10.0.0.2"),
	)
	r, err := reconcile.New("opensearch-0", src, src, reconcile.WithHealthSource(health(clusterstate.HealthGreen, 0)))
	require.NoError(t, err)

	res, err := r.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, status.Active(), res.Status)

	src.Upsert(topology.NewNode("opensearch-2", topology.ClusterManagerRoles, "10.0.0.3"))
	res, err = r.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, status.Active(), res.Status)
	assert.False(t, res.Status.IsBlocked())
}

func TestStepTooManyNodesRemoved(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("two nodes leave between passes", func(t *testing.T) {
		src := peers.NewStaticSource(6, cluster6()...)
		r, err := reconcile.New("cm1", src, src)
		require.NoError(t, err)

		_, err = r.Step(ctx)
		require.NoError(t, err)

		src.Remove("data1")
		src.Remove("cm5")
		res, err := r.Step(ctx)
		require.NoError(t, err)
		assert.Equal(t, status.TooManyNodesRemoved(), res.Status)
	})

	t.Run("one node leaves", func(t *testing.T) {
		src := peers.NewStaticSource(6, cluster6()...)
		r, err := reconcile.New("cm1", src, src)
		require.NoError(t, err)

		_, err = r.Step(ctx)
		require.NoError(t, err)

		src.Remove("data1")
		res, err := r.Step(ctx)
		require.NoError(t, err)
		assert.Equal(t, status.Active(), res.Status)
	})

	t.Run("planned size lowered with the removal", func(t *testing.T) {
		src := peers.NewStaticSource(6, cluster6()...)
		r, err := reconcile.New("cm1", src, src)
		require.NoError(t, err)

		_, err = r.Step(ctx)
		require.NoError(t, err)

		src.Set(4, cluster6()[:4]...)
		res, err := r.Step(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, status.TooManyNodesRemoved(), res.Status)
	})
}

func TestStepErrors(t *testing.T) {
	t.Parallel()

	t.Run("announce failure", func(t *testing.T) {
		src := peers.NewStaticSource(1)
		boom := errors.New("relation unavailable")
		ann := &MockAnnouncer{}
		ann.On("Announce", mock.Anything, mock.Anything).Return(boom)

		r, err := reconcile.New("u", src, src, reconcile.WithAnnouncer(ann))
		require.NoError(t, err)

		_, err = r.Step(context.Background())
		assert.ErrorIs(t, err, reconcile.ErrAnnounce)
		assert.ErrorIs(t, err, boom)
		_, ok := r.Last()
		assert.False(t, ok)
	})

	t.Run("health failure", func(t *testing.T) {
		src := peers.NewStaticSource(6, cluster6()...)
		failing := clusterstate.HealthSourceFunc(func(context.Context) (clusterstate.Health, error) {
			return clusterstate.Health{}, errors.New("timeout")
		})
		r, err := reconcile.New("cm1", src, src, reconcile.WithHealthSource(failing))
		require.NoError(t, err)

		_, err = r.Step(context.Background())
		assert.ErrorIs(t, err, reconcile.ErrClusterState)
		assert.ErrorIs(t, err, clusterstate.ErrFetchHealth)
	})
}

func TestBusyShards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	src := peers.NewStaticSource(2)

	r, err := reconcile.New("opensearch-0", src, src)
	require.NoError(t, err)
	assert.Equal(t, "opensearch-0", r.Unit())
	_, err = r.BusyShards(ctx, "opensearch-1")
	assert.ErrorIs(t, err, reconcile.ErrNoShardSource)

	r, err = reconcile.New("opensearch-0", src, src, reconcile.WithShardSource(shards(
		clusterstate.Shard{Index: "logs", State: clusterstate.ShardRelocating, Node: "opensearch-1"},
		clusterstate.Shard{Index: "metrics", State: clusterstate.ShardStarted, Node: "opensearch-1"},
	)))
	require.NoError(t, err)
	busy, err := r.BusyShards(ctx, "opensearch-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"logs"}, busy)

	busy, err = r.BusyShards(ctx, "opensearch-2")
	require.NoError(t, err)
	assert.Empty(t, busy)
}

func TestCanRemove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("requires a shard source", func(t *testing.T) {
		src := peers.NewStaticSource(1)
		r, err := reconcile.New("u", src, src)
		require.NoError(t, err)
		_, _, err = r.CanRemove(ctx, "u")
		assert.ErrorIs(t, err, reconcile.ErrNoShardSource)
	})

	t.Run("busy shards block removal and release the lock", func(t *testing.T) {
		src := peers.NewStaticSource(3)
		locker := opslock.NewMemoryLocker(0)
		r, err := reconcile.New("opensearch-1", src, src,
			reconcile.WithLocker(locker),
			reconcile.WithShardSource(shards(
				clusterstate.Shard{Index: "index1", State: clusterstate.ShardInitializing, Node: "opensearch-1"},
				clusterstate.Shard{Index: "index2", State: clusterstate.ShardRelocating, Node: "opensearch-1"},
			)),
		)
		require.NoError(t, err)

		st, ok, err := r.CanRemove(ctx, "opensearch-1")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, status.WaitingForBusyShards([]string{"index1", "index2"}), st)

		holder, err := locker.Holder(ctx)
		require.NoError(t, err)
		assert.Empty(t, holder)
	})

	t.Run("red health blocks removal", func(t *testing.T) {
		src := peers.NewStaticSource(3)
		r, err := reconcile.New("u", src, src,
			reconcile.WithShardSource(shards()),
			reconcile.WithHealthSource(health(clusterstate.HealthRed, 1)),
		)
		require.NoError(t, err)

		st, ok, err := r.CanRemove(ctx, "u")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, status.ClusterHealthRed(), st)
	})

	t.Run("lock serializes removals", func(t *testing.T) {
		src := peers.NewStaticSource(3)
		locker := opslock.NewMemoryLocker(0)
		r, err := reconcile.New("a", src, src,
			reconcile.WithLocker(locker),
			reconcile.WithShardSource(shards(
				clusterstate.Shard{Index: "index1", State: clusterstate.ShardStarted, Node: "a"},
			)),
			reconcile.WithHealthSource(health(clusterstate.HealthGreen, 0)),
		)
		require.NoError(t, err)

		_, ok, err := r.CanRemove(ctx, "a")
		require.NoError(t, err)
		assert.True(t, ok)

		st, ok, err := r.CanRemove(ctx, "b")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, status.WaitingForOtherUnitOps(), st)

		require.NoError(t, r.FinishRemoval(ctx, "a"))
		_, ok, err = r.CanRemove(ctx, "b")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("shard fetch failure releases the lock", func(t *testing.T) {
		src := peers.NewStaticSource(3)
		locker := opslock.NewMemoryLocker(0)
		failing := clusterstate.ShardSourceFunc(func(context.Context) ([]clusterstate.Shard, error) {
			return nil, errors.New("connection refused")
		})
		r, err := reconcile.New("u", src, src, reconcile.WithLocker(locker), reconcile.WithShardSource(failing))
		require.NoError(t, err)

		_, ok, err := r.CanRemove(ctx, "u")
		assert.False(t, ok)
		assert.ErrorIs(t, err, reconcile.ErrClusterState)
		assert.ErrorIs(t, err, clusterstate.ErrFetchShards)

		holder, err := locker.Holder(ctx)
		require.NoError(t, err)
		assert.Empty(t, holder)
	})
}

type flakySource struct {
	*peers.StaticSource
	failures atomic.Int32
	calls    atomic.Int32
}

func (f *flakySource) Roster(ctx context.Context) ([]topology.Node, error) {
	f.calls.Add(1)
	if f.failures.Load() > 0 {
		f.failures.Add(-1)
		return nil, errors.New("peer data unavailable")
	}
	return f.StaticSource.Roster(ctx)
}

func TestRun(t *testing.T) {
	t.Parallel()

	src := &flakySource{StaticSource: peers.NewStaticSource(1)}
	src.failures.Store(2)

	var joins atomic.Int32
	r, err := reconcile.New("u", src, src,
		reconcile.WithInterval(5*time.Millisecond),
		reconcile.WithBackoff(backoff.Constant(time.Millisecond)),
		reconcile.WithAnnouncer(reconcile.AnnouncerFunc(func(context.Context, reconcile.Change) error {
			joins.Add(1)
			return nil
		})),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx)() }()

	require.Eventually(t, func() bool { return joins.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		require.Fail(t, "run did not finish")
	}
	assert.GreaterOrEqual(t, src.calls.Load(), int32(4))

	_, ok := r.Last()
	assert.True(t, ok)
}

func TestPassIDExtractor(t *testing.T) {
	t.Parallel()

	_, ok := reconcile.PassIDExtractor(context.Background())
	assert.False(t, ok)

	var seen string
	src := peers.NewStaticSource(1)
	r, err := reconcile.New("u", src, src, reconcile.WithAnnouncer(reconcile.AnnouncerFunc(
		func(ctx context.Context, _ reconcile.Change) error {
			attr, ok := reconcile.PassIDExtractor(ctx)
			require.True(t, ok)
			seen = attr.Value.String()
			return nil
		},
	)))
	require.NoError(t, err)

	res, err := r.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, res.PassID.String(), seen)
}
