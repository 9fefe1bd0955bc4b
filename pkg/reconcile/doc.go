// Package reconcile runs the operator's control loop.
//
// Each pass reads external state, computes the desired topology with
// pkg/topology, and emits the difference through an Announcer:
//
//  1. read the roster from a peers.Source and the planned size from a
//     peers.PlannedSource;
//  2. a unit missing from the roster joins with topology.SuggestRoles;
//  3. while the roster is smaller than the planned size, a departure is in
//     progress and topology.NodeWithNewRoles may promote a remaining node;
//  4. once sizes match, topology.ExcessClusterManager may demote one;
//  5. cluster health, when a HealthSource is configured, sets the unit status.
//
// Passes are idempotent: with an unchanged roster every pass announces the
// same changes, so announcers must tolerate repeats.
//
// Destructive operations go through CanRemove, which takes the ops lock and
// refuses while the unit holds INITIALIZING or RELOCATING shards or the
// cluster is red. FinishRemoval releases the lock.
//
//	r, err := reconcile.New("opensearch-0", src, src,
//	    reconcile.WithShardSource(cc),
//	    reconcile.WithHealthSource(cc),
//	    reconcile.WithLocker(locker),
//	)
//	g.Go(r.Run(ctx))
package reconcile
