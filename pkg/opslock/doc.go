// Package opslock provides the cluster-wide lock taken before a unit performs
// a destructive operation such as stopping its service or leaving the
// cluster.
//
// Two implementations satisfy Locker:
//
//   - MemoryLocker keeps the holder in process memory. Use it for a single
//     operator process or in tests.
//   - RedisLocker stores the holder under a redis key with SET NX PX, so every
//     unit sharing the redis instance sees the same lock. Release is a
//     compare-and-delete script, so a unit can never free a lock it does not
//     hold.
//
// Both expire the holder after a TTL so a crashed unit cannot block the
// cluster forever. Acquire is re-entrant for the holding unit and refreshes
// the TTL.
//
//	client, err := opslock.Connect(ctx, cfg)
//	locker := opslock.NewRedisLockerFromConfig(client, cfg)
//	ok, err := locker.Acquire(ctx, "opensearch-2")
package opslock
