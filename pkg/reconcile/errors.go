package reconcile

import "errors"

var (
	ErrEmptyUnit     = errors.New("reconciler requires a unit name")
	ErrNilSource     = errors.New("reconciler requires roster and planned units sources")
	ErrReadRoster    = errors.New("failed to read cluster roster")
	ErrPlannedUnits  = errors.New("failed to read planned units")
	ErrAnnounce      = errors.New("failed to announce role change")
	ErrClusterState  = errors.New("failed to read cluster state")
	ErrLock          = errors.New("ops lock operation failed")
	ErrNoShardSource = errors.New("removal check requires a shard source")
)
