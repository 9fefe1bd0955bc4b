package clusterstate

import "errors"

var (
	ErrNilSource   = errors.New("cluster state source is nil")
	ErrFetchShards = errors.New("failed to fetch shard allocations")
	ErrFetchHealth = errors.New("failed to fetch cluster health")
)
