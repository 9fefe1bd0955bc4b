// Package clusterstate classifies shard activity in a live OpenSearch cluster.
//
// The package reads snapshots through the ShardSource and HealthSource
// interfaces; pkg/opensearch provides the implementation backed by the
// cluster API. A shard is busy while INITIALIZING or RELOCATING. Units holding
// busy shards must not be stopped or removed until the shards settle.
//
//	busy, err := clusterstate.BusyShardsByUnit(ctx, client)
//	if err != nil {
//	    // transport failure, caller decides whether to retry
//	}
//	if indices := busy["opensearch-1"]; len(indices) > 0 {
//	    // wait
//	}
//
// Errors from the source are surfaced unmodified, joined with ErrFetchShards
// or ErrFetchHealth.
package clusterstate
