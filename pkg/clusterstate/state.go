package clusterstate

import (
	"context"
	"errors"
)

// BusyShardsByUnit fetches shards from src and groups the indices with at
// least one INITIALIZING or RELOCATING shard by the unit that holds them.
// Fetch errors are returned joined with ErrFetchShards and are not retried.
func BusyShardsByUnit(ctx context.Context, src ShardSource) (map[string][]string, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	shards, err := src.Shards(ctx)
	if err != nil {
		return nil, errors.Join(ErrFetchShards, err)
	}
	return BusyShards(shards), nil
}

// BusyShards groups busy shard indices by unit. Each unit lists distinct
// indices in first-seen order; units without busy shards are omitted.
func BusyShards(shards []Shard) map[string][]string {
	busy := make(map[string][]string)
	seen := make(map[string]map[string]struct{})
	for _, s := range shards {
		if !s.State.IsBusy() {
			continue
		}
		indices, ok := seen[s.Node]
		if !ok {
			indices = make(map[string]struct{})
			seen[s.Node] = indices
		}
		if _, dup := indices[s.Index]; dup {
			continue
		}
		indices[s.Index] = struct{}{}
		busy[s.Node] = append(busy[s.Node], s.Index)
	}
	return busy
}

// UnitBusy returns the indices with busy shards on unit.
func UnitBusy(ctx context.Context, src ShardSource, unit string) ([]string, error) {
	busy, err := BusyShardsByUnit(ctx, src)
	if err != nil {
		return nil, err
	}
	return busy[unit], nil
}

// CheckHealth fetches the cluster health from src.
func CheckHealth(ctx context.Context, src HealthSource) (Health, error) {
	if src == nil {
		return Health{}, ErrNilSource
	}
	h, err := src.Health(ctx)
	if err != nil {
		return Health{}, errors.Join(ErrFetchHealth, err)
	}
	return h, nil
}
