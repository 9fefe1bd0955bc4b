package clusterstate

import (
	"context"
	"encoding/json"
)

// ShardState is the allocation state reported by _cat/shards. Values are case-sensitive.
type ShardState string

const (
	ShardStarted      ShardState = "STARTED"
	ShardInitializing ShardState = "INITIALIZING"
	ShardRelocating   ShardState = "RELOCATING"
	ShardUnassigned   ShardState = "UNASSIGNED"
)

// IsBusy reports whether the shard is moving data. Unknown states are not busy.
func (s ShardState) IsBusy() bool {
	return s == ShardInitializing || s == ShardRelocating
}

// Shard is one row of _cat/shards.
type Shard struct {
	Index string     `json:"index"`
	State ShardState `json:"state"`
	Node  string     `json:"node"`
}

// UnmarshalJSON accepts a null node, which OpenSearch reports for unassigned shards.
func (s *Shard) UnmarshalJSON(data []byte) error {
	var raw struct {
		Index string     `json:"index"`
		State ShardState `json:"state"`
		Node  *string    `json:"node"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Index, s.State, s.Node = raw.Index, raw.State, ""
	if raw.Node != nil {
		s.Node = *raw.Node
	}
	return nil
}

// HealthStatus is the cluster health color.
type HealthStatus string

const (
	HealthGreen  HealthStatus = "green"
	HealthYellow HealthStatus = "yellow"
	HealthRed    HealthStatus = "red"
)

// Health is the subset of _cluster/health the operator reads.
type Health struct {
	ClusterName        string       `json:"cluster_name"`
	Status             HealthStatus `json:"status"`
	NumberOfNodes      int          `json:"number_of_nodes"`
	ActiveShards       int          `json:"active_shards"`
	RelocatingShards   int          `json:"relocating_shards"`
	InitializingShards int          `json:"initializing_shards"`
	UnassignedShards   int          `json:"unassigned_shards"`
}

// AllowsRemoval reports whether a node may leave without losing primaries.
func (h Health) AllowsRemoval() bool {
	return h.Status != HealthRed
}

// ShardSource returns a snapshot of shard allocations.
type ShardSource interface {
	Shards(ctx context.Context) ([]Shard, error)
}

// HealthSource returns the current cluster health.
type HealthSource interface {
	Health(ctx context.Context) (Health, error)
}

// ShardSourceFunc adapts a function to ShardSource.
type ShardSourceFunc func(ctx context.Context) ([]Shard, error)

func (f ShardSourceFunc) Shards(ctx context.Context) ([]Shard, error) { return f(ctx) }

// HealthSourceFunc adapts a function to HealthSource.
type HealthSourceFunc func(ctx context.Context) (Health, error)

func (f HealthSourceFunc) Health(ctx context.Context) (Health, error) { return f(ctx) }
