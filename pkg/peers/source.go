package peers

import (
	"context"
	"sync"

	"github.com/dmitrymomot/opensearch-operator/pkg/topology"
)

// Source returns the current cluster roster from peer membership.
type Source interface {
	Roster(ctx context.Context) ([]topology.Node, error)
}

// PlannedSource returns the number of units the deployment converges to.
type PlannedSource interface {
	PlannedUnits(ctx context.Context) (int, error)
}

// StaticSource serves a roster held in memory. It is safe for concurrent use.
type StaticSource struct {
	mu      sync.RWMutex
	nodes   []topology.Node
	planned int
}

// NewStaticSource returns a source serving nodes with plannedUnits as the target size.
func NewStaticSource(plannedUnits int, nodes ...topology.Node) *StaticSource {
	s := &StaticSource{}
	s.Set(plannedUnits, nodes...)
	return s
}

// Set replaces the roster and the planned size.
func (s *StaticSource) Set(plannedUnits int, nodes ...topology.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = append([]topology.Node(nil), nodes...)
	s.planned = plannedUnits
}

// Upsert replaces the node with the same name or appends it.
func (s *StaticSource) Upsert(node topology.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.nodes {
		if n.Name == node.Name {
			s.nodes[i] = node
			return
		}
	}
	s.nodes = append(s.nodes, node)
}

// Remove drops the node named name. The planned size is left unchanged.
func (s *StaticSource) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.nodes[:0]
	for _, n := range s.nodes {
		if n.Name != name {
			out = append(out, n)
		}
	}
	s.nodes = out
}

func (s *StaticSource) Roster(context.Context) ([]topology.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]topology.Node(nil), s.nodes...), nil
}

func (s *StaticSource) PlannedUnits(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.planned, nil
}
