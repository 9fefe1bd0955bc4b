package status

import (
	"fmt"
	"strings"
)

// Kind is the unit status category reported to the host runtime.
type Kind string

const (
	KindActive      Kind = "active"
	KindBlocked     Kind = "blocked"
	KindWaiting     Kind = "waiting"
	KindMaintenance Kind = "maintenance"
)

// Status is a unit status with a human-readable message.
type Status struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message,omitempty"`
}

func (s Status) String() string {
	if s.Message == "" {
		return string(s.Kind)
	}
	return string(s.Kind) + ": " + s.Message
}

// IsBlocked reports whether the unit needs operator intervention.
func (s Status) IsBlocked() bool { return s.Kind == KindBlocked }

func Active() Status { return Status{Kind: KindActive} }

// WaitingForBusyShards reports indices whose shards are still being built on the unit.
func WaitingForBusyShards(indices []string) Status {
	return Status{
		Kind:    KindWaiting,
		Message: fmt.Sprintf("The shards: %s need to complete building.", strings.Join(indices, ", ")),
	}
}

func ClusterHealthRed() Status {
	return Status{
		Kind:    KindBlocked,
		Message: "1 or more 'primary' shards are not assigned, please scale your application up.",
	}
}

func ClusterHealthYellow() Status {
	return Status{
		Kind:    KindActive,
		Message: "1 or more 'replica' shards are not assigned, please scale your application up.",
	}
}

func RequestLock(operation string) Status {
	return Status{Kind: KindWaiting, Message: fmt.Sprintf("Requesting lock on operation: %s", operation)}
}

func WaitingForOtherUnitOps() Status {
	return Status{Kind: KindWaiting, Message: "Waiting for other units to complete the ops on their service."}
}

func NoNodeUpInCluster() Status {
	return Status{Kind: KindBlocked, Message: "No node is up in this cluster."}
}

func TooManyNodesRemoved() Status {
	return Status{
		Kind:    KindBlocked,
		Message: "Too many nodes being removed at the same time, please scale your application up.",
	}
}

// HorizontalScaleUpSuggest advises scaling up when shards cannot be assigned.
func HorizontalScaleUpSuggest(unassigned int) Status {
	return Status{
		Kind:    KindMaintenance,
		Message: fmt.Sprintf("Horizontal scale up advised: %d shards unassigned.", unassigned),
	}
}
