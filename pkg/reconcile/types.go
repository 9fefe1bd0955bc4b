package reconcile

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/opensearch-operator/pkg/logger"
	"github.com/dmitrymomot/opensearch-operator/pkg/status"
	"github.com/dmitrymomot/opensearch-operator/pkg/topology"
)

// ChangeKind describes why a node's roles are being announced.
type ChangeKind string

const (
	// ChangeJoin assigns roles to a unit that is not in the roster yet.
	ChangeJoin ChangeKind = "join"
	// ChangePromote grants cluster_manager to a remaining node after a departure.
	ChangePromote ChangeKind = "promote"
	// ChangeDemote removes cluster_manager once the cluster shrank.
	ChangeDemote ChangeKind = "demote"
)

// Change is a role assignment the reconciler wants published.
type Change struct {
	Kind ChangeKind    `json:"kind"`
	Node topology.Node `json:"node"`
}

// Result describes one reconciliation pass.
type Result struct {
	PassID       uuid.UUID       `json:"pass_id"`
	Roster       []topology.Node `json:"roster"`
	PlannedUnits int             `json:"planned_units"`
	Changes      []Change        `json:"changes"`
	Status       status.Status   `json:"status"`
}

// Announcer publishes role changes, typically by writing relation data.
type Announcer interface {
	Announce(ctx context.Context, change Change) error
}

// AnnouncerFunc adapts a function to Announcer.
type AnnouncerFunc func(ctx context.Context, change Change) error

func (f AnnouncerFunc) Announce(ctx context.Context, change Change) error { return f(ctx, change) }

// LogAnnouncer only logs changes. It is the default when no announcer is configured.
type LogAnnouncer struct {
	Logger *slog.Logger
}

func (a LogAnnouncer) Announce(ctx context.Context, change Change) error {
	log := a.Logger
	if log == nil {
		log = slog.Default()
	}
	log.InfoContext(ctx, "node roles changed",
		slog.String("change", string(change.Kind)),
		logger.NodeName(change.Node.Name),
		logger.Roles(change.Node.Roles),
	)
	return nil
}

type passKey struct{}

func withPassID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, passKey{}, id)
}

// PassIDFromContext returns the ID of the reconciliation pass running with ctx.
func PassIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(passKey{}).(uuid.UUID)
	return id, ok
}

// PassIDExtractor is a logger.ContextExtractor adding the pass ID to records.
func PassIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id, ok := PassIDFromContext(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return logger.PassID(id.String()), true
}
