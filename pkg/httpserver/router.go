package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/opensearch-operator/pkg/logger"
	"github.com/dmitrymomot/opensearch-operator/pkg/opslock"
	"github.com/dmitrymomot/opensearch-operator/pkg/reconcile"
	"github.com/dmitrymomot/opensearch-operator/pkg/status"
	"github.com/dmitrymomot/opensearch-operator/pkg/topology"
)

// StatusProvider is the part of the reconciler the status endpoints read.
type StatusProvider interface {
	Unit() string
	Last() (reconcile.Result, bool)
	BusyShards(ctx context.Context, unit string) ([]string, error)
	CanRemove(ctx context.Context, unit string) (status.Status, bool, error)
	FinishRemoval(ctx context.Context, unit string) error
}

// TopologyView is the body served by GET /topology.
type TopologyView struct {
	Unit            string          `json:"unit"`
	Reconciled      bool            `json:"reconciled"`
	PassID          string          `json:"pass_id,omitempty"`
	PlannedUnits    int             `json:"planned_units"`
	MaxCMs          int             `json:"max_cluster_managers"`
	Nodes           []topology.Node `json:"nodes"`
	RoleCounts      map[string]int  `json:"role_counts"`
	ClusterManagers []string        `json:"cluster_managers"`
	Status          *status.Status  `json:"status,omitempty"`
}

// BusyShardsView is the body served by GET /units/{unit}/busy-shards.
type BusyShardsView struct {
	Unit    string   `json:"unit"`
	Busy    bool     `json:"busy"`
	Indices []string `json:"indices"`
}

// RemovalView is the body served by POST /units/{unit}/removal.
type RemovalView struct {
	Unit    string        `json:"unit"`
	Allowed bool          `json:"allowed"`
	Status  status.Status `json:"status"`
}

type errorView struct {
	Error string `json:"error"`
}

// StatusRouter mounts the probe, topology and removal endpoints for p. The
// ready funcs back GET /readyz.
//
// POST /units/{unit}/removal takes the ops lock for unit when it may leave
// the cluster and answers 409 with the blocking status otherwise. DELETE on
// the same path releases the lock once the removal is done.
func StatusRouter(p StatusProvider, log *slog.Logger, ready ...func(context.Context) error) chi.Router {
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(RequestID, AccessLog(log), middleware.Recoverer)
	r.Get("/healthz", HealthCheckHandler(log))
	r.Get("/readyz", HealthCheckHandler(log, ready...))
	r.Get("/topology", topologyHandler(p))
	r.Route("/units/{unit}", func(r chi.Router) {
		r.Get("/busy-shards", busyShardsHandler(p, log))
		r.Post("/removal", startRemovalHandler(p, log))
		r.Delete("/removal", finishRemovalHandler(p, log))
	})
	return r
}

func topologyHandler(p StatusProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := TopologyView{
			Unit:            p.Unit(),
			Nodes:           []topology.Node{},
			RoleCounts:      map[string]int{},
			ClusterManagers: []string{},
		}

		if res, ok := p.Last(); ok {
			view.Reconciled = true
			view.PassID = res.PassID.String()
			view.PlannedUnits = res.PlannedUnits
			view.MaxCMs = topology.MaxClusterManagers(res.PlannedUnits)
			if res.Roster != nil {
				view.Nodes = res.Roster
			}
			for role, n := range topology.NodesCountByRole(res.Roster) {
				view.RoleCounts[role.String()] = n
			}
			view.ClusterManagers = append(view.ClusterManagers, topology.ClusterManagersNames(res.Roster)...)
			st := res.Status
			view.Status = &st
		}

		writeJSON(w, http.StatusOK, view)
	}
}

func unitParam(r *http.Request) string {
	unit := chi.URLParam(r, "unit")
	if u, err := url.PathUnescape(unit); err == nil {
		return u
	}
	return unit
}

func busyShardsHandler(p StatusProvider, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		unit := unitParam(r)

		indices, err := p.BusyShards(r.Context(), unit)
		if err != nil {
			code := http.StatusBadGateway
			if errors.Is(err, reconcile.ErrNoShardSource) {
				code = http.StatusNotImplemented
			}
			log.WarnContext(r.Context(), "busy shards lookup failed", logger.NodeName(unit), logger.Error(err))
			writeJSON(w, code, errorView{Error: err.Error()})
			return
		}
		if indices == nil {
			indices = []string{}
		}

		writeJSON(w, http.StatusOK, BusyShardsView{Unit: unit, Busy: len(indices) > 0, Indices: indices})
	}
}

func startRemovalHandler(p StatusProvider, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		unit := unitParam(r)

		st, allowed, err := p.CanRemove(r.Context(), unit)
		if err != nil {
			code := http.StatusBadGateway
			if errors.Is(err, reconcile.ErrNoShardSource) {
				code = http.StatusNotImplemented
			}
			log.WarnContext(r.Context(), "removal check failed", logger.NodeName(unit), logger.Error(err))
			writeJSON(w, code, errorView{Error: err.Error()})
			return
		}

		code := http.StatusOK
		if !allowed {
			code = http.StatusConflict
		}
		log.InfoContext(r.Context(), "removal requested",
			logger.NodeName(unit),
			slog.Bool("allowed", allowed),
			slog.String("status", st.String()),
		)
		writeJSON(w, code, RemovalView{Unit: unit, Allowed: allowed, Status: st})
	}
}

func finishRemovalHandler(p StatusProvider, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		unit := unitParam(r)

		if err := p.FinishRemoval(r.Context(), unit); err != nil {
			code := http.StatusBadGateway
			if errors.Is(err, opslock.ErrNotHolder) {
				code = http.StatusConflict
			}
			log.WarnContext(r.Context(), "removal release failed", logger.NodeName(unit), logger.Error(err))
			writeJSON(w, code, errorView{Error: err.Error()})
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
