// Package httpserver exposes the operator's probe and status endpoints.
//
// Server wraps net/http with context-driven graceful shutdown and functional
// options (WithAddr, WithReadTimeout, WithShutdownTimeout, WithLogger). Run
// blocks until its context is cancelled, which makes it a natural errgroup
// member next to the reconciler loop.
//
// StatusRouter builds a chi router serving:
//
//   - GET /healthz: liveness, always "ALIVE".
//   - GET /readyz: readiness, "READY" when every readiness func succeeds.
//   - GET /topology: the last reconciled roster with role counts and the
//     cluster manager names.
//   - GET /units/{unit}/busy-shards: indices with shards initializing or
//     relocating on the unit.
//   - POST /units/{unit}/removal: takes the ops lock when the unit may
//     leave; 409 with the blocking status otherwise.
//   - DELETE /units/{unit}/removal: releases the ops lock after removal.
//
// # Usage
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	router := httpserver.StatusRouter(reconciler, log, cluster.Ping)
//	g.Go(func() error { return srv.Run(ctx, router) })
//
// Run wraps listen and serve failures with ErrStart and shutdown failures
// with ErrShutdown.
package httpserver
