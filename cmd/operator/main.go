// Command operator keeps an OpenSearch unit's roles in line with the planned
// cluster size and publishes its view of the topology over HTTP.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/opensearch-operator/pkg/config"
	"github.com/dmitrymomot/opensearch-operator/pkg/httpserver"
	"github.com/dmitrymomot/opensearch-operator/pkg/logger"
	"github.com/dmitrymomot/opensearch-operator/pkg/opensearch"
	"github.com/dmitrymomot/opensearch-operator/pkg/opslock"
	"github.com/dmitrymomot/opensearch-operator/pkg/peers"
	"github.com/dmitrymomot/opensearch-operator/pkg/reconcile"
)

type appConfig struct {
	Unit              string        `env:"UNIT_NAME,required"`
	Address           string        `env:"UNIT_ADDRESS"`
	RosterFile        string        `env:"ROSTER_FILE" envDefault:"roster.yaml"`
	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL" envDefault:"30s"`

	Log        logger.Config
	OpenSearch opensearch.Config
	Lock       opslock.Config
	HTTP       httpserver.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.NewFromConfig(cfg.Log, cfg.Unit,
		logger.WithContextExtractors(reconcile.PassIDExtractor, httpserver.RequestIDExtractor),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("operator stopped with error", logger.Error(err))
		os.Exit(1)
	}
	log.Info("operator stopped")
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	client, err := opensearch.New(ctx, cfg.OpenSearch)
	if err != nil {
		return err
	}
	cluster := opensearch.NewClusterClient(client, cfg.OpenSearch.RequestTimeout)
	ready := []func(context.Context) error{opensearch.Healthcheck(client)}

	var locker opslock.Locker
	if cfg.Lock.ConnectionURL != "" {
		rdb, err := opslock.Connect(ctx, cfg.Lock)
		if err != nil {
			return err
		}
		defer rdb.Close()
		locker = opslock.NewRedisLockerFromConfig(rdb, cfg.Lock)
		ready = append(ready, opslock.Healthcheck(rdb))
		log.Info("using redis ops lock", slog.String("key", cfg.Lock.Key))
	} else {
		locker = opslock.NewMemoryLocker(cfg.Lock.TTL)
		log.Warn("REDIS_URL not set, ops lock is local to this process")
	}

	roster, err := peers.NewFileSource(cfg.RosterFile)
	if err != nil {
		return err
	}

	reconciler, err := reconcile.New(cfg.Unit, roster, roster,
		reconcile.WithAddress(cfg.Address),
		reconcile.WithShardSource(cluster),
		reconcile.WithHealthSource(cluster),
		reconcile.WithLocker(locker),
		reconcile.WithInterval(cfg.ReconcileInterval),
		reconcile.WithLogger(log),
	)
	if err != nil {
		return err
	}

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	router := httpserver.StatusRouter(reconciler, log, ready...)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(reconciler.Run(ctx))
	g.Go(func() error { return srv.Run(ctx, router) })
	return g.Wait()
}
