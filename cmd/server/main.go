package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"planets/internal/planet"
	"planets/internal/planet/audit"
	planetmetrics "planets/internal/planet/metrics"
	"planets/internal/planet/service"
	"planets/internal/planet/store"
	"planets/internal/planet/store/memory"
	"planets/internal/planet/store/redisstore"
	"planets/internal/planet/store/sqlstore"
	"planets/internal/platform/config"
	"planets/internal/platform/health"
	"planets/internal/platform/httpserver"
	"planets/internal/platform/logger"
	"planets/internal/platform/metrics"
	"planets/internal/platform/migrations"
	redisclient "planets/internal/platform/redis"
	httptransport "planets/internal/transport/http"
	"planets/pkg/platform/circuit"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Server.LogLevel, cfg.Server.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.New(reg)

	checker := health.NewChecker(log, 2*time.Second)

	planetStore, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()
	checker.Add("store", planetStore)

	publisher, closePublisher, err := openAuditPublisher(ctx, cfg.Audit, log, checker)
	if err != nil {
		return err
	}
	defer closePublisher()

	mod, err := planet.New(planetStore, log,
		service.WithMetrics(planetmetrics.New(reg)),
		service.WithAuditPublisher(publisher),
	)
	if err != nil {
		return err
	}

	if cfg.Store.Seed {
		seeded, err := store.SeedPlanets(ctx, planetStore)
		if err != nil {
			return fmt.Errorf("seed planets: %w", err)
		}
		log.Info("seeded demo planets", "count", len(seeded))
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		Metrics:        httpMetrics,
		Health:         checker,
		RequestTimeout: cfg.Server.RequestTimeout,
		Modules:        []httptransport.Registrar{mod},
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting planets service", "addr", cfg.Server.Addr, "store", cfg.Store.Driver)
		return httpserver.Run(gctx, srv, cfg.Server.ShutdownTimeout)
	})
	return g.Wait()
}

// openStore selects the record store and returns a closer for its resources.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (planet.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		return openSQLStore(ctx, sqlstore.Postgres, cfg.Store.DatabaseURL, cfg.Store, log)
	case config.DriverSQLite:
		return openSQLStore(ctx, sqlstore.SQLite, cfg.Store.SQLitePath, cfg.Store, log)
	case config.DriverRedis:
		client, err := redisclient.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewRedis(client.Client), func() { _ = client.Close() }, nil
	default:
		log.Warn("using in-memory planet store; data is lost on restart")
		return memory.New(), func() {}, nil
	}
}

func openSQLStore(ctx context.Context, dialect sqlstore.Dialect, dsn string, cfg config.Store, log *slog.Logger) (planet.Store, func(), error) {
	db, err := sqlstore.Open(ctx, dialect, dsn, cfg.MaxOpenConns)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() { closeQuietly(db, log) }
	if cfg.Migrate {
		if err := migrations.Apply(ctx, db, string(dialect)); err != nil {
			closeDB()
			return nil, nil, err
		}
		log.Info("schema migrations applied", "dialect", string(dialect))
	}
	return sqlstore.New(db, dialect), closeDB, nil
}

func closeQuietly(db *sql.DB, log *slog.Logger) {
	if err := db.Close(); err != nil {
		log.Warn("failed to close database", "error", err)
	}
}

// openAuditPublisher always logs audit events and additionally ships them to
// Kafka when brokers are configured.
func openAuditPublisher(ctx context.Context, cfg config.Audit, log *slog.Logger, checker *health.Checker) (service.AuditPublisher, func(), error) {
	logPublisher := audit.NewLogPublisher(log)
	brokers := cfg.Brokers()
	if len(brokers) == 0 {
		return logPublisher, func() {}, nil
	}

	kafka, err := audit.NewKafkaPublisher(brokers, cfg.Topic)
	if err != nil {
		return nil, nil, err
	}
	if err := kafka.EnsureTopic(ctx, cfg.Partitions, cfg.Replication); err != nil {
		kafka.Close()
		return nil, nil, fmt.Errorf("ensure audit topic: %w", err)
	}
	checker.Add("kafka", kafka)
	log.Info("publishing audit events to kafka", "topic", cfg.Topic, "brokers", brokers)
	guarded := audit.NewGuarded(kafka, circuit.New("kafka", circuit.WithCooldown(cfg.BreakerCooldown)), log)
	return audit.Fanout{logPublisher, guarded}, kafka.Close, nil
}
