package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"ataka-storefront/internal/config"
	"ataka-storefront/internal/db"
	"ataka-storefront/internal/delivery"
	"ataka-storefront/internal/httpserver"
	"ataka-storefront/internal/logging"
	"ataka-storefront/internal/migrate"
	"ataka-storefront/internal/remotecart"
	bookrepo "ataka-storefront/internal/repository/book"
	snaprepo "ataka-storefront/internal/repository/cartsnapshot"
	"ataka-storefront/internal/seed"
	"ataka-storefront/internal/service/cartsync"
	"ataka-storefront/internal/service/catalog"
	"ataka-storefront/internal/service/session"
	"ataka-storefront/internal/storage"
	"ataka-storefront/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		dbpool    *pgxpool.Pool
		books     bookrepo.Repository
		snapshots snaprepo.Repository
		kvFor     func(id string) storage.KV
		probe     storage.KV
	)
	switch cfg.StorageBackend {
	case "postgres":
		dbpool, err = db.Connect(ctx, cfg.DBConnString, logger)
		if err != nil {
			logger.Fatal("connect to db", zap.Error(err))
		}
		defer dbpool.Close()
		if err := migrate.Apply(ctx, dbpool); err != nil {
			logger.Fatal("apply migrations", zap.Error(err))
		}
		books = bookrepo.NewPostgres(dbpool, logger)
		snapshots = snaprepo.NewPostgres(dbpool, logger)
		kvFor = func(id string) storage.KV { return storage.NewPostgres(dbpool, "session:"+id, logger) }
		probe = storage.NewPostgres(dbpool, "health", logger)
	default:
		books = bookrepo.NewMemory()
		snapshots = snaprepo.NewMemory()
		mem := storage.NewMemory()
		kvFor = func(id string) storage.KV { return storage.Namespaced(mem, "session:"+id) }
		probe = mem
		n, err := seed.Apply(ctx, books)
		if err != nil {
			logger.Fatal("seed in-memory catalog", zap.Error(err))
		}
		logger.Info("running on in-memory storage", zap.Int("books", n))
	}

	cartSync := cartsync.New(snapshots, logger)
	var syncer store.Syncer = cartSync
	if cfg.RemoteCartURL != "" {
		syncer = remotecart.NewClient(cfg.RemoteCartURL, logger)
		logger.Info("remote cart sync enabled", zap.String("url", cfg.RemoteCartURL))
	}

	sessions := session.New(kvFor,
		session.WithSyncer(syncer, cfg.SyncQueueSize, cfg.SyncTimeout),
		session.WithIdleTimeout(cfg.SessionIdle),
		session.WithLogger(logger),
	)
	defer sessions.Close()
	go sessions.Run(ctx, time.Minute)

	estimator := delivery.NewEstimator(
		delivery.NewPostalPincodeClient(cfg.PincodeAPIURL, logger),
		delivery.NewNominatimClient(cfg.NominatimURL, cfg.GeoUserAgent, logger),
		delivery.NewNominatimClient(cfg.NominatimURL, cfg.GeoUserAgent, logger),
		delivery.NewCachedLocator(delivery.NewIPLocator(cfg.IPLocationURL, logger)),
		delivery.WithFreeShippingThreshold(cfg.FreeShippingThreshold),
		delivery.WithEstimatorLogger(logger),
	)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Catalog:     catalog.New(books),
		Sessions:    sessions,
		Delivery:    estimator,
		CartSync:    cartSync,
		Storage:     probe,
		StorageName: cfg.StorageBackend,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	logger.Info("storefront api configured", zap.String("addr", cfg.HTTPAddr), zap.String("storage", cfg.StorageBackend))
	if err := srv.Run(ctx, cfg.ShutdownTimeout); err != nil {
		logger.Error("server exited with error", zap.Error(err))
	}
}
