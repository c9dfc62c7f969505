package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"ataka-storefront/internal/config"
	"ataka-storefront/internal/db"
	"ataka-storefront/internal/logging"
	"ataka-storefront/internal/migrate"
	bookrepo "ataka-storefront/internal/repository/book"
	"ataka-storefront/internal/seed"
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
	logger = logger.Named("seed")
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}
	n, err := seed.Apply(ctx, bookrepo.NewPostgres(pool, logger))
	if err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}
	logger.Info("seed applied", zap.Int("books", n))
}
