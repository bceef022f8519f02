package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/qixeo/qixeo-web/config"
	"github.com/qixeo/qixeo-web/internal/application"
	pginfra "github.com/qixeo/qixeo-web/internal/infrastructure/postgres"
	"github.com/qixeo/qixeo-web/pkg/helpers"
)

func main() {
	batch := flag.Int("batch", 500, "users per page read from postgres")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall deadline")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-reindex", cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Fatalf("elasticsearch: %v", err)
	}
	if es == nil {
		log.Fatal("ELASTICSEARCH_ADDRS is empty")
	}

	svc := application.NewUserService(pginfra.NewUserRepository(pool), logger, es, cfg.ESUsersIndex)
	start := time.Now()
	n, err := svc.Reindex(ctx, *batch)
	if err != nil {
		logger.WithError(err).WithField("indexed", n).Fatal("reindex failed")
	}
	logger.WithField("indexed", n).WithField("took", time.Since(start).String()).Info("reindex complete")
}
