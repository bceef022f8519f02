package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/qixeo/qixeo-web/config"
	pginfra "github.com/qixeo/qixeo-web/internal/infrastructure/postgres"
	"github.com/qixeo/qixeo-web/pkg/helpers"
)

// tokens_gc removes expired password recovery tokens. Run it from cron.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-tokens-gc", cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	n, err := pginfra.NewVerificationTokenRepository(pool).DeleteExpired(ctx, time.Now())
	if err != nil {
		logger.WithError(err).Fatal("purge failed")
	}
	logger.WithField("deleted", n).Info("expired tokens purged")
}
