package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/qixeo/qixeo-web/config"
	"github.com/qixeo/qixeo-web/internal/application"
	"github.com/qixeo/qixeo-web/internal/domain/entity"
	pginfra "github.com/qixeo/qixeo-web/internal/infrastructure/postgres"
	"github.com/qixeo/qixeo-web/pkg/helpers"
)

func main() {
	email := flag.String("email", "demo@qixeo.com", "demo user email")
	name := flag.String("name", "Demo User", "demo user name")
	password := flag.String("password", "password123", "demo user password (empty leaves the user without one)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	u := &entity.User{Name: *name, Email: *email}
	if *password != "" {
		hash, err := helpers.HashPassword(*password)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		u.HashedPassword = hash
	}

	if err := pginfra.NewUserRepository(pool).Upsert(ctx, u); err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s name=%s password=%s\n", u.ID, u.Email, u.Name, *password)

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil || es == nil {
		return
	}
	svc := application.NewUserService(pginfra.NewUserRepository(pool), logger, es, cfg.ESUsersIndex)
	if err := svc.IndexUser(ctx, u); err != nil {
		logger.WithError(err).Warn("failed to index seeded user")
		return
	}
	fmt.Println("indexed seeded user")
}
