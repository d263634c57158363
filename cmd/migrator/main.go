package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"

	"github.com/UnknownOlympus/charon/internal/config"
	"github.com/UnknownOlympus/charon/internal/repository"
)

func main() {
	cfg := config.MustLoad()

	dbpool, dbErr := repository.NewDatabase(context.Background(), cfg.Postgres)
	if dbErr != nil {
		log.Fatalf("Failed to connect to DB: %v", dbErr)
	}
	defer dbpool.Close()

	dtb := stdlib.OpenDBFromPool(dbpool)
	defer dtb.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set goose dialect: %v", err)
	}
	if migrationErr := goose.Up(dtb, "migrations"); migrationErr != nil {
		log.Fatalf("Failed to apply migrations: %v", migrationErr)
	}

	log.Println("✅ Migrations applied successfully")
}
