package main

import (
	"database/sql"
	"flag"
	"log"
	"os"

	"github.com/billforge/billforge/internal/config"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// Applies goose migrations from migrations/ against the configured database.
//
// Usage:
//
//	go run ./cmd/migrate -command up
//	go run ./cmd/migrate -command down
//	go run ./cmd/migrate -command status
func main() {
	command := flag.String("command", "up", "goose command: up, down, status, version")
	dir := flag.String("dir", "migrations", "directory with migration files")
	flag.Parse()

	// Best effort: a missing .env is fine in deployed environments
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Postgres.GetDSN())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set dialect: %v", err)
	}

	args := flag.Args()
	if err := goose.Run(*command, db, *dir, args...); err != nil {
		log.Fatalf("goose %s failed: %v", *command, err)
	}

	os.Exit(0)
}
