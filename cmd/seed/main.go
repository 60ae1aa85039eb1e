// Command seed creates the demo user and accounts in Postgres.
//
// Usage:
//
//	DATABASE_URL=postgres://... go run ./cmd/seed
//
// Seeding is idempotent: re-running against an already seeded database
// is a no-op.
package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/minibank/core/internal/account"
	"github.com/minibank/core/internal/config"
	"github.com/minibank/core/internal/demo"
	"github.com/minibank/core/internal/risk"
	"github.com/minibank/core/internal/transfer"
	"github.com/minibank/core/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbURL := cfg.DatabaseURL
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	accountStore := account.NewPostgresStore(db)
	u, err := demo.Seed(ctx, user.NewPostgresStore(db), accountStore, cfg.DemoEmail)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	accts, err := accountStore.ListByUser(ctx, u.ID)
	if err != nil {
		log.Fatalf("Listing demo accounts failed: %v", err)
	}
	if err := demo.SeedHistory(ctx, transfer.NewPostgresStore(db), risk.NewPostgresStore(db), u, accts); err != nil {
		log.Fatalf("Seeding transfer history failed: %v", err)
	}

	log.Printf("Seeded demo user %s (%s)", u.ID, u.Email)
}
