package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"rtk-console-service/internal/adapters/repositories"
	"rtk-console-service/internal/platform/db"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// dbtool prepares the shared Postgres trail store used when several
// consoles point at one database instead of a local SQLite file.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Println("Initializing trail schema...")
	if err := repositories.InitPostgresSchema(ctx, conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	repo := repositories.NewSQLTrailRepository(conn)
	trails, err := repo.ListTrails(ctx)
	if err != nil {
		log.Fatalf("verification query failed: %v", err)
	}
	log.Printf("Store reachable trails=%d", len(trails))
}
