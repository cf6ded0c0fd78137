package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"rtk-console-service/internal/adapters/cache"
	"rtk-console-service/internal/adapters/repositories"
	"rtk-console-service/internal/api"
	"rtk-console-service/internal/config"
	"rtk-console-service/internal/ports"
	"rtk-console-service/internal/services"
	"rtk-console-service/internal/stream"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, Redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/console.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/rovers.json")
	port := config.Get("PORT", "8080")
	redisAddr := config.Get("REDIS_ADDR", "")

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize schema and seed known rovers on startup for local runs.
	if err := initAndSeed(db, seedPath); err != nil {
		log.Fatal(err)
	}

	trails := repositories.NewSqliteTrailRepository(db)
	rovers := repositories.NewSqliteRoverRepository(db)

	// Last-position replay is optional: without Redis, new stream
	// subscribers simply start from live frames.
	var positions ports.PositionCache
	if redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		positions = cache.NewRedisPositionCache(client, 24*time.Hour)
		log.Printf("Position cache enabled addr=%s", redisAddr)
	}

	broker := stream.NewBroker()
	commands := services.NewCommandStore(rovers, trails)

	router := api.NewRouter(trails, rovers, positions, broker, commands)

	// WriteTimeout stays zero: /rover/get_coords holds the response
	// open indefinitely for SSE.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
