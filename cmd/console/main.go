package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"rtk-console-service/internal/adapters/maplayer"
	"rtk-console-service/internal/config"
	"rtk-console-service/internal/domain"
	"rtk-console-service/internal/stream"
	"rtk-console-service/internal/tracking"

	"github.com/joho/godotenv"
)

// console is a headless operator view: it attaches to the server's
// telemetry stream, keeps one marker per rover in a local layer, and
// prints a status line for every record received.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	streamURL := config.Get("STREAM_URL", "http://localhost:8080/rover/get_coords")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	layer := maplayer.NewVectorLayer()
	registry := tracking.NewRegistry(layer)
	adapter := stream.NewAdapter(registry, stream.StatusFunc(printStatus))

	client := stream.NewSSEClient(streamURL)
	log.Printf("Attaching to telemetry stream url=%s", streamURL)

	// Frames closes when ctx is cancelled, so Run doubles as the
	// shutdown wait.
	adapter.Run(client.Frames(ctx))

	log.Printf("Console stopped rovers_seen=%d", registry.Len())
}

func printStatus(rec *domain.TelemetryRecord) {
	if g, ok := rec.DecimalCoordinates(); ok {
		log.Printf("rover=%s fix=%s lat=%.6f lon=%.6f sats=%d time=%s",
			rec.MAC, rec.FixStatus, g.Lat, g.Lon,
			rec.TotalSatellitesInUse(), domain.FormatUTCTime(rec.TimeUTC))
		return
	}
	log.Printf("rover=%s fix=%s (no position)", rec.MAC, rec.FixStatus)
}
