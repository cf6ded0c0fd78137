package api

import (
	"net/http"

	"rtk-console-service/internal/api/handlers"
	"rtk-console-service/internal/ports"
	"rtk-console-service/internal/services"
	"rtk-console-service/internal/stream"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay
// unaware of concrete adapters).
func NewRouter(
	trails ports.TrailRepository,
	rovers ports.RoverRepository,
	positions ports.PositionCache,
	broker *stream.Broker,
	commands *services.CommandStore,
) http.Handler {
	mux := http.NewServeMux()

	trailHandler := &handlers.TrailHandler{Repo: trails}
	roverHandler := &handlers.RoverHandler{Repo: rovers}
	telemetryHandler := &handlers.TelemetryHandler{
		Broker: broker,
		Cache:  positions,
		Rovers: rovers,
	}
	commandHandler := &handlers.CommandHandler{Commands: commands}

	mux.HandleFunc("GET /health", handlers.Health)

	mux.HandleFunc("GET /api/trails", trailHandler.List)
	mux.HandleFunc("POST /api/trails", trailHandler.Create)
	mux.HandleFunc("DELETE /api/trails/{name}", trailHandler.Delete)

	mux.HandleFunc("GET /api/rovers", roverHandler.List)
	mux.HandleFunc("POST /api/rovers", roverHandler.Create)
	mux.HandleFunc("PUT /api/rovers/{id}", roverHandler.Update)
	mux.HandleFunc("DELETE /api/rovers/{id}", roverHandler.Delete)
	mux.HandleFunc("GET /api/rovers/{id}/trails", roverHandler.ListTrails)
	mux.HandleFunc("POST /api/rovers/{id}/trails", roverHandler.AddTrail)
	mux.HandleFunc("DELETE /api/rovers/{id}/trails/{trailID}", roverHandler.RemoveTrail)

	mux.HandleFunc("POST /rover/register", telemetryHandler.Register)
	mux.HandleFunc("POST /rover/update_gps", telemetryHandler.UpdateGPS)
	mux.HandleFunc("GET /rover/get_coords", telemetryHandler.StreamCoords)

	mux.HandleFunc("POST /trail/upload/{roverID}/{trailID}", commandHandler.Upload)
	mux.HandleFunc("POST /trail/stop/{roverID}", commandHandler.Stop)
	mux.HandleFunc("GET /trail/upload", commandHandler.Poll)

	return loggingMiddleware(mux)
}
