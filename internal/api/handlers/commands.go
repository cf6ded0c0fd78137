package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"rtk-console-service/internal/api/dto"
	"rtk-console-service/internal/ports"
	"rtk-console-service/internal/services"
)

// CommandHandler queues upload/stop instructions for rovers and serves
// the device-side poll that drains them.
type CommandHandler struct {
	Commands *services.CommandStore
}

// Upload queues a trail for a rover. Fire-and-forget from the
// operator's perspective; delivery happens on the rover's next poll.
func (h *CommandHandler) Upload(w http.ResponseWriter, r *http.Request) {
	roverID, ok := pathID(w, r, "roverID")
	if !ok {
		return
	}
	trailID, ok := pathID(w, r, "trailID")
	if !ok {
		return
	}

	err := h.Commands.QueueUpload(r.Context(), roverID, trailID)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "rover or trail not found")
		return
	}
	if err != nil {
		log.Printf("queue upload failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "queued"})
}

// Stop queues an empty trail list, telling the rover to stop.
func (h *CommandHandler) Stop(w http.ResponseWriter, r *http.Request) {
	roverID, ok := pathID(w, r, "roverID")
	if !ok {
		return
	}

	err := h.Commands.QueueStop(r.Context(), roverID)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "rover not found")
		return
	}
	if err != nil {
		log.Printf("queue stop failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "queued"})
}

// Poll hands the pending command for the calling device to it, once.
// An empty trail_points field means nothing is queued.
func (h *CommandHandler) Poll(w http.ResponseWriter, r *http.Request) {
	mac := strings.TrimSpace(r.URL.Query().Get("mac"))
	if mac == "" {
		writeError(w, r, http.StatusBadRequest, "mac is required")
		return
	}

	cmd, ok := h.Commands.Take(mac)
	if !ok {
		writeJSON(w, r, http.StatusOK, dto.PendingCommandResponse{MAC: mac})
		return
	}

	writeJSON(w, r, http.StatusOK, dto.PendingCommandResponse{
		MAC:         cmd.MAC,
		TrailPoints: cmd.TrailPoints,
	})
}
