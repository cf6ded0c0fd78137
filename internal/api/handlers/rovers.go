package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"rtk-console-service/internal/api/dto"
	"rtk-console-service/internal/domain"
	"rtk-console-service/internal/ports"
)

// RoverHandler exposes rover CRUD and rover-trail association
// endpoints.
type RoverHandler struct {
	Repo ports.RoverRepository
}

func (h *RoverHandler) List(w http.ResponseWriter, r *http.Request) {
	rovers, err := h.Repo.ListRovers(r.Context())
	if err != nil {
		log.Printf("list rovers failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := make([]dto.RoverResponse, 0, len(rovers))
	for _, rv := range rovers {
		res = append(res, roverResponse(rv))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *RoverHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	defer r.Body.Close()

	name := strings.TrimSpace(req.Name)
	mac := strings.TrimSpace(req.MAC)
	if name == "" || mac == "" {
		writeError(w, r, http.StatusBadRequest, "name and mac are required")
		return
	}

	rv, err := h.Repo.CreateRover(r.Context(), mac, name, domain.ParseRoverStatus(req.Status))
	if err != nil {
		log.Printf("create rover failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, roverResponse(rv))
}

func (h *RoverHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateRoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	defer r.Body.Close()

	name := strings.TrimSpace(req.Name)
	mac := strings.TrimSpace(req.MAC)
	if name == "" || mac == "" {
		writeError(w, r, http.StatusBadRequest, "name and mac are required")
		return
	}

	rv, err := h.Repo.UpdateRover(r.Context(), id, mac, name)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "rover not found")
		return
	}
	if err != nil {
		log.Printf("update rover failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, roverResponse(rv))
}

func (h *RoverHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	err := h.Repo.DeleteRover(r.Context(), id)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "rover not found")
		return
	}
	if err != nil {
		log.Printf("delete rover failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}

// ListTrails returns the trails associated with one rover.
func (h *RoverHandler) ListTrails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	trails, err := h.Repo.ListTrailsForRover(r.Context(), id)
	if err != nil {
		log.Printf("list rover trails failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := make([]dto.TrailResponse, 0, len(trails))
	for _, t := range trails {
		res = append(res, dto.TrailResponse{ID: t.ID, Name: t.Name, TrailPoints: t.TrailPoints})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *RoverHandler) AddTrail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.AddTrailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	defer r.Body.Close()

	if req.TrailID == 0 {
		writeError(w, r, http.StatusBadRequest, "trail_id is required")
		return
	}

	if err := h.Repo.AddTrailToRover(r.Context(), id, int(req.TrailID)); err != nil {
		log.Printf("add trail to rover failed: %v", err)
		writeError(w, r, http.StatusConflict, "trail may already be associated with this rover")
		return
	}

	writeJSON(w, r, http.StatusCreated, map[string]string{"status": "added"})
}

func (h *RoverHandler) RemoveTrail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	trailID, ok := pathID(w, r, "trailID")
	if !ok {
		return
	}

	err := h.Repo.RemoveTrailFromRover(r.Context(), id, trailID)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "association not found")
		return
	}
	if err != nil {
		log.Printf("remove trail from rover failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "removed"})
}

func roverResponse(rv domain.Rover) dto.RoverResponse {
	return dto.RoverResponse{
		ID:         rv.ID,
		MAC:        rv.MAC,
		Name:       rv.Name,
		Status:     rv.Status.String(),
		LastActive: rv.LastActive,
	}
}

// pathID parses a numeric path segment, writing the error response
// itself when the value is missing or not a number.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v := r.PathValue(name)
	id, err := strconv.Atoi(v)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
