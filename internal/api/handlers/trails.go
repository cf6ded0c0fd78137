package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"rtk-console-service/internal/api/dto"
	"rtk-console-service/internal/codec"
	"rtk-console-service/internal/domain"
	"rtk-console-service/internal/ports"
	"rtk-console-service/internal/services"
)

// TrailHandler exposes trail CRUD endpoints.
type TrailHandler struct {
	Repo ports.TrailRepository
}

// List returns all stored trails. Each decodable trail carries segment
// distance metrics; a malformed payload is logged and listed without
// them, never blocking the rest of the list.
func (h *TrailHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.Repo.ListTrails(r.Context())
	if err != nil {
		log.Printf("list trails failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := make([]dto.TrailResponse, 0, len(records))
	for _, rec := range records {
		item := dto.TrailResponse{
			ID:          rec.ID,
			Name:        rec.Name,
			TrailPoints: rec.TrailPoints,
		}

		points, err := codec.DecodeWire(rec.Name, rec.TrailPoints)
		if err != nil {
			log.Printf("trail skipped for metrics: %v", err)
		} else {
			item.SegmentDistancesCm = services.SegmentDistancesCentimeters(points)
			item.TotalDistanceCm = services.TotalDistanceCentimeters(points)
		}

		res = append(res, item)
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Create persists a new trail from a completed drawing.
func (h *TrailHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTrailRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	points, err := decodeRequestPoints(req.Name, req.TrailPoints)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := services.SaveTrailPoints(r.Context(), h.Repo, req.Name, points)
	var invalid *domain.InvalidInputError
	if errors.As(err, &invalid) {
		writeError(w, r, http.StatusBadRequest, invalid.Error())
		return
	}
	if err != nil {
		log.Printf("create trail failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.TrailResponse{
		ID:          rec.ID,
		Name:        rec.Name,
		TrailPoints: rec.TrailPoints,
	})
}

// Delete removes a trail by its unique name.
func (h *TrailHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PathValue("name"))
	if name == "" {
		writeError(w, r, http.StatusBadRequest, "trail name is required")
		return
	}

	err := h.Repo.DeleteTrailByName(r.Context(), name)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "trail not found")
		return
	}
	if err != nil {
		log.Printf("delete trail failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "deleted", "name": name})
}

// decodeRequestPoints accepts trail_points as either a JSON array of
// pairs or a string wrapping one, and parses it through the trail
// codec so request and storage formats stay aligned.
func decodeRequestPoints(name string, raw json.RawMessage) ([]domain.GeoPoint, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, &domain.InvalidInputError{
			Field:  "trail_points",
			Reason: "add at least one point or path to the trail",
		}
	}

	payload := trimmed
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, &domain.InvalidInputError{Field: "trail_points", Reason: "invalid encoding"}
		}
		payload = s
	}

	points, err := codec.DecodeWire(name, payload)
	if err != nil {
		return nil, err
	}
	return points, nil
}
