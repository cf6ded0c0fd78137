package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"rtk-console-service/internal/api/dto"
	"rtk-console-service/internal/domain"
	"rtk-console-service/internal/ports"
	"rtk-console-service/internal/stream"
)

// TelemetryHandler ingests rover GNSS updates and streams them to
// operator consoles over server-sent events.
type TelemetryHandler struct {
	Broker *stream.Broker
	Cache  ports.PositionCache
	Rovers ports.RoverRepository

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func (h *TelemetryHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// UpdateGPS accepts one telemetry frame from a device, stamps it and
// publishes it to every connected console. Cache or rover-store
// failures are logged but never fail ingest; live telemetry must keep
// flowing even when persistence is unhealthy.
func (h *TelemetryHandler) UpdateGPS(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	r.Body.Close()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "unreadable body")
		return
	}

	var rec domain.TelemetryRecord
	if err := unmarshalDeviceJSON(body, &rec); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if rec.MAC == "" {
		writeError(w, r, http.StatusBadRequest, "mac is required")
		return
	}

	rec.LastUpdate = h.now().Format("2006-01-02 15:04:05")

	if err := h.Rovers.TouchLastActive(r.Context(), rec.MAC); err != nil {
		log.Printf("touch last_active failed mac=%s err=%v", rec.MAC, err)
	}
	if h.Cache != nil {
		if err := h.Cache.PutLastPosition(r.Context(), &rec); err != nil {
			log.Printf("position cache put failed mac=%s err=%v", rec.MAC, err)
		}
	}

	frame, err := json.Marshal(&rec)
	if err != nil {
		log.Printf("marshal telemetry failed mac=%s err=%v", rec.MAC, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	h.Broker.Publish(frame)

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "success"})
}

// Register answers a device boot announcement: 200 for a known MAC,
// 400 until an operator has created the rover.
func (h *TelemetryHandler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 4096))
	r.Body.Close()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "unreadable body")
		return
	}

	var req dto.RegisterRequest
	if err := unmarshalDeviceJSON(body, &req); err != nil || req.MAC == "" {
		writeError(w, r, http.StatusBadRequest, "mac is required")
		return
	}

	_, err = h.Rovers.GetRoverByMAC(r.Context(), req.MAC)
	if errors.Is(err, ports.ErrNotFound) {
		log.Printf("register rejected: unknown mac=%s", req.MAC)
		writeJSON(w, r, http.StatusBadRequest, map[string]string{"status": "failure"})
		return
	}
	if err != nil {
		log.Printf("register lookup failed mac=%s err=%v", req.MAC, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	log.Printf("device registered mac=%s", req.MAC)
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "success"})
}

// StreamCoords serves the telemetry event stream: one SSE connection
// per console session. Known last positions are replayed first so a
// console joining late renders every rover immediately; after that,
// frames flow in publish order until the client disconnects.
func (h *TelemetryHandler) StreamCoords(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	frames, cancel := h.Broker.Subscribe()
	defer cancel()

	for _, frame := range h.replayFrames(r) {
		fmt.Fprintf(w, "data: %s\n\n", frame)
	}
	flusher.Flush()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			// Comment line keeps proxies from idling the connection out.
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case frame, open := <-frames:
			if !open {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", frame)
			flusher.Flush()
		}
	}
}

// replayFrames collects the cached last position of every known rover.
// Cache misses and errors just shrink the replay.
func (h *TelemetryHandler) replayFrames(r *http.Request) [][]byte {
	if h.Cache == nil || h.Rovers == nil {
		return nil
	}

	rovers, err := h.Rovers.ListRovers(r.Context())
	if err != nil {
		log.Printf("replay: list rovers failed: %v", err)
		return nil
	}

	frames := make([][]byte, 0, len(rovers))
	for _, rv := range rovers {
		rec, err := h.Cache.GetLastPosition(r.Context(), rv.MAC)
		if err != nil {
			log.Printf("replay: cache get failed mac=%s err=%v", rv.MAC, err)
			continue
		}
		if rec == nil {
			continue
		}
		b, err := json.Marshal(rec)
		if err != nil {
			continue
		}
		frames = append(frames, b)
	}
	return frames
}

// unmarshalDeviceJSON tolerates the firmware's double-encoded bodies,
// where the JSON object arrives wrapped in a JSON string.
func unmarshalDeviceJSON(body []byte, v any) error {
	var wrapped string
	if err := json.Unmarshal(body, &wrapped); err == nil {
		body = []byte(wrapped)
	}
	return json.Unmarshal(body, v)
}
