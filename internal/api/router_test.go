package api

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"rtk-console-service/internal/adapters/repositories"
	"rtk-console-service/internal/codec"
	"rtk-console-service/internal/domain"
	"rtk-console-service/internal/draw"
	"rtk-console-service/internal/services"
	"rtk-console-service/internal/stream"

	_ "modernc.org/sqlite"
)

// memPositionCache keeps last positions in a map, standing in for Redis.
type memPositionCache struct {
	mu   sync.Mutex
	recs map[string]*domain.TelemetryRecord
}

func (c *memPositionCache) PutLastPosition(ctx context.Context, rec *domain.TelemetryRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.recs == nil {
		c.recs = make(map[string]*domain.TelemetryRecord)
	}
	clone := *rec
	c.recs[rec.MAC] = &clone
	return nil
}

func (c *memPositionCache) GetLastPosition(ctx context.Context, mac string) (*domain.TelemetryRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recs[mac], nil
}

type testEnv struct {
	srv    *httptest.Server
	broker *stream.Broker
	cache  *memPositionCache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	if err := repositories.InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	trails := repositories.NewSqliteTrailRepository(db)
	rovers := repositories.NewSqliteRoverRepository(db)
	broker := stream.NewBroker()
	cache := &memPositionCache{}
	commands := services.NewCommandStore(rovers, trails)

	srv := httptest.NewServer(NewRouter(trails, rovers, cache, broker, commands))
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, broker: broker, cache: cache}
}

func (e *testEnv) post(t *testing.T, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(e.srv.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp, decodeObject(t, resp)
}

func (e *testEnv) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeObject(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var v map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func decodeArray(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var v []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestTrailLifecycle(t *testing.T) {
	env := newTestEnv(t)

	resp, created := env.post(t, "/api/trails",
		`{"name": "perimeter", "trail_points": [["-112.074", "33.4484"], ["-112.0741", "33.4485"]]}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %v", resp.StatusCode, created)
	}
	if created["name"] != "perimeter" {
		t.Fatalf("created = %v", created)
	}

	// The console submits trail_points as a string in legacy mode.
	resp, _ = env.post(t, "/api/trails",
		`{"name": "approach", "trail_points": "[['-112.08', '33.45']]"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("legacy create status = %d", resp.StatusCode)
	}

	listResp, err := http.Get(env.srv.URL + "/api/trails")
	if err != nil {
		t.Fatal(err)
	}
	trails := decodeArray(t, listResp)
	if len(trails) != 2 {
		t.Fatalf("listed %d trails, want 2", len(trails))
	}
	if trails[0]["name"] != "perimeter" {
		t.Fatalf("first trail = %v", trails[0])
	}
	if _, ok := trails[0]["total_distance_cm"]; !ok {
		t.Fatal("path trail must carry distance metrics")
	}

	resp = env.do(t, http.MethodDelete, "/api/trails/perimeter", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = env.do(t, http.MethodDelete, "/api/trails/perimeter", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestTrailCreateRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body string
	}{
		{"empty name", `{"name": "", "trail_points": [["-112.074", "33.4484"]]}`},
		{"no points", `{"name": "x", "trail_points": []}`},
		{"null points", `{"name": "x", "trail_points": null}`},
		{"malformed points", `{"name": "x", "trail_points": "not json"}`},
		{"not json", `]]]`},
	}

	for _, c := range cases {
		resp, err := http.Post(env.srv.URL+"/api/trails", "application/json", strings.NewReader(c.body))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", c.name, resp.StatusCode)
		}
	}
}

func TestRoverLifecycleAndAssociations(t *testing.T) {
	env := newTestEnv(t)

	resp, rover := env.post(t, "/api/rovers",
		`{"name": "rover-north", "mac": "48:27:E2:1B:7C:0A", "status": "inactive"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create rover status = %d", resp.StatusCode)
	}
	roverID := int(rover["id"].(float64))
	if rover["status"] != "inactive" {
		t.Fatalf("rover = %v", rover)
	}

	resp, trail := env.post(t, "/api/trails",
		`{"name": "perimeter", "trail_points": [["-112.074", "33.4484"]]}`)
	resp.Body.Close()
	trailID := int(trail["id"].(float64))

	// Dropdowns submit the trail id as a string.
	resp, _ = env.post(t, fmt.Sprintf("/api/rovers/%d/trails", roverID),
		fmt.Sprintf(`{"trail_id": "%d"}`, trailID))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("associate status = %d", resp.StatusCode)
	}

	resp, _ = env.post(t, fmt.Sprintf("/api/rovers/%d/trails", roverID),
		fmt.Sprintf(`{"trail_id": %d}`, trailID))
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate associate status = %d, want 409", resp.StatusCode)
	}

	listResp, err := http.Get(fmt.Sprintf("%s/api/rovers/%d/trails", env.srv.URL, roverID))
	if err != nil {
		t.Fatal(err)
	}
	assoc := decodeArray(t, listResp)
	if len(assoc) != 1 || assoc[0]["name"] != "perimeter" {
		t.Fatalf("associations = %v", assoc)
	}

	resp = env.do(t, http.MethodDelete, fmt.Sprintf("/api/rovers/%d/trails/%d", roverID, trailID), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove association status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = env.do(t, http.MethodPut, fmt.Sprintf("/api/rovers/%d", roverID),
		`{"name": "rover-renamed", "mac": "48:27:E2:1B:7C:0A"}`)
	updated := decodeObject(t, resp)
	if updated["name"] != "rover-renamed" {
		t.Fatalf("updated = %v", updated)
	}

	resp = env.do(t, http.MethodDelete, fmt.Sprintf("/api/rovers/%d", roverID), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete rover status = %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestDeviceRegistration(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.post(t, "/rover/register", `{"mac": "48:27:E2:1B:7C:0A"}`)
	if resp.StatusCode != http.StatusBadRequest || body["status"] != "failure" {
		t.Fatalf("unknown mac: status=%d body=%v", resp.StatusCode, body)
	}

	resp, _ = env.post(t, "/api/rovers", `{"name": "rover-north", "mac": "48:27:E2:1B:7C:0A"}`)
	resp.Body.Close()

	// Firmware double-encodes its JSON body.
	resp, body = env.post(t, "/rover/register", `"{\"mac\": \"48:27:E2:1B:7C:0A\"}"`)
	if resp.StatusCode != http.StatusOK || body["status"] != "success" {
		t.Fatalf("known mac: status=%d body=%v", resp.StatusCode, body)
	}
}

func TestTelemetryIngestAndStream(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.post(t, "/api/rovers", `{"name": "rover-north", "mac": "aa:bb:cc"}`)
	resp.Body.Close()

	streamResp, err := http.Get(env.srv.URL + "/rover/get_coords")
	if err != nil {
		t.Fatal(err)
	}
	defer streamResp.Body.Close()
	if ct := streamResp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	// Wait until the stream is attached to the broker before publishing.
	deadline := time.Now().Add(5 * time.Second)
	for env.broker.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("stream never subscribed")
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, body := env.post(t, "/rover/update_gps",
		`{"mac": "aa:bb:cc", "fix_status": "RTK Fixed", "latitude": 33.4484, "longitude": -112.074}`)
	if resp.StatusCode != http.StatusOK || body["status"] != "success" {
		t.Fatalf("ingest: status=%d body=%v", resp.StatusCode, body)
	}

	scanner := bufio.NewScanner(streamResp.Body)
	var frame string
	for scanner.Scan() {
		if data, ok := strings.CutPrefix(scanner.Text(), "data: "); ok {
			frame = data
			break
		}
	}
	if frame == "" {
		t.Fatal("no telemetry frame on the stream")
	}

	var rec domain.TelemetryRecord
	if err := json.Unmarshal([]byte(frame), &rec); err != nil {
		t.Fatalf("frame is not a telemetry record: %v", err)
	}
	if rec.MAC != "aa:bb:cc" || rec.Latitude == nil || *rec.Latitude != 33.4484 {
		t.Fatalf("frame = %+v", rec)
	}
	if rec.LastUpdate == "" {
		t.Fatal("server must stamp last_update")
	}
}

func TestStreamReplaysLastKnownPositions(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.post(t, "/api/rovers", `{"name": "rover-north", "mac": "aa:bb:cc"}`)
	resp.Body.Close()

	resp, _ = env.post(t, "/rover/update_gps",
		`{"mac": "aa:bb:cc", "latitude": 33.4484, "longitude": -112.074}`)
	resp.Body.Close()

	// A console connecting after the update still sees the rover.
	streamResp, err := http.Get(env.srv.URL + "/rover/get_coords")
	if err != nil {
		t.Fatal(err)
	}
	defer streamResp.Body.Close()

	scanner := bufio.NewScanner(streamResp.Body)
	var frame string
	for scanner.Scan() {
		if data, ok := strings.CutPrefix(scanner.Text(), "data: "); ok {
			frame = data
			break
		}
	}

	var rec domain.TelemetryRecord
	if err := json.Unmarshal([]byte(frame), &rec); err != nil {
		t.Fatalf("replay frame: %v", err)
	}
	if rec.MAC != "aa:bb:cc" {
		t.Fatalf("replayed record = %+v", rec)
	}
}

func TestCommandQueueAndPoll(t *testing.T) {
	env := newTestEnv(t)

	resp, rover := env.post(t, "/api/rovers", `{"name": "rover-north", "mac": "aa:bb:cc"}`)
	resp.Body.Close()
	roverID := int(rover["id"].(float64))

	resp, trail := env.post(t, "/api/trails",
		`{"name": "perimeter", "trail_points": [["-112.074", "33.4484"]]}`)
	resp.Body.Close()
	trailID := int(trail["id"].(float64))

	resp, _ = env.post(t, fmt.Sprintf("/trail/upload/%d/%d", roverID, trailID), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("queue upload status = %d", resp.StatusCode)
	}

	pollResp, err := http.Get(env.srv.URL + "/trail/upload?mac=aa:bb:cc")
	if err != nil {
		t.Fatal(err)
	}
	cmd := decodeObject(t, pollResp)
	if cmd["trail_points"] == "" {
		t.Fatalf("poll = %v, want queued trail", cmd)
	}

	// Drained; the next poll comes back empty.
	pollResp, err = http.Get(env.srv.URL + "/trail/upload?mac=aa:bb:cc")
	if err != nil {
		t.Fatal(err)
	}
	cmd = decodeObject(t, pollResp)
	if cmd["trail_points"] != "" {
		t.Fatalf("second poll = %v, want empty", cmd)
	}

	resp, _ = env.post(t, fmt.Sprintf("/trail/stop/%d", roverID), "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("queue stop status = %d", resp.StatusCode)
	}

	pollResp, err = http.Get(env.srv.URL + "/trail/upload?mac=aa:bb:cc")
	if err != nil {
		t.Fatal(err)
	}
	cmd = decodeObject(t, pollResp)
	if cmd["trail_points"] != "[]" {
		t.Fatalf("stop poll = %v, want empty trail list", cmd)
	}

	resp, _ = env.post(t, fmt.Sprintf("/trail/upload/%d/999", roverID), "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown trail status = %d, want 404", resp.StatusCode)
	}
}

// A full operator pass: sketch a path, save it, read it back with
// distance metrics.
func TestDrawSaveAndReload(t *testing.T) {
	env := newTestEnv(t)

	session := draw.NewSession(nopReadout{}, nopCanvas{})
	session.Start(draw.ModePath)
	session.VertexAdded(domain.ToProjected(domain.GeoPoint{Lon: -112.074, Lat: 33.4484}))
	session.VertexAdded(domain.ToProjected(domain.GeoPoint{Lon: -112.0741, Lat: 33.4485}))
	session.VertexAdded(domain.ToProjected(domain.GeoPoint{Lon: -112.0742, Lat: 33.4485}))
	session.End()

	wire, err := codec.EncodeWire(codec.Encode(session.Geometry()))
	if err != nil {
		t.Fatal(err)
	}

	body, err := json.Marshal(map[string]any{"name": "survey", "trail_points": wire})
	if err != nil {
		t.Fatal(err)
	}

	resp, created := env.post(t, "/api/trails", string(body))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("save drawn trail status = %d: %v", resp.StatusCode, created)
	}

	listResp, err := http.Get(env.srv.URL + "/api/trails")
	if err != nil {
		t.Fatal(err)
	}
	trails := decodeArray(t, listResp)
	if len(trails) != 1 {
		t.Fatalf("listed %d trails", len(trails))
	}

	segments, ok := trails[0]["segment_distances_cm"].([]any)
	if !ok || len(segments) != 2 {
		t.Fatalf("segments = %v, want 2 entries", trails[0]["segment_distances_cm"])
	}
	total, _ := trails[0]["total_distance_cm"].(float64)
	if total <= 0 {
		t.Fatalf("total distance = %v, want > 0", total)
	}

	g, err := codec.Decode("survey", trails[0]["trail_points"].(string))
	if err != nil {
		t.Fatalf("reload decode: %v", err)
	}
	if g.Kind() != domain.KindPath || g.Len() != 3 {
		t.Fatalf("reloaded geometry kind=%v len=%d", g.Kind(), g.Len())
	}
}

type nopReadout struct{}

func (nopReadout) Show(string) {}
func (nopReadout) Hide()       {}

type nopCanvas struct{}

func (nopCanvas) Clear() {}
