package stream

import (
	"encoding/json"
	"log"

	"rtk-console-service/internal/domain"
	"rtk-console-service/internal/tracking"
)

// StatusSink receives every parsed telemetry record, with or without a
// position fix, so textual fields such as fix status stay current even
// when no coordinates are available.
type StatusSink interface {
	OnTelemetry(rec *domain.TelemetryRecord)
}

// StatusFunc adapts a plain function to StatusSink.
type StatusFunc func(rec *domain.TelemetryRecord)

func (f StatusFunc) OnTelemetry(rec *domain.TelemetryRecord) { f(rec) }

// Adapter consumes a server-pushed sequence of telemetry frames and
// dispatches parsed records: coordinates go to the marker registry,
// the full record always goes to the status sink. Frames without a MAC
// are dropped silently. The adapter does not reconnect by itself; the
// frame source owns transport recovery, and registry contents survive
// reconnects because a rover's last known position stays valid until
// superseded.
type Adapter struct {
	registry *tracking.Registry
	status   StatusSink
}

func NewAdapter(registry *tracking.Registry, status StatusSink) *Adapter {
	return &Adapter{registry: registry, status: status}
}

// Run consumes frames until the channel closes, applying them in
// arrival order. Frames for the same MAC are therefore applied in the
// order received; last applied wins.
func (a *Adapter) Run(frames <-chan []byte) {
	for frame := range frames {
		a.Dispatch(frame)
	}
}

// Dispatch parses and applies a single frame.
func (a *Adapter) Dispatch(frame []byte) {
	var rec domain.TelemetryRecord
	if err := json.Unmarshal(frame, &rec); err != nil {
		log.Printf("telemetry frame dropped: %v", err)
		return
	}
	if rec.MAC == "" {
		return
	}

	if g, ok := rec.DecimalCoordinates(); ok {
		a.registry.Upsert(rec.MAC, g)
	}

	if a.status != nil {
		a.status.OnTelemetry(&rec)
	}
}
