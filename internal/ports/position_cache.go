package ports

import (
	"context"

	"rtk-console-service/internal/domain"
)

// Port: a boundary for the last-known-position store. Absence of a
// record is reported as (nil, nil), not an error.
type PositionCache interface {
	// Store the latest telemetry record for its MAC.
	PutLastPosition(ctx context.Context, rec *domain.TelemetryRecord) error
	// Retrieve the latest record for a MAC, or nil when none is known.
	GetLastPosition(ctx context.Context, mac string) (*domain.TelemetryRecord, error)
}
