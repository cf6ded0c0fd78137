package services

import (
	"context"
	"fmt"
	"strings"

	"rtk-console-service/internal/codec"
	"rtk-console-service/internal/domain"
	"rtk-console-service/internal/ports"
)

// SaveTrail validates and persists a completed drawing as a named
// trail. The name must be non-empty and the geometry must hold at
// least one vertex; both are rejected before any storage call.
func SaveTrail(
	ctx context.Context,
	repo ports.TrailRepository,
	name string,
	geometry *domain.Geometry,
) (ports.TrailRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ports.TrailRecord{}, &domain.InvalidInputError{
			Field:  "name",
			Reason: "must be non-empty",
		}
	}
	if geometry == nil || geometry.Len() == 0 {
		return ports.TrailRecord{}, &domain.InvalidInputError{
			Field:  "trail_points",
			Reason: "add at least one point or path to the trail",
		}
	}

	wire, err := codec.EncodeWire(codec.Encode(geometry))
	if err != nil {
		return ports.TrailRecord{}, fmt.Errorf("save trail %q: %w", name, err)
	}

	rec, err := repo.CreateTrail(ctx, name, wire)
	if err != nil {
		return ports.TrailRecord{}, fmt.Errorf("save trail %q: %w", name, err)
	}
	return rec, nil
}

// SaveTrailPoints persists geographic points already in decimal
// degrees, as received from the console's save request.
func SaveTrailPoints(
	ctx context.Context,
	repo ports.TrailRepository,
	name string,
	points []domain.GeoPoint,
) (ports.TrailRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ports.TrailRecord{}, &domain.InvalidInputError{
			Field:  "name",
			Reason: "must be non-empty",
		}
	}
	if len(points) == 0 {
		return ports.TrailRecord{}, &domain.InvalidInputError{
			Field:  "trail_points",
			Reason: "add at least one point or path to the trail",
		}
	}

	wire, err := codec.EncodeWire(points)
	if err != nil {
		return ports.TrailRecord{}, fmt.Errorf("save trail %q: %w", name, err)
	}

	rec, err := repo.CreateTrail(ctx, name, wire)
	if err != nil {
		return ports.TrailRecord{}, fmt.Errorf("save trail %q: %w", name, err)
	}
	return rec, nil
}

// LoadedTrail pairs a decoded trail with its renderable geometry.
type LoadedTrail struct {
	Trail    domain.Trail
	Geometry *domain.Geometry
}

// TrailLoadFailure reports one trail that could not be decoded.
type TrailLoadFailure struct {
	Record ports.TrailRecord
	Err    error
}

// LoadTrails lists and decodes all trails. A malformed payload is
// reported on the failure list and never aborts the load of the
// remaining trails.
func LoadTrails(ctx context.Context, repo ports.TrailRepository) ([]LoadedTrail, []TrailLoadFailure, error) {
	records, err := repo.ListTrails(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load trails: %w", err)
	}

	loaded := make([]LoadedTrail, 0, len(records))
	var failures []TrailLoadFailure
	for _, rec := range records {
		points, err := codec.DecodeWire(rec.Name, rec.TrailPoints)
		if err != nil {
			failures = append(failures, TrailLoadFailure{Record: rec, Err: err})
			continue
		}

		loaded = append(loaded, LoadedTrail{
			Trail:    domain.Trail{ID: rec.ID, Name: rec.Name, Points: points},
			Geometry: codec.GeometryFromPoints(points),
		})
	}

	return loaded, failures, nil
}
