// Package codec converts drawn geometries to and from the persisted
// trail_points representation: a JSON array of [longitude, latitude]
// string pairs in decimal degrees.
package codec

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"rtk-console-service/internal/domain"
)

// Encode maps each projected vertex of a geometry to geographic
// decimal degrees, in insertion order. A path reduced to a single
// vertex encodes identically to a point, so nothing downstream needs
// to special-case it.
func Encode(g *domain.Geometry) []domain.GeoPoint {
	pts := g.Points()
	out := make([]domain.GeoPoint, 0, len(pts))
	for _, p := range pts {
		out = append(out, domain.ToGeographic(p))
	}
	return out
}

// EncodeWire renders geographic points as the persisted trail_points
// string. Coordinates are serialized as strings to match the store's
// legacy format.
func EncodeWire(points []domain.GeoPoint) (string, error) {
	pairs := make([][2]string, 0, len(points))
	for _, p := range points {
		pairs = append(pairs, [2]string{
			strconv.FormatFloat(p.Lon, 'f', -1, 64),
			strconv.FormatFloat(p.Lat, 'f', -1, 64),
		})
	}
	b, err := json.Marshal(pairs)
	if err != nil {
		return "", fmt.Errorf("encode trail points: %w", err)
	}
	return string(b), nil
}

// DecodeWire parses a persisted trail_points payload into geographic
// points. Legacy payloads delimited with single quotes are normalized
// to valid JSON before parsing. Failures are reported as
// MalformedTrailError and stay isolated to the trail being loaded.
func DecodeWire(trailName, payload string) ([]domain.GeoPoint, error) {
	normalized := strings.ReplaceAll(payload, "'", `"`)

	var pairs [][]any
	dec := json.NewDecoder(strings.NewReader(normalized))
	dec.UseNumber()
	if err := dec.Decode(&pairs); err != nil {
		return nil, &domain.MalformedTrailError{TrailName: trailName, Cause: err}
	}

	if len(pairs) == 0 {
		return nil, &domain.MalformedTrailError{
			TrailName: trailName,
			Cause:     fmt.Errorf("no coordinate pairs"),
		}
	}

	points := make([]domain.GeoPoint, 0, len(pairs))
	for i, pair := range pairs {
		if len(pair) != 2 {
			return nil, &domain.MalformedTrailError{
				TrailName: trailName,
				Cause:     fmt.Errorf("pair %d has %d elements, want 2", i, len(pair)),
			}
		}
		lon, err := coordinate(pair[0])
		if err != nil {
			return nil, &domain.MalformedTrailError{
				TrailName: trailName,
				Cause:     fmt.Errorf("pair %d longitude: %w", i, err),
			}
		}
		lat, err := coordinate(pair[1])
		if err != nil {
			return nil, &domain.MalformedTrailError{
				TrailName: trailName,
				Cause:     fmt.Errorf("pair %d latitude: %w", i, err),
			}
		}
		points = append(points, domain.GeoPoint{Lon: lon, Lat: lat})
	}

	return points, nil
}

// The store writes coordinates as strings, but older payloads carry
// bare numbers; accept both.
func coordinate(v any) (float64, error) {
	switch c := v.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return 0, fmt.Errorf("parse coordinate %q: %w", c, err)
		}
		return f, nil
	case json.Number:
		f, err := c.Float64()
		if err != nil {
			return 0, fmt.Errorf("parse coordinate %q: %w", c.String(), err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("coordinate is %T, want string or number", v)
	}
}

// Decode converts persisted geographic points into a renderable
// geometry: a point for a single-element sequence, a path otherwise.
func Decode(trailName, payload string) (*domain.Geometry, error) {
	points, err := DecodeWire(trailName, payload)
	if err != nil {
		return nil, err
	}
	return GeometryFromPoints(points), nil
}

// GeometryFromPoints projects geographic points into a renderable
// geometry, following the same single-pair-is-a-point rule as Decode.
func GeometryFromPoints(points []domain.GeoPoint) *domain.Geometry {
	projected := make([]domain.ProjectedPoint, 0, len(points))
	for _, p := range points {
		projected = append(projected, domain.ToProjected(p))
	}

	if len(projected) == 1 {
		return domain.NewPointGeometry(projected[0])
	}
	return domain.NewPathGeometry(projected...)
}
