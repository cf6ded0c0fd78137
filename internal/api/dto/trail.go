package dto

import "encoding/json"

// CreateTrailRequest carries a save request from the console.
// trail_points is either a JSON array of [longitude, latitude] string
// pairs or a string holding that array (legacy clients).
type CreateTrailRequest struct {
	Name        string          `json:"name"`
	TrailPoints json.RawMessage `json:"trail_points"`
}

// TrailResponse mirrors the persisted trail. Segment metrics are
// included when the payload decodes; a malformed trail still lists,
// just without them.
type TrailResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	TrailPoints string `json:"trail_points"`

	SegmentDistancesCm []float64 `json:"segment_distances_cm,omitempty"`
	TotalDistanceCm    float64   `json:"total_distance_cm,omitempty"`
}
