package ports

import (
	"context"
	"errors"
)

// ErrNotFound is returned by repositories when a requested entity does
// not exist. Callers match it with errors.Is.
var ErrNotFound = errors.New("not found")

// TrailRecord is a trail as persisted: trail_points carries the wire
// encoding, left for the codec to parse so that a malformed payload
// stays isolated to the one trail being decoded.
type TrailRecord struct {
	ID          int
	Name        string
	TrailPoints string
}

// Port: a boundary for storing and retrieving trails.
type TrailRepository interface {
	// Retrieve all trails in insertion order.
	ListTrails(ctx context.Context) ([]TrailRecord, error)
	// Retrieve one trail by id.
	GetTrail(ctx context.Context, id int) (TrailRecord, error)
	// Persist a new trail; the store assigns the id. Fails when the
	// name is already taken.
	CreateTrail(ctx context.Context, name, trailPoints string) (TrailRecord, error)
	// Delete a trail by its unique name.
	DeleteTrailByName(ctx context.Context, name string) error
}
