package ports

import (
	"context"

	"rtk-console-service/internal/domain"
)

// Port: a boundary for rover entities and their trail associations.
type RoverRepository interface {
	// Retrieve all rovers.
	ListRovers(ctx context.Context) ([]domain.Rover, error)
	// Retrieve one rover by id.
	GetRover(ctx context.Context, id int) (domain.Rover, error)
	// Retrieve one rover by its device MAC.
	GetRoverByMAC(ctx context.Context, mac string) (domain.Rover, error)
	// Persist a new rover; the store assigns the id.
	CreateRover(ctx context.Context, mac, name string, status domain.RoverStatus) (domain.Rover, error)
	// Update a rover's name and MAC.
	UpdateRover(ctx context.Context, id int, mac, name string) (domain.Rover, error)
	// Delete a rover and its trail associations.
	DeleteRover(ctx context.Context, id int) error
	// Stamp the rover's last_active time.
	TouchLastActive(ctx context.Context, mac string) error

	// Trails associated with a rover, in association order.
	ListTrailsForRover(ctx context.Context, roverID int) ([]TrailRecord, error)
	// Associate an existing trail with a rover. Fails when the pair
	// already exists.
	AddTrailToRover(ctx context.Context, roverID, trailID int) error
	// Remove one rover-trail association.
	RemoveTrailFromRover(ctx context.Context, roverID, trailID int) error
}
