package services

import (
	"context"
	"fmt"
	"sync"

	"rtk-console-service/internal/ports"
)

// PendingCommand is the next instruction a rover picks up on its poll:
// a trail to follow, or an empty point list meaning stop.
type PendingCommand struct {
	MAC         string `json:"mac"`
	TrailPoints string `json:"trail_points"`
}

// CommandStore queues at most one pending command per rover. Upload
// and stop requests are fire-and-forget from the operator's side; the
// device drains its command on the next poll. Later commands replace
// earlier undelivered ones.
type CommandStore struct {
	mu      sync.Mutex
	pending map[string]PendingCommand

	rovers ports.RoverRepository
	trails ports.TrailRepository
}

func NewCommandStore(rovers ports.RoverRepository, trails ports.TrailRepository) *CommandStore {
	return &CommandStore{
		pending: make(map[string]PendingCommand),
		rovers:  rovers,
		trails:  trails,
	}
}

// QueueUpload queues the given trail for the rover. Both must exist.
func (c *CommandStore) QueueUpload(ctx context.Context, roverID, trailID int) error {
	rover, err := c.rovers.GetRover(ctx, roverID)
	if err != nil {
		return fmt.Errorf("queue upload: rover %d: %w", roverID, err)
	}
	trail, err := c.trails.GetTrail(ctx, trailID)
	if err != nil {
		return fmt.Errorf("queue upload: trail %d: %w", trailID, err)
	}

	c.mu.Lock()
	c.pending[rover.MAC] = PendingCommand{MAC: rover.MAC, TrailPoints: trail.TrailPoints}
	c.mu.Unlock()
	return nil
}

// QueueStop queues an empty trail list for the rover, telling it to
// stop following its current trail.
func (c *CommandStore) QueueStop(ctx context.Context, roverID int) error {
	rover, err := c.rovers.GetRover(ctx, roverID)
	if err != nil {
		return fmt.Errorf("queue stop: rover %d: %w", roverID, err)
	}

	c.mu.Lock()
	c.pending[rover.MAC] = PendingCommand{MAC: rover.MAC, TrailPoints: "[]"}
	c.mu.Unlock()
	return nil
}

// Take hands the pending command for mac to the caller and clears it,
// so each command is delivered at most once. ok is false when nothing
// is queued.
func (c *CommandStore) Take(mac string) (PendingCommand, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cmd, ok := c.pending[mac]
	if ok {
		delete(c.pending, mac)
	}
	return cmd, ok
}
