package services

import (
	"context"
	"fmt"

	"rtk-console-service/internal/domain"
	"rtk-console-service/internal/ports"
)

// In-memory repositories shared by the service tests.

type memTrailRepo struct {
	trails []ports.TrailRecord
	nextID int
}

func newMemTrailRepo() *memTrailRepo { return &memTrailRepo{nextID: 1} }

func (r *memTrailRepo) ListTrails(ctx context.Context) ([]ports.TrailRecord, error) {
	return append([]ports.TrailRecord(nil), r.trails...), nil
}

func (r *memTrailRepo) GetTrail(ctx context.Context, id int) (ports.TrailRecord, error) {
	for _, t := range r.trails {
		if t.ID == id {
			return t, nil
		}
	}
	return ports.TrailRecord{}, ports.ErrNotFound
}

func (r *memTrailRepo) CreateTrail(ctx context.Context, name, trailPoints string) (ports.TrailRecord, error) {
	for _, t := range r.trails {
		if t.Name == name {
			return ports.TrailRecord{}, fmt.Errorf("trail %q already exists", name)
		}
	}
	rec := ports.TrailRecord{ID: r.nextID, Name: name, TrailPoints: trailPoints}
	r.nextID++
	r.trails = append(r.trails, rec)
	return rec, nil
}

func (r *memTrailRepo) DeleteTrailByName(ctx context.Context, name string) error {
	for i, t := range r.trails {
		if t.Name == name {
			r.trails = append(r.trails[:i], r.trails[i+1:]...)
			return nil
		}
	}
	return ports.ErrNotFound
}

type memRoverRepo struct {
	rovers []domain.Rover
}

func (r *memRoverRepo) ListRovers(ctx context.Context) ([]domain.Rover, error) {
	return append([]domain.Rover(nil), r.rovers...), nil
}

func (r *memRoverRepo) GetRover(ctx context.Context, id int) (domain.Rover, error) {
	for _, rv := range r.rovers {
		if rv.ID == id {
			return rv, nil
		}
	}
	return domain.Rover{}, ports.ErrNotFound
}

func (r *memRoverRepo) GetRoverByMAC(ctx context.Context, mac string) (domain.Rover, error) {
	for _, rv := range r.rovers {
		if rv.MAC == mac {
			return rv, nil
		}
	}
	return domain.Rover{}, ports.ErrNotFound
}

func (r *memRoverRepo) CreateRover(ctx context.Context, mac, name string, status domain.RoverStatus) (domain.Rover, error) {
	rv := domain.Rover{ID: len(r.rovers) + 1, MAC: mac, Name: name, Status: status}
	r.rovers = append(r.rovers, rv)
	return rv, nil
}

func (r *memRoverRepo) UpdateRover(ctx context.Context, id int, mac, name string) (domain.Rover, error) {
	for i, rv := range r.rovers {
		if rv.ID == id {
			r.rovers[i].MAC = mac
			r.rovers[i].Name = name
			return r.rovers[i], nil
		}
	}
	return domain.Rover{}, ports.ErrNotFound
}

func (r *memRoverRepo) DeleteRover(ctx context.Context, id int) error {
	for i, rv := range r.rovers {
		if rv.ID == id {
			r.rovers = append(r.rovers[:i], r.rovers[i+1:]...)
			return nil
		}
	}
	return ports.ErrNotFound
}

func (r *memRoverRepo) TouchLastActive(ctx context.Context, mac string) error {
	for i, rv := range r.rovers {
		if rv.MAC == mac {
			r.rovers[i].Status = domain.StatusActive
			return nil
		}
	}
	return ports.ErrNotFound
}

func (r *memRoverRepo) ListTrailsForRover(ctx context.Context, roverID int) ([]ports.TrailRecord, error) {
	return nil, nil
}

func (r *memRoverRepo) AddTrailToRover(ctx context.Context, roverID, trailID int) error {
	return nil
}

func (r *memRoverRepo) RemoveTrailFromRover(ctx context.Context, roverID, trailID int) error {
	return nil
}
