package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rtk-console-service/internal/platform/obs"
	"rtk-console-service/internal/ports"
)

// SQLTrailRepository is the Postgres-backed implementation of the
// TrailRepository port, for deployments where multiple console
// instances share one store.
type SQLTrailRepository struct {
	DB *sql.DB
}

func NewSQLTrailRepository(db *sql.DB) *SQLTrailRepository {
	return &SQLTrailRepository{DB: db}
}

// Initialize the Postgres schema used by SQLTrailRepository.
func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS trails (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		trail_points TEXT NOT NULL
	);
	`
	if _, err := db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("init postgres schema: create trails: %w", err)
	}

	return nil
}

func (s *SQLTrailRepository) ListTrails(ctx context.Context) (_ []ports.TrailRecord, err error) {
	defer obs.Time(ctx, "trails.repo.ListTrails")(&err)

	if s.DB == nil {
		return nil, errors.New("sql trail repository: DB is nil")
	}

	q := `
	SELECT id, name, trail_points
	FROM trails
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list trails: query trails table: %w", err)
	}
	defer rows.Close()

	trails := make([]ports.TrailRecord, 0, 16)
	for rows.Next() {
		var rec ports.TrailRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.TrailPoints); err != nil {
			return nil, fmt.Errorf("list trails: scan row: %w", err)
		}
		trails = append(trails, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trails: row iteration: %w", err)
	}

	return trails, nil
}

func (s *SQLTrailRepository) GetTrail(ctx context.Context, id int) (_ ports.TrailRecord, err error) {
	defer obs.Time(ctx, "trails.repo.GetTrail")(&err)

	if s.DB == nil {
		return ports.TrailRecord{}, errors.New("sql trail repository: DB is nil")
	}

	q := `
	SELECT id, name, trail_points
	FROM trails
	WHERE id = $1;
	`
	var rec ports.TrailRecord
	err = s.DB.QueryRowContext(ctx, q, id).Scan(&rec.ID, &rec.Name, &rec.TrailPoints)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.TrailRecord{}, fmt.Errorf("get trail id=%d: %w", id, ErrNotFound)
	}
	if err != nil {
		return ports.TrailRecord{}, fmt.Errorf("get trail id=%d: %w", id, err)
	}

	return rec, nil
}

func (s *SQLTrailRepository) CreateTrail(ctx context.Context, name, trailPoints string) (_ ports.TrailRecord, err error) {
	defer obs.Time(ctx, "trails.repo.CreateTrail")(&err)

	if s.DB == nil {
		return ports.TrailRecord{}, errors.New("sql trail repository: DB is nil")
	}

	q := `
	INSERT INTO trails (name, trail_points)
	VALUES ($1, $2)
	RETURNING id;
	`
	var id int
	if err := s.DB.QueryRowContext(ctx, q, name, trailPoints).Scan(&id); err != nil {
		return ports.TrailRecord{}, fmt.Errorf("create trail name=%q: %w", name, err)
	}

	return ports.TrailRecord{ID: id, Name: name, TrailPoints: trailPoints}, nil
}

func (s *SQLTrailRepository) DeleteTrailByName(ctx context.Context, name string) (err error) {
	defer obs.Time(ctx, "trails.repo.DeleteTrailByName")(&err)

	if s.DB == nil {
		return errors.New("sql trail repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM trails WHERE name = $1;`, name)
	if err != nil {
		return fmt.Errorf("delete trail name=%q: %w", name, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete trail name=%q: rows affected: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete trail name=%q: %w", name, ErrNotFound)
	}

	return nil
}
