package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rtk-console-service/internal/ports"
)

// ErrNotFound aliases the port-level sentinel so existing callers in
// this package read naturally.
var ErrNotFound = ports.ErrNotFound

// SQLite-backed implementation of the TrailRepository port.
type SqliteTrailRepository struct{ DB *sql.DB }

func NewSqliteTrailRepository(db *sql.DB) *SqliteTrailRepository {
	return &SqliteTrailRepository{DB: db}
}

// Return all trails stored in the database.
func (s *SqliteTrailRepository) ListTrails(ctx context.Context) ([]ports.TrailRecord, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite trail repository: DB is nil")
	}

	query := `
	SELECT
		id,
		name,
		trail_points
	FROM trails
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
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

func (s *SqliteTrailRepository) GetTrail(ctx context.Context, id int) (ports.TrailRecord, error) {
	if s.DB == nil {
		return ports.TrailRecord{}, errors.New("sqlite trail repository: DB is nil")
	}

	query := `
	SELECT
		id,
		name,
		trail_points
	FROM trails
	WHERE id = ?;
	`
	var rec ports.TrailRecord
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&rec.ID, &rec.Name, &rec.TrailPoints)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.TrailRecord{}, fmt.Errorf("get trail id=%d: %w", id, ErrNotFound)
	}
	if err != nil {
		return ports.TrailRecord{}, fmt.Errorf("get trail id=%d: %w", id, err)
	}

	return rec, nil
}

func (s *SqliteTrailRepository) CreateTrail(ctx context.Context, name, trailPoints string) (ports.TrailRecord, error) {
	if s.DB == nil {
		return ports.TrailRecord{}, errors.New("sqlite trail repository: DB is nil")
	}

	query := `
	INSERT INTO trails (
		name,
		trail_points
	)
	VALUES (?, ?);
	`
	res, err := s.DB.ExecContext(ctx, query, name, trailPoints)
	if err != nil {
		return ports.TrailRecord{}, fmt.Errorf("create trail name=%q: %w", name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return ports.TrailRecord{}, fmt.Errorf("create trail name=%q: last insert id: %w", name, err)
	}

	return ports.TrailRecord{ID: int(id), Name: name, TrailPoints: trailPoints}, nil
}

func (s *SqliteTrailRepository) DeleteTrailByName(ctx context.Context, name string) error {
	if s.DB == nil {
		return errors.New("sqlite trail repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM trails WHERE name = ?;`, name)
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
