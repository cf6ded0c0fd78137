package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rtk-console-service/internal/domain"
	"rtk-console-service/internal/ports"
)

// SQLite-backed implementation of the RoverRepository port.
type SqliteRoverRepository struct{ DB *sql.DB }

func NewSqliteRoverRepository(db *sql.DB) *SqliteRoverRepository {
	return &SqliteRoverRepository{DB: db}
}

func (s *SqliteRoverRepository) ListRovers(ctx context.Context) ([]domain.Rover, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite rover repository: DB is nil")
	}

	query := `
	SELECT
		id,
		mac,
		name,
		status,
		last_active
	FROM rovers
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rovers: query rovers table: %w", err)
	}
	defer rows.Close()

	rovers := make([]domain.Rover, 0, 16)
	for rows.Next() {
		r, err := scanRover(rows)
		if err != nil {
			return nil, fmt.Errorf("list rovers: %w", err)
		}
		rovers = append(rovers, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rovers: row iteration: %w", err)
	}

	return rovers, nil
}

func (s *SqliteRoverRepository) GetRover(ctx context.Context, id int) (domain.Rover, error) {
	return s.getRoverWhere(ctx, "id = ?", id)
}

func (s *SqliteRoverRepository) GetRoverByMAC(ctx context.Context, mac string) (domain.Rover, error) {
	return s.getRoverWhere(ctx, "mac = ?", mac)
}

func (s *SqliteRoverRepository) getRoverWhere(ctx context.Context, cond string, arg any) (domain.Rover, error) {
	if s.DB == nil {
		return domain.Rover{}, errors.New("sqlite rover repository: DB is nil")
	}

	query := `
	SELECT
		id,
		mac,
		name,
		status,
		last_active
	FROM rovers
	WHERE ` + cond + `;
	`
	row := s.DB.QueryRowContext(ctx, query, arg)
	r, err := scanRover(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Rover{}, fmt.Errorf("get rover %v: %w", arg, ErrNotFound)
	}
	if err != nil {
		return domain.Rover{}, fmt.Errorf("get rover %v: %w", arg, err)
	}

	return r, nil
}

func (s *SqliteRoverRepository) CreateRover(ctx context.Context, mac, name string, status domain.RoverStatus) (domain.Rover, error) {
	if s.DB == nil {
		return domain.Rover{}, errors.New("sqlite rover repository: DB is nil")
	}

	now := time.Now().UTC()
	query := `
	INSERT INTO rovers (
		mac,
		name,
		status,
		last_active
	)
	VALUES (?, ?, ?, ?);
	`
	res, err := s.DB.ExecContext(ctx, query, mac, name, int(status), now)
	if err != nil {
		return domain.Rover{}, fmt.Errorf("create rover mac=%q: %w", mac, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Rover{}, fmt.Errorf("create rover mac=%q: last insert id: %w", mac, err)
	}

	return domain.Rover{
		ID:         int(id),
		MAC:        mac,
		Name:       name,
		Status:     status,
		LastActive: now,
	}, nil
}

func (s *SqliteRoverRepository) UpdateRover(ctx context.Context, id int, mac, name string) (domain.Rover, error) {
	if s.DB == nil {
		return domain.Rover{}, errors.New("sqlite rover repository: DB is nil")
	}

	query := `
	UPDATE rovers
	SET mac = ?, name = ?
	WHERE id = ?;
	`
	res, err := s.DB.ExecContext(ctx, query, mac, name, id)
	if err != nil {
		return domain.Rover{}, fmt.Errorf("update rover id=%d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return domain.Rover{}, fmt.Errorf("update rover id=%d: rows affected: %w", id, err)
	}
	if n == 0 {
		return domain.Rover{}, fmt.Errorf("update rover id=%d: %w", id, ErrNotFound)
	}

	return s.GetRover(ctx, id)
}

func (s *SqliteRoverRepository) DeleteRover(ctx context.Context, id int) error {
	if s.DB == nil {
		return errors.New("sqlite rover repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete rover id=%d: begin tx: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rover_trails WHERE rover_id = ?;`, id); err != nil {
		return fmt.Errorf("delete rover id=%d: clear associations: %w", id, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM rovers WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete rover id=%d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete rover id=%d: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete rover id=%d: %w", id, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete rover id=%d: commit tx: %w", id, err)
	}

	return nil
}

func (s *SqliteRoverRepository) TouchLastActive(ctx context.Context, mac string) error {
	if s.DB == nil {
		return errors.New("sqlite rover repository: DB is nil")
	}

	query := `
	UPDATE rovers
	SET last_active = ?, status = ?
	WHERE mac = ?;
	`
	if _, err := s.DB.ExecContext(ctx, query, time.Now().UTC(), int(domain.StatusActive), mac); err != nil {
		return fmt.Errorf("touch rover mac=%q: %w", mac, err)
	}

	return nil
}

func (s *SqliteRoverRepository) ListTrailsForRover(ctx context.Context, roverID int) ([]ports.TrailRecord, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite rover repository: DB is nil")
	}

	query := `
	SELECT
		t.id,
		t.name,
		t.trail_points
	FROM trails t
	JOIN rover_trails rt ON rt.trail_id = t.id
	WHERE rt.rover_id = ?
	ORDER BY t.id;
	`
	rows, err := s.DB.QueryContext(ctx, query, roverID)
	if err != nil {
		return nil, fmt.Errorf("list trails for rover id=%d: %w", roverID, err)
	}
	defer rows.Close()

	trails := make([]ports.TrailRecord, 0, 8)
	for rows.Next() {
		var rec ports.TrailRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.TrailPoints); err != nil {
			return nil, fmt.Errorf("list trails for rover id=%d: scan row: %w", roverID, err)
		}
		trails = append(trails, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trails for rover id=%d: row iteration: %w", roverID, err)
	}

	return trails, nil
}

func (s *SqliteRoverRepository) AddTrailToRover(ctx context.Context, roverID, trailID int) error {
	if s.DB == nil {
		return errors.New("sqlite rover repository: DB is nil")
	}

	query := `
	INSERT INTO rover_trails (
		rover_id,
		trail_id
	)
	VALUES (?, ?);
	`
	if _, err := s.DB.ExecContext(ctx, query, roverID, trailID); err != nil {
		return fmt.Errorf("add trail %d to rover %d: %w", trailID, roverID, err)
	}

	return nil
}

func (s *SqliteRoverRepository) RemoveTrailFromRover(ctx context.Context, roverID, trailID int) error {
	if s.DB == nil {
		return errors.New("sqlite rover repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM rover_trails WHERE rover_id = ? AND trail_id = ?;`, roverID, trailID)
	if err != nil {
		return fmt.Errorf("remove trail %d from rover %d: %w", trailID, roverID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove trail %d from rover %d: rows affected: %w", trailID, roverID, err)
	}
	if n == 0 {
		return fmt.Errorf("remove trail %d from rover %d: %w", trailID, roverID, ErrNotFound)
	}

	return nil
}

type roverScanner interface {
	Scan(dest ...any) error
}

func scanRover(row roverScanner) (domain.Rover, error) {
	var r domain.Rover
	var status int
	var lastActive time.Time
	if err := row.Scan(&r.ID, &r.MAC, &r.Name, &status, &lastActive); err != nil {
		return domain.Rover{}, err
	}
	r.Status = domain.RoverStatus(status)
	r.LastActive = lastActive
	return r, nil
}
