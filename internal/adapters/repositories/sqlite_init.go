package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createTrailsQuery := `
	CREATE TABLE IF NOT EXISTS trails (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		trail_points TEXT NOT NULL
	);
	`

	createRoversQuery := `
	CREATE TABLE IF NOT EXISTS rovers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		mac TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL UNIQUE,
		status INTEGER NOT NULL DEFAULT 0,
		last_active TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

	createRoverTrailsQuery := `
	CREATE TABLE IF NOT EXISTS rover_trails (
		rover_id INTEGER NOT NULL REFERENCES rovers(id) ON DELETE CASCADE,
		trail_id INTEGER NOT NULL REFERENCES trails(id) ON DELETE CASCADE,
		PRIMARY KEY (rover_id, trail_id)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_rover_trails_trail_id
	ON rover_trails(trail_id);
	`

	statements := []string{
		createTrailsQuery,
		createRoversQuery,
		createRoverTrailsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type RoverSeed struct {
	MAC  string `json:"mac"`
	Name string `json:"name"`
}

// Populate the database with rover registrations from a JSON file.
// Seeding is how device MACs become known to the register endpoint on
// local runs.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed rovers: read %q: %w", jsonPath, err)
	}

	var data []RoverSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed rovers: parse json: %w", err)
	}

	rows := make([]RoverSeed, 0, len(data))
	for i, item := range data {
		mac := strings.TrimSpace(item.MAC)
		if mac == "" {
			return fmt.Errorf("seed rovers: item at index %d: mac cannot be empty", i+1)
		}

		name := strings.TrimSpace(item.Name)
		if name == "" {
			return fmt.Errorf("seed rovers: item at index %d: name cannot be empty", i+1)
		}
		rows = append(rows, RoverSeed{MAC: mac, Name: name})
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed rovers: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT OR IGNORE INTO rovers (
		mac,
		name
	)
	VALUES (?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed rovers: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(r.MAC, r.Name); err != nil {
			return fmt.Errorf("seed rovers: insert mac=%q: %w", r.MAC, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed rovers: commit tx: %w", err)
	}

	return nil
}
