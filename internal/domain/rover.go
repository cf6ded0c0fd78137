package domain

import "time"

// RoverStatus mirrors the lifecycle states kept in the store.
type RoverStatus int

const (
	StatusUnknown RoverStatus = iota
	StatusActive
	StatusInactive
)

func (s RoverStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// ParseRoverStatus maps the wire representation back to a status,
// defaulting to unknown for anything unrecognized.
func ParseRoverStatus(s string) RoverStatus {
	switch s {
	case "active":
		return StatusActive
	case "inactive":
		return StatusInactive
	default:
		return StatusUnknown
	}
}

// Rover is a GNSS-equipped device managed by the console. The MAC
// address is the device identity used to key live telemetry.
type Rover struct {
	ID         int
	MAC        string
	Name       string
	Status     RoverStatus
	LastActive time.Time
}
