package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FlexInt accepts both a JSON number and a numeric string. Console
// dropdowns submit identifiers as strings.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("parse id %q: %w", s, err)
	}
	*f = FlexInt(n)
	return nil
}

type CreateRoverRequest struct {
	Name   string `json:"name"`
	MAC    string `json:"mac"`
	Status string `json:"status"`
}

type UpdateRoverRequest struct {
	Name string `json:"name"`
	MAC  string `json:"mac"`
}

type AddTrailRequest struct {
	TrailID FlexInt `json:"trail_id"`
}

type RoverResponse struct {
	ID         int       `json:"id"`
	MAC        string    `json:"mac"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	LastActive time.Time `json:"last_active"`
}

// RegisterRequest is a device announcing its MAC on boot.
type RegisterRequest struct {
	MAC string `json:"mac"`
}

// PendingCommandResponse is what a rover receives on its command poll.
// Empty trail_points means nothing is queued; "[]" means stop.
type PendingCommandResponse struct {
	MAC         string `json:"mac"`
	TrailPoints string `json:"trail_points"`
}

var _ json.Unmarshaler = (*FlexInt)(nil)
