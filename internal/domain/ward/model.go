package ward

import (
	"time"

	"github.com/google/uuid"
)

// Ward maps to the ward table. Capacity is the maximum number of beds the
// ward may own; the bed table enforces the bound on insert.
type Ward struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Capacity  int       `db:"capacity" json:"capacity"`
	Location  *string   `db:"location" json:"location,omitempty"`
	Floor     *string   `db:"floor" json:"floor,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Patch carries a partial update; nil fields are left unchanged.
type Patch struct {
	Name     *string `json:"name,omitempty"`
	Capacity *int    `json:"capacity,omitempty"`
	Location *string `json:"location,omitempty"`
	Floor    *string `json:"floor,omitempty"`
}

// Occupancy is the per-ward occupancy summary returned by GetWardOccupancy.
type Occupancy struct {
	WardID         uuid.UUID `json:"ward_id"`
	Capacity       int       `json:"capacity"`
	OccupiedCount  int       `json:"occupied_count"`
	AvailableCount int       `json:"available_count"`
}
