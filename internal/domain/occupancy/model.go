// Package occupancy is the read side of bed management: it aggregates
// ward and bed state into occupancy statistics and never writes.
package occupancy

import (
	"github.com/google/uuid"
)

// WardStats is the per-ward occupancy breakdown.
type WardStats struct {
	WardID        uuid.UUID `json:"ward_id"`
	WardName      string    `json:"ward_name"`
	Capacity      int       `json:"capacity"`
	TotalBeds     int       `json:"total_beds"`
	Occupied      int       `json:"occupied"`
	Available     int       `json:"available"`
	Reserved      int       `json:"reserved"`
	Maintenance   int       `json:"maintenance"`
	OccupancyRate float64   `json:"occupancy_rate"`
}

// TenantStats rolls every ward up into one view.
type TenantStats struct {
	Wards         int          `json:"wards"`
	TotalCapacity int          `json:"total_capacity"`
	TotalBeds     int          `json:"total_beds"`
	Occupied      int          `json:"occupied"`
	Available     int          `json:"available"`
	OccupancyRate float64      `json:"occupancy_rate"`
	ByWard        []*WardStats `json:"by_ward"`
}
