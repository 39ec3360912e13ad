package bed

import (
	"time"

	"github.com/google/uuid"
)

// Status is the bed occupancy state machine.
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusOccupied    Status = "OCCUPIED"
	StatusReserved    Status = "RESERVED"
	StatusMaintenance Status = "MAINTENANCE"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusReserved, StatusMaintenance:
		return true
	}
	return false
}

// adminTransitions are the moves the status PATCH endpoint may make. OCCUPIED
// is entered only through ClaimBed and left only through ReleaseBed.
var adminTransitions = map[Status][]Status{
	StatusAvailable:   {StatusReserved, StatusMaintenance},
	StatusReserved:    {StatusAvailable},
	StatusMaintenance: {StatusAvailable},
}

func adminTransitionAllowed(from, to Status) bool {
	for _, t := range adminTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Bed maps to the bed table. AdmissionID is set while the bed is OCCUPIED and
// names the owning admission.
type Bed struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	WardID      uuid.UUID  `db:"ward_id" json:"ward_id"`
	BedNumber   string     `db:"bed_number" json:"bed_number"`
	Status      Status     `db:"status" json:"status"`
	Description *string    `db:"description" json:"description,omitempty"`
	AdmissionID *uuid.UUID `db:"admission_id" json:"admission_id,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
