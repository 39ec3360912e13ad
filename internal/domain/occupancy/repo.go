package occupancy

import (
	"context"

	"github.com/google/uuid"
)

// Repository reads raw per-ward bed counts. Rates are computed by the service.
type Repository interface {
	WardStats(ctx context.Context, wardID uuid.UUID) (*WardStats, error)
	AllWardStats(ctx context.Context) ([]*WardStats, error)
}
