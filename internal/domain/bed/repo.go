package bed

import (
	"context"

	"github.com/google/uuid"

	"github.com/medicore/hms/internal/domain/ward"
)

// Repository persists beds. UpdateStatus is the compare-and-swap primitive:
// it must change the row from exactly the expected status in one step, with
// concurrent callers seeing at most one winner.
type Repository interface {
	Create(ctx context.Context, b *Bed) error
	GetByID(ctx context.Context, id uuid.UUID) (*Bed, error)
	ListByWard(ctx context.Context, wardID uuid.UUID) ([]*Bed, error)
	ListAvailable(ctx context.Context, wardID *uuid.UUID) ([]*Bed, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, admissionID *uuid.UUID) error
	// Release frees an OCCUPIED bed, but only for the admission that holds
	// it. A release carrying a stale admission id changes nothing.
	Release(ctx context.Context, id, admissionID uuid.UUID) error
	CountByWard(ctx context.Context, wardID uuid.UUID) (ward.BedCounts, error)
}
