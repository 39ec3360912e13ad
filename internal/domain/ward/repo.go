package ward

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, w *Ward) error
	GetByID(ctx context.Context, id uuid.UUID) (*Ward, error)
	// GetForUpdate reads the ward under a row lock. Callers must hold an
	// open transaction for the lock to outlive the read.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*Ward, error)
	Update(ctx context.Context, w *Ward) error
	List(ctx context.Context, limit, offset int) ([]*Ward, int, error)
}

// TxRunner runs fn inside one storage transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// BedCounts summarises the beds owned by one ward.
type BedCounts struct {
	Total     int
	Occupied  int
	Available int
}

// BedCounter is the narrow view of the bed allocator this package needs for
// occupancy and deactivation checks.
type BedCounter interface {
	CountByWard(ctx context.Context, wardID uuid.UUID) (BedCounts, error)
}
