package admission

import (
	"context"

	"github.com/google/uuid"

	"github.com/medicore/hms/internal/platform/events"
)

type Repository interface {
	Create(ctx context.Context, a *Admission) error
	GetByID(ctx context.Context, id uuid.UUID) (*Admission, error)
	GetActiveByPatient(ctx context.Context, patientID uuid.UUID) (*Admission, error)
	Update(ctx context.Context, a *Admission) error
	List(ctx context.Context, limit, offset int) ([]*Admission, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Admission, int, error)
	ListByStatus(ctx context.Context, status Status, limit, offset int) ([]*Admission, int, error)

	AddTreatmentNote(ctx context.Context, n *TreatmentNote) error
	ListTreatmentNotes(ctx context.Context, admissionID uuid.UUID) ([]*TreatmentNote, error)

	CreateDischargeSummary(ctx context.Context, s *DischargeSummary) error
	GetDischargeSummary(ctx context.Context, admissionID uuid.UUID) (*DischargeSummary, error)

	AddTransfer(ctx context.Context, t *BedTransfer) error
	ListTransfers(ctx context.Context, admissionID uuid.UUID) ([]*BedTransfer, error)
}

// BedAllocator is the slice of the bed service the lifecycle needs. Claim and
// release are atomic against concurrent callers, and release only succeeds
// for the admission that holds the bed.
type BedAllocator interface {
	ClaimBed(ctx context.Context, bedID, admissionID uuid.UUID) error
	ReleaseBed(ctx context.Context, bedID, admissionID uuid.UUID) error
}

// TxRunner runs fn inside one storage transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventSink receives lifecycle events after the owning transaction commits.
type EventSink interface {
	Publish(ev events.Event)
}

// EventCounter tracks lifecycle event totals for the scrape endpoint.
type EventCounter interface {
	CountAdmissionEvent(event string)
}
