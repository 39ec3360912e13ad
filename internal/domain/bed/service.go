package bed

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/medicore/hms/internal/domain/ward"
	"github.com/medicore/hms/internal/platform/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateBed(ctx context.Context, b *Bed) error {
	if b.WardID == uuid.Nil {
		return apperr.Validation("ward_id is required")
	}
	b.BedNumber = strings.TrimSpace(b.BedNumber)
	if b.BedNumber == "" {
		return apperr.Validation("bed_number is required")
	}
	if b.Status == "" {
		b.Status = StatusAvailable
	}
	if b.Status != StatusAvailable && b.Status != StatusReserved && b.Status != StatusMaintenance {
		return apperr.Validation("invalid initial status %q", b.Status)
	}
	return s.repo.Create(ctx, b)
}

func (s *Service) GetBed(ctx context.Context, id uuid.UUID) (*Bed, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetBedsByWard(ctx context.Context, wardID uuid.UUID) ([]*Bed, error) {
	return s.repo.ListByWard(ctx, wardID)
}

func (s *Service) ListAvailableBeds(ctx context.Context, wardID *uuid.UUID) ([]*Bed, error) {
	return s.repo.ListAvailable(ctx, wardID)
}

// ClaimBed moves an AVAILABLE bed to OCCUPIED on behalf of an admission.
// Exactly one of any set of concurrent claimants succeeds.
func (s *Service) ClaimBed(ctx context.Context, bedID, admissionID uuid.UUID) error {
	if err := s.repo.UpdateStatus(ctx, bedID, StatusAvailable, StatusOccupied, &admissionID); err != nil {
		if apperr.IsConflict(err) {
			return apperr.Conflict("bed unavailable")
		}
		return err
	}
	return nil
}

// ReleaseBed moves an OCCUPIED bed back to AVAILABLE on behalf of the
// admission holding it. A release from any other state, or by an admission
// that does not hold the bed, surfaces as a conflict.
func (s *Service) ReleaseBed(ctx context.Context, bedID, admissionID uuid.UUID) error {
	return s.repo.Release(ctx, bedID, admissionID)
}

// SetStatus handles the administrative transitions between AVAILABLE,
// RESERVED and MAINTENANCE. OCCUPIED is never reachable this way.
func (s *Service) SetStatus(ctx context.Context, bedID uuid.UUID, to Status) (*Bed, error) {
	if !to.Valid() {
		return nil, apperr.Validation("invalid status %q", to)
	}
	b, err := s.repo.GetByID(ctx, bedID)
	if err != nil {
		return nil, err
	}
	if b.Status == to {
		return b, nil
	}
	if !adminTransitionAllowed(b.Status, to) {
		return nil, apperr.Conflict("cannot move bed from %s to %s", b.Status, to)
	}
	if err := s.repo.UpdateStatus(ctx, bedID, b.Status, to, nil); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, bedID)
}

// SetMaintenance takes an AVAILABLE bed out of service.
func (s *Service) SetMaintenance(ctx context.Context, bedID uuid.UUID) (*Bed, error) {
	return s.SetStatus(ctx, bedID, StatusMaintenance)
}

// ClearMaintenance returns a MAINTENANCE bed to service.
func (s *Service) ClearMaintenance(ctx context.Context, bedID uuid.UUID) (*Bed, error) {
	b, err := s.repo.GetByID(ctx, bedID)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusMaintenance {
		return nil, apperr.Conflict("bed is %s, not in maintenance", b.Status)
	}
	return s.SetStatus(ctx, bedID, StatusAvailable)
}

// CountByWard satisfies the ward registry's bed counter.
func (s *Service) CountByWard(ctx context.Context, wardID uuid.UUID) (ward.BedCounts, error) {
	return s.repo.CountByWard(ctx, wardID)
}
