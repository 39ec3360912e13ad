package ward

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/medicore/hms/internal/platform/apperr"
)

type Service struct {
	repo Repository
	beds BedCounter
	tx   TxRunner
}

func NewService(repo Repository, beds BedCounter, tx TxRunner) *Service {
	return &Service{repo: repo, beds: beds, tx: tx}
}

func (s *Service) CreateWard(ctx context.Context, w *Ward) error {
	w.Name = strings.TrimSpace(w.Name)
	if w.Name == "" {
		return apperr.Validation("name is required")
	}
	if w.Capacity <= 0 {
		return apperr.Validation("capacity must be positive, got %d", w.Capacity)
	}
	w.Active = true
	return s.repo.Create(ctx, w)
}

func (s *Service) GetWard(ctx context.Context, id uuid.UUID) (*Ward, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListWards(ctx context.Context, limit, offset int) ([]*Ward, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// UpdateWard applies a partial update. Reducing capacity below the ward's
// current bed count is rejected so the capacity bound stays true. A capacity
// change holds the ward row lock across the bed count check, which serializes
// it against concurrent bed creation on the same ward.
func (s *Service) UpdateWard(ctx context.Context, id uuid.UUID, patch Patch) (*Ward, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperr.Validation("name must not be empty")
	}
	if patch.Capacity != nil && *patch.Capacity <= 0 {
		return nil, apperr.Validation("capacity must be positive, got %d", *patch.Capacity)
	}

	var w *Ward
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		if patch.Capacity != nil {
			w, err = s.repo.GetForUpdate(ctx, id)
		} else {
			w, err = s.repo.GetByID(ctx, id)
		}
		if err != nil {
			return err
		}

		if patch.Name != nil {
			w.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Capacity != nil {
			counts, err := s.beds.CountByWard(ctx, id)
			if err != nil {
				return err
			}
			if *patch.Capacity < counts.Total {
				return apperr.Conflict("capacity %d is below current bed count %d", *patch.Capacity, counts.Total)
			}
			w.Capacity = *patch.Capacity
		}
		if patch.Location != nil {
			w.Location = patch.Location
		}
		if patch.Floor != nil {
			w.Floor = patch.Floor
		}
		return s.repo.Update(ctx, w)
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Service) GetWardOccupancy(ctx context.Context, id uuid.UUID) (*Occupancy, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.beds.CountByWard(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Occupancy{
		WardID:         w.ID,
		Capacity:       w.Capacity,
		OccupiedCount:  counts.Occupied,
		AvailableCount: counts.Available,
	}, nil
}

// DeactivateWard soft-deletes a ward. A ward holding occupied beds cannot be
// deactivated.
func (s *Service) DeactivateWard(ctx context.Context, id uuid.UUID) (*Ward, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !w.Active {
		return w, nil
	}
	counts, err := s.beds.CountByWard(ctx, id)
	if err != nil {
		return nil, err
	}
	if counts.Occupied > 0 {
		return nil, apperr.Conflict("ward has %d occupied beds", counts.Occupied)
	}
	w.Active = false
	if err := s.repo.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}
