package occupancy

import (
	"context"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetWardStats(ctx context.Context, wardID uuid.UUID) (*WardStats, error) {
	stats, err := s.repo.WardStats(ctx, wardID)
	if err != nil {
		return nil, err
	}
	stats.OccupancyRate = rate(stats.Occupied, stats.Capacity)
	return stats, nil
}

func (s *Service) GetTenantStats(ctx context.Context) (*TenantStats, error) {
	byWard, err := s.repo.AllWardStats(ctx)
	if err != nil {
		return nil, err
	}

	total := &TenantStats{ByWard: byWard}
	for _, w := range byWard {
		w.OccupancyRate = rate(w.Occupied, w.Capacity)
		total.Wards++
		total.TotalCapacity += w.Capacity
		total.TotalBeds += w.TotalBeds
		total.Occupied += w.Occupied
		total.Available += w.Available
	}
	total.OccupancyRate = rate(total.Occupied, total.TotalCapacity)
	return total, nil
}

func rate(occupied, capacity int) float64 {
	if capacity == 0 {
		return 0
	}
	return float64(occupied) / float64(capacity)
}
