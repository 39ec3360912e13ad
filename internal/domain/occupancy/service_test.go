package occupancy

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medicore/hms/internal/platform/apperr"
)

type mockRepo struct {
	stats map[uuid.UUID]*WardStats
}

func newMockRepo(stats ...*WardStats) *mockRepo {
	m := &mockRepo{stats: make(map[uuid.UUID]*WardStats)}
	for _, s := range stats {
		m.stats[s.WardID] = s
	}
	return m
}

func (m *mockRepo) WardStats(_ context.Context, wardID uuid.UUID) (*WardStats, error) {
	s, ok := m.stats[wardID]
	if !ok {
		return nil, apperr.NotFound("ward %s not found", wardID)
	}
	cp := *s
	return &cp, nil
}

func (m *mockRepo) AllWardStats(_ context.Context) ([]*WardStats, error) {
	var out []*WardStats
	for _, s := range m.stats {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGetWardStats(t *testing.T) {
	wardID := uuid.New()
	svc := NewService(newMockRepo(&WardStats{
		WardID: wardID, WardName: "ICU", Capacity: 10,
		TotalBeds: 8, Occupied: 6, Available: 2,
	}))

	stats, err := svc.GetWardStats(context.Background(), wardID)
	if err != nil {
		t.Fatalf("GetWardStats: %v", err)
	}
	if !almostEqual(stats.OccupancyRate, 0.6) {
		t.Errorf("occupancy rate = %f, want 0.6", stats.OccupancyRate)
	}
}

func TestGetWardStats_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	_, err := svc.GetWardStats(context.Background(), uuid.New())
	if !apperr.IsNotFound(err) {
		t.Errorf("got %v, want not found", err)
	}
}

func TestGetTenantStats(t *testing.T) {
	svc := NewService(newMockRepo(
		&WardStats{WardID: uuid.New(), WardName: "ICU", Capacity: 10, TotalBeds: 10, Occupied: 5, Available: 5},
		&WardStats{WardID: uuid.New(), WardName: "General", Capacity: 30, TotalBeds: 20, Occupied: 15, Available: 5},
	))

	stats, err := svc.GetTenantStats(context.Background())
	if err != nil {
		t.Fatalf("GetTenantStats: %v", err)
	}
	if stats.Wards != 2 || stats.TotalCapacity != 40 || stats.Occupied != 20 {
		t.Errorf("tenant stats = %+v", stats)
	}
	if !almostEqual(stats.OccupancyRate, 0.5) {
		t.Errorf("occupancy rate = %f, want 0.5", stats.OccupancyRate)
	}
	for _, w := range stats.ByWard {
		if w.OccupancyRate == 0 {
			t.Errorf("ward %s has zero occupancy rate", w.WardName)
		}
	}
}

func TestGetTenantStats_Empty(t *testing.T) {
	svc := NewService(newMockRepo())
	stats, err := svc.GetTenantStats(context.Background())
	if err != nil {
		t.Fatalf("GetTenantStats: %v", err)
	}
	if stats.OccupancyRate != 0 {
		t.Errorf("empty tenant rate = %f, want 0", stats.OccupancyRate)
	}
}

func TestHandler_GetStats(t *testing.T) {
	wardID := uuid.New()
	svc := NewService(newMockRepo(&WardStats{
		WardID: wardID, WardName: "ICU", Capacity: 10, TotalBeds: 10, Occupied: 4, Available: 6,
	}))
	h := NewHandler(svc)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats?ward_id="+wardID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.GetStats(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var env struct {
		Success bool      `json:"success"`
		Data    WardStats `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &env)
	if !env.Success || !almostEqual(env.Data.OccupancyRate, 0.4) {
		t.Errorf("envelope = %+v", env)
	}
}

func TestHandler_GetStats_BadWardID(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats?ward_id=nope", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.GetStats(c); !apperr.IsValidation(err) {
		t.Errorf("got %v, want validation error", err)
	}
}
