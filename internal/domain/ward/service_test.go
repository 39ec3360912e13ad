package ward

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/medicore/hms/internal/platform/apperr"
)

type mockRepo struct {
	wards map[uuid.UUID]*Ward
}

func newMockRepo() *mockRepo {
	return &mockRepo{wards: make(map[uuid.UUID]*Ward)}
}

func (m *mockRepo) Create(_ context.Context, w *Ward) error {
	w.ID = uuid.New()
	cp := *w
	m.wards[w.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Ward, error) {
	w, ok := m.wards[id]
	if !ok {
		return nil, apperr.NotFound("ward %s not found", id)
	}
	cp := *w
	return &cp, nil
}

func (m *mockRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*Ward, error) {
	return m.GetByID(ctx, id)
}

func (m *mockRepo) Update(_ context.Context, w *Ward) error {
	if _, ok := m.wards[w.ID]; !ok {
		return apperr.NotFound("ward %s not found", w.ID)
	}
	cp := *w
	m.wards[w.ID] = &cp
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Ward, int, error) {
	var out []*Ward
	for _, w := range m.wards {
		out = append(out, w)
	}
	return out, len(out), nil
}

type mockCounter struct {
	counts BedCounts
}

func (m *mockCounter) CountByWard(_ context.Context, _ uuid.UUID) (BedCounts, error) {
	return m.counts, nil
}

// passthroughTx runs the function directly; the mocks apply writes eagerly.
type passthroughTx struct{}

func (passthroughTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(counts BedCounts) (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo, &mockCounter{counts: counts}, passthroughTx{}), repo
}

func TestCreateWard(t *testing.T) {
	svc, _ := newTestService(BedCounts{})

	w := &Ward{Name: "ICU", Capacity: 10}
	if err := svc.CreateWard(context.Background(), w); err != nil {
		t.Fatalf("CreateWard: %v", err)
	}
	if w.ID == uuid.Nil {
		t.Error("expected assigned id")
	}
	if !w.Active {
		t.Error("new ward should be active")
	}
}

func TestCreateWard_Validation(t *testing.T) {
	svc, _ := newTestService(BedCounts{})

	if err := svc.CreateWard(context.Background(), &Ward{Name: "", Capacity: 5}); !apperr.IsValidation(err) {
		t.Errorf("empty name: got %v, want validation error", err)
	}
	if err := svc.CreateWard(context.Background(), &Ward{Name: "ICU", Capacity: 0}); !apperr.IsValidation(err) {
		t.Errorf("zero capacity: got %v, want validation error", err)
	}
	if err := svc.CreateWard(context.Background(), &Ward{Name: "ICU", Capacity: -3}); !apperr.IsValidation(err) {
		t.Errorf("negative capacity: got %v, want validation error", err)
	}
}

func TestUpdateWard_CapacityBelowBedCount(t *testing.T) {
	svc, _ := newTestService(BedCounts{Total: 8, Occupied: 3, Available: 5})

	w := &Ward{Name: "ICU", Capacity: 10}
	if err := svc.CreateWard(context.Background(), w); err != nil {
		t.Fatalf("CreateWard: %v", err)
	}

	five := 5
	_, err := svc.UpdateWard(context.Background(), w.ID, Patch{Capacity: &five})
	if !apperr.IsConflict(err) {
		t.Errorf("reducing capacity below bed count: got %v, want conflict", err)
	}

	nine := 9
	updated, err := svc.UpdateWard(context.Background(), w.ID, Patch{Capacity: &nine})
	if err != nil {
		t.Fatalf("UpdateWard: %v", err)
	}
	if updated.Capacity != 9 {
		t.Errorf("capacity = %d, want 9", updated.Capacity)
	}
}

func TestUpdateWard_NotFound(t *testing.T) {
	svc, _ := newTestService(BedCounts{})
	name := "Renamed"
	_, err := svc.UpdateWard(context.Background(), uuid.New(), Patch{Name: &name})
	if !apperr.IsNotFound(err) {
		t.Errorf("got %v, want not found", err)
	}
}

func TestGetWardOccupancy(t *testing.T) {
	svc, _ := newTestService(BedCounts{Total: 6, Occupied: 4, Available: 2})

	w := &Ward{Name: "General", Capacity: 10}
	if err := svc.CreateWard(context.Background(), w); err != nil {
		t.Fatalf("CreateWard: %v", err)
	}

	occ, err := svc.GetWardOccupancy(context.Background(), w.ID)
	if err != nil {
		t.Fatalf("GetWardOccupancy: %v", err)
	}
	if occ.Capacity != 10 || occ.OccupiedCount != 4 || occ.AvailableCount != 2 {
		t.Errorf("occupancy = %+v", occ)
	}
}

func TestDeactivateWard(t *testing.T) {
	svc, repo := newTestService(BedCounts{Occupied: 0})

	w := &Ward{Name: "General", Capacity: 4}
	if err := svc.CreateWard(context.Background(), w); err != nil {
		t.Fatalf("CreateWard: %v", err)
	}

	deactivated, err := svc.DeactivateWard(context.Background(), w.ID)
	if err != nil {
		t.Fatalf("DeactivateWard: %v", err)
	}
	if deactivated.Active {
		t.Error("ward still active after deactivation")
	}
	if repo.wards[w.ID].Active {
		t.Error("deactivation not persisted")
	}
}

func TestDeactivateWard_OccupiedBeds(t *testing.T) {
	svc, _ := newTestService(BedCounts{Total: 4, Occupied: 2, Available: 2})

	w := &Ward{Name: "General", Capacity: 4}
	if err := svc.CreateWard(context.Background(), w); err != nil {
		t.Fatalf("CreateWard: %v", err)
	}

	_, err := svc.DeactivateWard(context.Background(), w.ID)
	if !apperr.IsConflict(err) {
		t.Errorf("got %v, want conflict for occupied beds", err)
	}
}
