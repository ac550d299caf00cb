package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/domain"
)

type fakeOrderRepo struct {
	orders  []domain.Order
	updated []domain.Order
	failIDs map[int64]bool
}

func (r *fakeOrderRepo) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return r.orders, nil
}

func (r *fakeOrderRepo) UpdateOrder(ctx context.Context, o domain.Order) error {
	if r.failIDs[o.ID] {
		return fmt.Errorf("update order %d: connection reset", o.ID)
	}
	r.updated = append(r.updated, o)
	return nil
}

type fakeDispatcherRepo struct {
	dispatchers []domain.Dispatcher
}

func (r *fakeDispatcherRepo) ListDispatchers(ctx context.Context) ([]domain.Dispatcher, error) {
	return r.dispatchers, nil
}

func TestAssignAndPersistWritesAssignments(t *testing.T) {
	orderRepo := &fakeOrderRepo{
		orders: []domain.Order{
			{ID: 101, Area: "Kowloon", District: "Mong Kok", Status: domain.StatusPending},
			{ID: 102, Area: "Kowloon", District: "Yau Ma Tei", Status: domain.StatusPending},
		},
	}
	dispatcherRepo := &fakeDispatcherRepo{
		dispatchers: []domain.Dispatcher{
			dispatcherWithArea(1, domain.AreaPair{Area: "Kowloon", District: "Mong Kok"}),
			dispatcherWithArea(2, domain.AreaPair{Area: "Kowloon", District: "Yau Ma Tei"}),
		},
	}

	snapshot, results, err := AssignAndPersist(context.Background(), orderRepo, dispatcherRepo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if len(orderRepo.updated) != 2 {
		t.Fatalf("expected 2 persisted updates, got %d", len(orderRepo.updated))
	}

	for _, o := range snapshot {
		if o.DispatcherID == nil {
			t.Errorf("order %d unassigned in snapshot", o.ID)
		}
		if o.Status != domain.StatusInProgress {
			t.Errorf("order %d status = %q", o.ID, o.Status)
		}
	}
}

func TestAssignAndPersistRollsBackFailedUpdate(t *testing.T) {
	orderRepo := &fakeOrderRepo{
		orders: []domain.Order{
			{ID: 101, Area: "Kowloon", District: "Mong Kok", Status: domain.StatusPending},
			{ID: 102, Area: "Kowloon", District: "Yau Ma Tei", Status: domain.StatusPending},
		},
		failIDs: map[int64]bool{101: true},
	}
	dispatcherRepo := &fakeDispatcherRepo{
		dispatchers: []domain.Dispatcher{
			dispatcherWithArea(1, domain.AreaPair{Area: "Kowloon", District: "Mong Kok"}),
			dispatcherWithArea(2, domain.AreaPair{Area: "Kowloon", District: "Yau Ma Tei"}),
		},
	}

	snapshot, _, err := AssignAndPersist(context.Background(), orderRepo, dispatcherRepo)

	var pf *domain.PartialAssignmentFailure
	if !errors.As(err, &pf) {
		t.Fatalf("expected PartialAssignmentFailure, got %v", err)
	}
	if _, ok := pf.Failed[101]; !ok {
		t.Fatalf("failure map missing order 101: %v", pf.Failed)
	}

	// The failed order reads unassigned; the successful one stays assigned.
	for _, o := range snapshot {
		switch o.ID {
		case 101:
			if o.DispatcherID != nil {
				t.Errorf("order 101 still assigned to %d after rollback", *o.DispatcherID)
			}
			if o.Status != domain.StatusPending {
				t.Errorf("order 101 status = %q, want %q", o.Status, domain.StatusPending)
			}
		case 102:
			if o.DispatcherID == nil || *o.DispatcherID != 2 {
				t.Error("order 102 lost its assignment")
			}
		}
	}

	if len(orderRepo.updated) != 1 || orderRepo.updated[0].ID != 102 {
		t.Fatalf("persisted updates = %+v, want only order 102", orderRepo.updated)
	}
}

func TestAssignAndPersistSkipsUnplacedOrders(t *testing.T) {
	orderRepo := &fakeOrderRepo{
		orders: []domain.Order{
			{ID: 101, Area: "Lantau", District: "Tung Chung", Status: domain.StatusPending},
		},
	}
	dispatcherRepo := &fakeDispatcherRepo{}

	snapshot, results, err := AssignAndPersist(context.Background(), orderRepo, dispatcherRepo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(orderRepo.updated) != 0 {
		t.Fatalf("expected no persisted updates, got %d", len(orderRepo.updated))
	}
	if snapshot[0].DispatcherID != nil {
		t.Fatal("unplaced order should stay unassigned")
	}
	if len(results) != 1 || !errors.Is(results[0].Err, domain.ErrNoDispatcherAvailable) {
		t.Fatalf("expected ErrNoDispatcherAvailable result, got %+v", results)
	}
}
