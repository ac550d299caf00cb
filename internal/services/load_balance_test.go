package services

import (
	"testing"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/domain"
)

func assignedTo(id int64, orderID int64) domain.Order {
	d := id
	return domain.Order{ID: orderID, DispatcherID: &d, Status: domain.StatusInProgress}
}

func TestPickLeastLoaded(t *testing.T) {
	candidates := []domain.Dispatcher{{ID: 1}, {ID: 2}, {ID: 3}}
	snapshot := []domain.Order{
		assignedTo(1, 10),
		assignedTo(1, 11),
		assignedTo(2, 12),
		assignedTo(3, 13),
		assignedTo(3, 14),
	}

	pick := PickLeastLoaded(candidates, snapshot)
	if pick == nil {
		t.Fatal("expected a pick, got nil")
	}
	if pick.ID != 2 {
		t.Fatalf("expected dispatcher 2, got %d", pick.ID)
	}
}

func TestPickLeastLoadedTieIsStable(t *testing.T) {
	candidates := []domain.Dispatcher{{ID: 7}, {ID: 3}, {ID: 5}}

	// All zero counts: the earliest candidate wins.
	pick := PickLeastLoaded(candidates, nil)
	if pick == nil {
		t.Fatal("expected a pick, got nil")
	}
	if pick.ID != 7 {
		t.Fatalf("expected first candidate 7, got %d", pick.ID)
	}
}

func TestPickLeastLoadedEmptyCandidates(t *testing.T) {
	if pick := PickLeastLoaded(nil, nil); pick != nil {
		t.Fatalf("expected nil, got dispatcher %d", pick.ID)
	}
}

func TestPickLeastLoadedIgnoresNonCandidates(t *testing.T) {
	candidates := []domain.Dispatcher{{ID: 1}, {ID: 2}}
	snapshot := []domain.Order{
		assignedTo(9, 10),
		assignedTo(9, 11),
		assignedTo(1, 12),
	}

	pick := PickLeastLoaded(candidates, snapshot)
	if pick == nil {
		t.Fatal("expected a pick, got nil")
	}
	if pick.ID != 2 {
		t.Fatalf("expected dispatcher 2, got %d", pick.ID)
	}
}
