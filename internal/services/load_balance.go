package services

import "github.com/happy-hackers/RoutePlanner-sub000/internal/domain"

// PickLeastLoaded returns the candidate currently carrying the fewest
// orders in the snapshot, or nil when candidates is empty.
//
// Ties resolve to the earliest candidate in the input order, so the pick is
// stable for a given snapshot. The snapshot is read-only.
func PickLeastLoaded(candidates []domain.Dispatcher, snapshot []domain.Order) *domain.Dispatcher {
	if len(candidates) == 0 {
		return nil
	}

	counts := make(map[int64]int, len(candidates))
	for _, o := range snapshot {
		if o.DispatcherID != nil {
			counts[*o.DispatcherID]++
		}
	}

	best := 0
	for i := 1; i < len(candidates); i++ {
		if counts[candidates[i].ID] < counts[candidates[best].ID] {
			best = i
		}
	}

	picked := candidates[best]
	return &picked
}
