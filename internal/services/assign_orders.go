package services

import "github.com/happy-hackers/RoutePlanner-sub000/internal/domain"

// AssignmentResult reports the intended outcome for one order in a batch.
// Err is non-nil when the order could not be placed; callers surface it as
// a per-order warning rather than aborting the batch.
type AssignmentResult struct {
	OrderID      int64
	DispatcherID int64
	Phase        string
	Err          error
}

// Assignment phases, in sweep order.
const (
	PhaseUnambiguous = "unambiguous"
	PhaseBalanced    = "balanced"
	PhaseFallback    = "fallback"
)

// AssignBatch assigns unassigned orders to dispatchers by geographic
// responsibility with load-balancing tie-breaks.
//
// The sweep runs in three phases over the unassigned orders, preserving
// input order within each phase:
//
//  1. unambiguous: orders whose address matches exactly one dispatcher are
//     assigned immediately, updating the load snapshot as they land.
//  2. balanced: orders with several geographic matches go to the least
//     loaded of their own candidates, counted against the phase-1-updated
//     snapshot.
//  3. fallback: orders matching no dispatcher go to the least loaded of
//     all dispatchers, so no order is left behind while any dispatcher
//     exists.
//
// Each phase completes before the next begins; later picks must see
// earlier assignments or load balancing degenerates to piling orders onto
// one dispatcher.
//
// The input slice is never mutated: a fresh snapshot is returned together
// with one result per order the sweep touched. Orders already carrying a
// dispatcher are skipped, which makes repeated calls idempotent. With an
// empty dispatcher list the input is returned unchanged and every
// unassigned order reports ErrNoDispatcherAvailable.
func AssignBatch(orders []domain.Order, dispatchers []domain.Dispatcher) ([]domain.Order, []AssignmentResult) {
	working := make([]domain.Order, len(orders))
	copy(working, orders)

	results := make([]AssignmentResult, 0, len(orders))

	if len(dispatchers) == 0 {
		for _, o := range working {
			if !o.Assigned() {
				results = append(results, AssignmentResult{
					OrderID: o.ID,
					Err:     domain.ErrNoDispatcherAvailable,
				})
			}
		}
		return working, results
	}

	// Deferred work for the later phases, keyed by index into working.
	type deferred struct {
		idx        int
		candidates []domain.Dispatcher
	}
	var ambiguous []deferred
	var unmatched []int

	assign := func(idx int, dispatcherID int64, phase string) {
		id := dispatcherID
		working[idx].DispatcherID = &id
		working[idx].Status = domain.StatusInProgress
		results = append(results, AssignmentResult{
			OrderID:      working[idx].ID,
			DispatcherID: dispatcherID,
			Phase:        phase,
		})
	}

	// Phase A: unambiguous geographic matches.
	for i := range working {
		if working[i].Assigned() {
			continue
		}

		matches := MatchDispatchers(working[i], dispatchers)
		switch len(matches) {
		case 0:
			unmatched = append(unmatched, i)
		case 1:
			assign(i, matches[0].ID, PhaseUnambiguous)
		default:
			ambiguous = append(ambiguous, deferred{idx: i, candidates: matches})
		}
	}

	// Phase B: ambiguous matches, balanced within each order's candidates.
	for _, d := range ambiguous {
		pick := PickLeastLoaded(d.candidates, working)
		if pick == nil {
			results = append(results, AssignmentResult{
				OrderID: working[d.idx].ID,
				Err:     domain.ErrNoDispatcherAvailable,
			})
			continue
		}
		assign(d.idx, pick.ID, PhaseBalanced)
	}

	// Phase C: unmatched orders, balanced over the entire dispatcher list.
	for _, idx := range unmatched {
		pick := PickLeastLoaded(dispatchers, working)
		if pick == nil {
			results = append(results, AssignmentResult{
				OrderID: working[idx].ID,
				Err:     domain.ErrNoDispatcherAvailable,
			})
			continue
		}
		assign(idx, pick.ID, PhaseFallback)
	}

	return working, results
}
