package services

import (
	"context"
	"fmt"
	"log"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/domain"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/ports"
)

// AssignAndPersist runs a batch assignment over the stored orders and
// writes each computed assignment back through the order repository.
//
// A persistence failure for one order does not block the rest: failed
// updates are rolled back in the returned snapshot (the order stays
// unassigned) and aggregated into a *domain.PartialAssignmentFailure so
// callers can report partial success. Orders the engine could not place
// keep their per-order warning from AssignBatch.
func AssignAndPersist(
	ctx context.Context,
	orderRepo ports.OrderRepository,
	dispatcherRepo ports.DispatcherRepository,
) ([]domain.Order, []AssignmentResult, error) {
	orders, err := orderRepo.ListOrders(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("assign orders: list orders: %w", err)
	}

	dispatchers, err := dispatcherRepo.ListDispatchers(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("assign orders: list dispatchers: %w", err)
	}

	assigned, results := AssignBatch(orders, dispatchers)

	byID := make(map[int64]int, len(assigned))
	for i, o := range assigned {
		byID[o.ID] = i
	}

	failed := make(map[int64]error)
	for _, res := range results {
		if res.Err != nil {
			log.Printf("assign orders: order=%d unplaced: %v", res.OrderID, res.Err)
			continue
		}

		idx, ok := byID[res.OrderID]
		if !ok {
			continue
		}

		if err := orderRepo.UpdateOrder(ctx, assigned[idx]); err != nil {
			log.Printf("assign orders: order=%d update failed: %v", res.OrderID, err)
			failed[res.OrderID] = err
			// Keep the snapshot honest: the order is still unassigned in
			// the store, so it must read as unassigned here too.
			assigned[idx].DispatcherID = nil
			assigned[idx].Status = orders[idx].Status
		}
	}

	if len(failed) > 0 {
		return assigned, results, &domain.PartialAssignmentFailure{Failed: failed}
	}
	return assigned, results, nil
}
