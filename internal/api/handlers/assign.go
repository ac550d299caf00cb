package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/api/dto"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/domain"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/metrics"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/ports"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/services"
)

// AssignHandler triggers a batch assignment sweep over the stored orders.
type AssignHandler struct {
	Orders      ports.OrderRepository
	Dispatchers ports.DispatcherRepository
}

// Assign runs the three-phase assignment and persists the results.
// Partial failures still answer 200: each unplaced or unpersisted order is
// reported as a warning rather than failing the whole batch.
func (h *AssignHandler) Assign(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	_, results, err := services.AssignAndPersist(r.Context(), h.Orders, h.Dispatchers)

	var partial *domain.PartialAssignmentFailure
	if err != nil && !errors.As(err, &partial) {
		log.Printf("assign batch failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.AssignResponse{
		Assigned: make([]dto.AssignedOrderResponse, 0, len(results)),
		Warnings: make([]dto.AssignmentWarning, 0),
	}

	for _, result := range results {
		if result.Err != nil {
			metrics.OrderAssignments.WithLabelValues("none", "unplaced").Inc()
			res.Warnings = append(res.Warnings, dto.AssignmentWarning{
				OrderID: result.OrderID,
				Message: result.Err.Error(),
			})
			continue
		}

		if partial != nil {
			if persistErr, failed := partial.Failed[result.OrderID]; failed {
				metrics.OrderAssignments.WithLabelValues(result.Phase, "persist_failed").Inc()
				res.Warnings = append(res.Warnings, dto.AssignmentWarning{
					OrderID: result.OrderID,
					Message: "assignment not saved: " + persistErr.Error(),
				})
				continue
			}
		}

		metrics.OrderAssignments.WithLabelValues(result.Phase, "assigned").Inc()
		res.Assigned = append(res.Assigned, dto.AssignedOrderResponse{
			OrderID:      result.OrderID,
			DispatcherID: result.DispatcherID,
			Phase:        result.Phase,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
