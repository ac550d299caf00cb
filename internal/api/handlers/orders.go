package handlers

import (
	"log"
	"net/http"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/api/dto"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/ports"
)

// OrderHandler exposes read-only order retrieval endpoints.
type OrderHandler struct {
	Repo ports.OrderRepository
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	orders, err := h.Repo.ListOrders(r.Context())
	if err != nil {
		log.Printf("list orders failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListOrdersResponse{
		Orders: make([]dto.OrderResponse, 0, len(orders)),
	}
	for _, o := range orders {
		res.Orders = append(res.Orders, dto.OrderResponse{
			OrderID:         o.ID,
			Date:            o.Date,
			TimeBucket:      string(o.TimeBucket),
			Status:          string(o.Status),
			DetailedAddress: o.DetailedAddress,
			Area:            o.Area,
			District:        o.District,
			Lat:             o.Lat,
			Lng:             o.Lng,
			Postcode:        o.Postcode,
			DispatcherID:    o.DispatcherID,
			CustomerID:      o.CustomerID,
			Note:            o.Note,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
