package handlers

import (
	"log"
	"net/http"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/api/dto"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/ports"
)

// DispatcherHandler exposes read-only dispatcher retrieval endpoints.
type DispatcherHandler struct {
	Repo ports.DispatcherRepository
}

func (h *DispatcherHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	dispatchers, err := h.Repo.ListDispatchers(r.Context())
	if err != nil {
		log.Printf("list dispatchers failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListDispatchersResponse{
		Dispatchers: make([]dto.DispatcherResponse, 0, len(dispatchers)),
	}
	for _, d := range dispatchers {
		pairs := make([]dto.AreaPairResponse, 0, len(d.ResponsibleArea))
		for _, p := range d.ResponsibleArea {
			pairs = append(pairs, dto.AreaPairResponse{Area: p.Area, District: p.District})
		}

		res.Dispatchers = append(res.Dispatchers, dto.DispatcherResponse{
			DispatcherID:    d.ID,
			Name:            d.Name,
			Phone:           d.Phone,
			Email:           d.Email,
			ActiveDay:       d.ActiveDay,
			ResponsibleArea: pairs,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
