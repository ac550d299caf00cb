package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/api/dto"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/domain"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/metrics"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/ports"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/services"
)

// RouteHandler orchestrates route building and retrieval for all
// dispatchers. It coordinates repository access, optimizer selection, and
// per-route persistence.
type RouteHandler struct {
	Orders       ports.OrderRepository
	Dispatchers  ports.DispatcherRepository
	Routes       ports.RouteRepository
	Deps         services.BuildRouteDeps
	DefaultStart string
	DefaultEnd   string
}

// Build computes fresh routes for every dispatcher with assigned orders.
// A failed build is reported per dispatcher and never blocks the others.
func (h *RouteHandler) Build(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.BuildRoutesRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	mode := domain.OptimizationMode(req.Mode)
	if mode == "" {
		mode = domain.ModeNormal
	}
	if mode != domain.ModeNormal && mode != domain.ModeByTime {
		writeError(w, r, http.StatusBadRequest, "mode must be \"normal\" or \"byTime\"")
		return
	}
	if mode == domain.ModeByTime && h.Deps.TimeWindow == nil {
		writeError(w, r, http.StatusBadRequest, "byTime mode is not available: no time-window optimizer configured")
		return
	}

	options := services.RouteOptions{
		UseDefaultAddress: req.UseDefaultAddress,
		StartAddress:      req.StartAddress,
		EndAddress:        req.EndAddress,
		MapProvider:       req.MapProvider,
	}
	start, end := options.Resolve(h.DefaultStart, h.DefaultEnd)
	if start == "" || end == "" {
		writeError(w, r, http.StatusBadRequest, "start and end address are required")
		return
	}

	startTime := time.Now()
	if req.StartTime != nil {
		startTime = *req.StartTime
	}

	ctx := r.Context()

	orders, err := h.Orders.ListOrders(ctx)
	if err != nil {
		log.Printf("build routes: list orders failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	dispatchers, err := h.Dispatchers.ListDispatchers(ctx)
	if err != nil {
		log.Printf("build routes: list dispatchers failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	today := time.Now().Truncate(24 * time.Hour)
	existing, err := h.Routes.ListActiveRoutes(ctx, today)
	if err != nil {
		log.Printf("build routes: list routes failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	svcReq := services.BuildRoutesRequest{
		Mode:         mode,
		StartAddress: start,
		EndAddress:   end,
		StartTime:    startTime,
	}

	updated, failures := services.BuildRoutes(ctx, svcReq, orders, dispatchers, existing, h.Deps)

	// Persist only the routes this sweep rebuilt; untouched entries keep
	// their stored state.
	rebuilt := rebuiltRoutes(existing, updated)
	res := dto.BuildRoutesResponse{
		Routes:   make([]dto.RouteResponse, 0, len(rebuilt)),
		Failures: make([]dto.RouteFailureResponse, 0, len(failures)),
	}

	for _, route := range rebuilt {
		if err := h.Routes.SaveRoute(ctx, route); err != nil {
			log.Printf("build routes: save route dispatcher=%d failed: %v", route.DispatcherID, err)
			metrics.RouteBuilds.WithLabelValues(string(mode), "persist_failed").Inc()
			res.Failures = append(res.Failures, dto.RouteFailureResponse{
				DispatcherID: route.DispatcherID,
				Message:      "route not saved: " + err.Error(),
			})
			continue
		}
		metrics.RouteBuilds.WithLabelValues(string(mode), "built").Inc()
		res.Routes = append(res.Routes, toRouteResponse(route))
	}

	for _, f := range failures {
		metrics.RouteBuilds.WithLabelValues(string(mode), "failed").Inc()
		res.Failures = append(res.Failures, dto.RouteFailureResponse{
			DispatcherID: f.DispatcherID,
			Message:      f.Err.Error(),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// List returns the active routes for a date (default today).
func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	date := time.Now().Truncate(24 * time.Hour)
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	routes, err := h.Routes.ListActiveRoutes(r.Context(), date)
	if err != nil {
		log.Printf("list routes failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRoutesResponse{Routes: make([]dto.RouteResponse, 0, len(routes))}
	for _, route := range routes {
		res.Routes = append(res.Routes, toRouteResponse(route))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// rebuiltRoutes picks the entries of updated that differ from existing,
// i.e. the routes this sweep actually produced.
func rebuiltRoutes(existing, updated []domain.Route) []domain.Route {
	prior := make(map[string]struct{}, len(existing))
	for _, route := range existing {
		prior[route.ID] = struct{}{}
	}

	out := make([]domain.Route, 0, len(updated))
	for _, route := range updated {
		if _, ok := prior[route.ID]; !ok {
			out = append(out, route)
		}
	}
	return out
}

func toRouteResponse(route domain.Route) dto.RouteResponse {
	stops := make([]dto.RouteStopResponse, 0, len(route.Stops))
	for _, s := range route.Stops {
		ids := make([]int64, 0, len(s.Orders))
		for _, o := range s.Orders {
			ids = append(ids, o.ID)
		}
		stops = append(stops, dto.RouteStopResponse{
			Address:  s.Address,
			Area:     s.Area,
			District: s.District,
			Lat:      s.Lat,
			Lng:      s.Lng,
			OrderIDs: ids,
		})
	}

	path := make([]dto.PointResponse, 0, len(route.Path))
	for _, p := range route.Path {
		path = append(path, dto.PointResponse{Lat: p.Lat, Lng: p.Lon})
	}

	return dto.RouteResponse{
		RouteID:       route.ID,
		DispatcherID:  route.DispatcherID,
		RouteDate:     route.RouteDate,
		Mode:          string(route.Mode),
		StartAddress:  route.StartAddress,
		EndAddress:    route.EndAddress,
		StartPoint:    dto.PointResponse{Lat: route.StartCoord.Lat, Lng: route.StartCoord.Lon},
		EndPoint:      dto.PointResponse{Lat: route.EndCoord.Lat, Lng: route.EndCoord.Lon},
		Stops:         stops,
		SegmentTimes:  route.SegmentTimes,
		TotalTime:     route.TotalTime,
		TotalDistance: route.TotalDistance,
		Path:          path,
		CreatedBy:     route.CreatedBy,
		Version:       route.Version,
		IsActive:      route.IsActive,
	}
}
