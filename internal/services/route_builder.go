package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/domain"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/ports"
)

// RouteBuilder assembles persistable Route records from optimizer output.
//
// It resolves start/end coordinates (optimizers do not always return
// resolved endpoints), reorders stops by the optimizer's visiting
// permutation, and fetches the road-following polyline for rendering,
// which is a separate call from optimization.
type RouteBuilder struct {
	Geocoder ports.Geocoder
	Geometry ports.PathGeometryProvider
	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// Placeholder for the authenticated actor until the auth collaborator
// supplies one.
const defaultCreatedBy = "Admin"

// BuildRoute turns one dispatcher's optimized stop order into a Route.
//
// It fails with *domain.NoRouteFoundError when the geometry provider
// returns an empty polyline; no Route is produced on any failure, so a
// failed re-optimization never destroys a previously built route.
func (b *RouteBuilder) BuildRoute(
	ctx context.Context,
	res ports.OptimizeResult,
	dispatcherID int64,
	stops []domain.Stop,
	mode domain.OptimizationMode,
	startAddress string,
	endAddress string,
) (domain.Route, error) {
	if len(res.VisitOrder) != len(stops) {
		return domain.Route{}, fmt.Errorf(
			"build route: visit order has %d entries for %d stops",
			len(res.VisitOrder), len(stops),
		)
	}
	if len(res.SegmentTimes) != len(stops)+1 {
		return domain.Route{}, fmt.Errorf(
			"build route: expected %d segment times, got %d",
			len(stops)+1, len(res.SegmentTimes),
		)
	}

	startCoord, err := b.resolveEndpoint(ctx, res.StartCoord, startAddress)
	if err != nil {
		return domain.Route{}, fmt.Errorf("build route: resolve start: %w", err)
	}
	endCoord, err := b.resolveEndpoint(ctx, res.EndCoord, endAddress)
	if err != nil {
		return domain.Route{}, fmt.Errorf("build route: resolve end: %w", err)
	}

	ordered, err := reorderStops(stops, res.VisitOrder)
	if err != nil {
		return domain.Route{}, fmt.Errorf("build route: %w", err)
	}

	points := make([]domain.Coordinates, 0, len(ordered)+2)
	points = append(points, startCoord)
	for _, s := range ordered {
		points = append(points, s.Coord())
	}
	points = append(points, endCoord)

	path, err := b.Geometry.GetPath(ctx, points)
	if err != nil {
		return domain.Route{}, fmt.Errorf("build route: fetch path geometry: %w", err)
	}
	if len(path) == 0 {
		return domain.Route{}, &domain.NoRouteFoundError{DispatcherID: dispatcherID}
	}

	now := time.Now()
	if b.Now != nil {
		now = b.Now()
	}

	return domain.Route{
		ID:            uuid.NewString(),
		DispatcherID:  dispatcherID,
		RouteDate:     now.Truncate(24 * time.Hour),
		Mode:          mode,
		StartAddress:  startAddress,
		EndAddress:    endAddress,
		StartCoord:    startCoord,
		EndCoord:      endCoord,
		Stops:         ordered,
		SegmentTimes:  res.SegmentTimes,
		TotalTime:     res.TotalTime,
		TotalDistance: res.TotalDistance,
		Path:          path,
		CreatedBy:     defaultCreatedBy,
		Version:       1,
		IsActive:      true,
	}, nil
}

// Prefer optimizer-reported coordinates; geocode the raw address text only
// when the optimizer returned none.
func (b *RouteBuilder) resolveEndpoint(
	ctx context.Context,
	reported domain.Coordinates,
	address string,
) (domain.Coordinates, error) {
	if !reported.IsZero() {
		return reported, nil
	}
	if address == "" {
		return domain.Coordinates{}, errors.New("no coordinates and no address to geocode")
	}
	if b.Geocoder == nil {
		return domain.Coordinates{}, fmt.Errorf("no geocoder configured for %q", address)
	}
	return b.Geocoder.Geocode(ctx, address)
}

// reorderStops applies the optimizer's visiting permutation.
func reorderStops(stops []domain.Stop, visitOrder []int) ([]domain.Stop, error) {
	seen := make(map[int]struct{}, len(visitOrder))
	ordered := make([]domain.Stop, 0, len(stops))
	for _, idx := range visitOrder {
		if idx < 0 || idx >= len(stops) {
			return nil, fmt.Errorf("visit order index %d out of range for %d stops", idx, len(stops))
		}
		if _, dup := seen[idx]; dup {
			return nil, fmt.Errorf("visit order repeats index %d", idx)
		}
		seen[idx] = struct{}{}
		ordered = append(ordered, stops[idx])
	}
	return ordered, nil
}

// UpsertRoute replaces any working-set entry for the same dispatcher,
// appending otherwise. This enforces the one-active-route-per-dispatcher
// invariant without touching other dispatchers' routes.
func UpsertRoute(routes []domain.Route, route domain.Route) []domain.Route {
	out := make([]domain.Route, len(routes))
	copy(out, routes)

	for i := range out {
		if out[i].DispatcherID == route.DispatcherID {
			out[i] = route
			return out
		}
	}
	return append(out, route)
}

// GroupStops folds orders sharing identical coordinates into single
// routable waypoints, preserving first-seen order.
func GroupStops(orders []domain.Order) []domain.Stop {
	type key struct{ lat, lng float64 }

	index := make(map[key]int, len(orders))
	stops := make([]domain.Stop, 0, len(orders))

	for _, o := range orders {
		k := key{lat: o.Lat, lng: o.Lng}
		if i, ok := index[k]; ok {
			stops[i].Orders = append(stops[i].Orders, o)
			continue
		}

		index[k] = len(stops)
		stops = append(stops, domain.Stop{
			Address:  o.DetailedAddress,
			Area:     o.Area,
			District: o.District,
			Lat:      o.Lat,
			Lng:      o.Lng,
			Orders:   []domain.Order{o},
		})
	}
	return stops
}
