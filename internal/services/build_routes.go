package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/domain"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/ports"
)

// RouteOptions carries the caller-side routing configuration (stored
// settings in the admin UI): explicit start/end addresses or the
// configured defaults, and the map provider used for rendering.
type RouteOptions struct {
	UseDefaultAddress bool
	StartAddress      string
	EndAddress        string
	MapProvider       string
}

// Resolve returns the effective start/end addresses for a build.
func (o RouteOptions) Resolve(defaultStart, defaultEnd string) (string, string) {
	if o.UseDefaultAddress {
		return defaultStart, defaultEnd
	}
	return strings.TrimSpace(o.StartAddress), strings.TrimSpace(o.EndAddress)
}

type BuildRoutesRequest struct {
	Mode         domain.OptimizationMode
	StartAddress string
	EndAddress   string
	// StartTime anchors the time-window constraints in "byTime" mode.
	StartTime time.Time
}

// RouteBuildFailure records why one dispatcher's route could not be built.
// Failures are isolated: other dispatchers' builds proceed.
type RouteBuildFailure struct {
	DispatcherID int64
	Err          error
}

// BuildRouteDeps bundles the collaborators a route sweep needs.
type BuildRouteDeps struct {
	Waypoint   ports.WaypointOptimizer
	TimeWindow ports.TimeWindowOptimizer
	Builder    *RouteBuilder
}

// BuildRoutes computes a fresh route for every dispatcher that currently
// has assigned orders, upserting into the supplied working set.
//
// Each dispatcher's route is optimized independently (no multi-vehicle
// joint optimization). A failed build leaves that dispatcher's previous
// route in the working set untouched and is reported in the failure list;
// the sweep never aborts early.
func BuildRoutes(
	ctx context.Context,
	req BuildRoutesRequest,
	orders []domain.Order,
	dispatchers []domain.Dispatcher,
	routes []domain.Route,
	deps BuildRouteDeps,
) ([]domain.Route, []RouteBuildFailure) {
	working := make([]domain.Route, len(routes))
	copy(working, routes)

	var failures []RouteBuildFailure

	for _, dispatcher := range dispatchers {
		assigned := ordersFor(dispatcher.ID, orders)
		if len(assigned) == 0 {
			continue
		}

		route, err := buildDispatcherRoute(ctx, req, dispatcher.ID, assigned, deps)
		if err != nil {
			log.Printf("build routes: dispatcher=%d failed: %v", dispatcher.ID, err)
			failures = append(failures, RouteBuildFailure{DispatcherID: dispatcher.ID, Err: err})
			continue
		}

		working = UpsertRoute(working, route)
	}

	return working, failures
}

func buildDispatcherRoute(
	ctx context.Context,
	req BuildRoutesRequest,
	dispatcherID int64,
	assigned []domain.Order,
	deps BuildRouteDeps,
) (domain.Route, error) {
	stops := GroupStops(assigned)

	var (
		res ports.OptimizeResult
		err error
	)

	switch req.Mode {
	case domain.ModeByTime:
		res, err = optimizeByTime(ctx, req, stops, deps)
	default:
		coords := make([]domain.Coordinates, 0, len(stops))
		for _, s := range stops {
			coords = append(coords, s.Coord())
		}
		res, err = deps.Waypoint.Optimize(ctx, req.StartAddress, req.EndAddress, coords)
	}
	if err != nil {
		return domain.Route{}, fmt.Errorf("optimize: %w", err)
	}

	mode := req.Mode
	if mode == "" {
		mode = domain.ModeNormal
	}

	return deps.Builder.BuildRoute(ctx, res, dispatcherID, stops, mode, req.StartAddress, req.EndAddress)
}

// optimizeByTime resolves the endpoint coordinates and derives each stop's
// open/close window from its orders' requested time buckets before calling
// the time-window capability.
func optimizeByTime(
	ctx context.Context,
	req BuildRoutesRequest,
	stops []domain.Stop,
	deps BuildRouteDeps,
) (ports.OptimizeResult, error) {
	// The time-window optimizer is an optional deployment dependency; a
	// byTime request without one fails per dispatcher, it never panics.
	if deps.TimeWindow == nil {
		return ports.OptimizeResult{}, &domain.RoutingError{
			Op:  "time window optimize",
			Err: errors.New("no time-window optimizer configured"),
		}
	}
	if deps.Builder == nil || deps.Builder.Geocoder == nil {
		return ports.OptimizeResult{}, fmt.Errorf("no geocoder configured")
	}

	startCoord, err := deps.Builder.Geocoder.Geocode(ctx, req.StartAddress)
	if err != nil {
		return ports.OptimizeResult{}, fmt.Errorf("resolve start %q: %w", req.StartAddress, err)
	}
	endCoord, err := deps.Builder.Geocoder.Geocode(ctx, req.EndAddress)
	if err != nil {
		return ports.OptimizeResult{}, fmt.Errorf("resolve end %q: %w", req.EndAddress, err)
	}

	timed := make([]ports.TimedStop, 0, len(stops))
	for _, s := range stops {
		openAt, closeAt := stopWindow(s)
		timed = append(timed, ports.TimedStop{
			Lat:   s.Lat,
			Lng:   s.Lng,
			Open:  openAt,
			Close: closeAt,
		})
	}

	res, err := deps.TimeWindow.OptimizeByTime(ctx, startCoord, endCoord, timed, req.StartTime)
	if err != nil {
		return ports.OptimizeResult{}, err
	}

	// Not every optimizer echoes the endpoints back; keep the resolved
	// ones so the builder does not geocode twice.
	if res.StartCoord.IsZero() {
		res.StartCoord = startCoord
	}
	if res.EndCoord.IsZero() {
		res.EndCoord = endCoord
	}
	return res, nil
}

// stopWindow widens to the earliest open and latest close across the
// stop's orders, since one waypoint can serve several buckets.
func stopWindow(s domain.Stop) (string, string) {
	openAt, closeAt := "", ""
	for _, o := range s.Orders {
		bo, bc := bucketWindow(o.TimeBucket)
		if openAt == "" || bo < openAt {
			openAt = bo
		}
		if closeAt == "" || bc > closeAt {
			closeAt = bc
		}
	}
	if openAt == "" {
		return "08:00", "21:00"
	}
	return openAt, closeAt
}

func bucketWindow(b domain.TimeBucket) (string, string) {
	switch b {
	case domain.BucketMorning:
		return "08:00", "12:00"
	case domain.BucketAfternoon:
		return "12:00", "17:00"
	case domain.BucketEvening:
		return "17:00", "21:00"
	default:
		return "08:00", "21:00"
	}
}

func ordersFor(dispatcherID int64, orders []domain.Order) []domain.Order {
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if o.DispatcherID == nil || *o.DispatcherID != dispatcherID {
			continue
		}
		if o.Status == domain.StatusDelivered || o.Status == domain.StatusCancelled {
			continue
		}
		out = append(out, o)
	}
	return out
}
