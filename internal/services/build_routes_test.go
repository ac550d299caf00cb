package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/adapters/routing"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/domain"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/ports"
)

func buildTestOrders() []domain.Order {
	d1, d2 := int64(1), int64(2)
	return []domain.Order{
		{ID: 1, DetailedAddress: "A", Lat: 22.30, Lng: 114.17, DispatcherID: &d1, Status: domain.StatusInProgress, TimeBucket: domain.BucketMorning},
		{ID: 2, DetailedAddress: "B", Lat: 22.31, Lng: 114.18, DispatcherID: &d1, Status: domain.StatusInProgress, TimeBucket: domain.BucketAfternoon},
		{ID: 3, DetailedAddress: "C", Lat: 22.32, Lng: 114.19, DispatcherID: &d2, Status: domain.StatusInProgress, TimeBucket: domain.BucketMorning},
	}
}

func TestBuildRoutesPerDispatcher(t *testing.T) {
	optimizer := &routing.MockWaypointOptimizer{
		Result: ports.OptimizeResult{
			VisitOrder:    []int{0},
			StartCoord:    domain.Coordinates{Lon: 114.16, Lat: 22.28},
			EndCoord:      domain.Coordinates{Lon: 114.16, Lat: 22.28},
			SegmentTimes:  []int{5, 6},
			TotalTime:     11,
			TotalDistance: 4000,
		},
	}

	// One order per dispatcher keeps the scripted single-stop result valid
	// for both calls.
	d1, d2 := int64(1), int64(2)
	orders := []domain.Order{
		{ID: 1, DetailedAddress: "A", Lat: 22.30, Lng: 114.17, DispatcherID: &d1, Status: domain.StatusInProgress},
		{ID: 3, DetailedAddress: "C", Lat: 22.32, Lng: 114.19, DispatcherID: &d2, Status: domain.StatusInProgress},
	}
	dispatchers := []domain.Dispatcher{{ID: 1}, {ID: 2}}

	deps := BuildRouteDeps{
		Waypoint: optimizer,
		Builder:  testBuilder(&routing.MockPathProvider{}),
	}
	req := BuildRoutesRequest{
		Mode:         domain.ModeNormal,
		StartAddress: "HUB",
		EndAddress:   "HUB",
	}

	routes, failures := BuildRoutes(context.Background(), req, orders, dispatchers, nil, deps)

	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %+v", failures)
	}
	if len(routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(routes))
	}
	if optimizer.Calls != 2 {
		t.Fatalf("optimizer called %d times, want 2", optimizer.Calls)
	}
}

func TestBuildRoutesFailureIsIsolated(t *testing.T) {
	// Optimizer fails outright; both dispatchers report a failure but the
	// prior working set survives untouched.
	optimizer := &routing.MockWaypointOptimizer{
		Err: &domain.RoutingError{Op: "waypoint optimize", Err: errors.New("unreachable address")},
	}

	dispatchers := []domain.Dispatcher{{ID: 1}, {ID: 2}}
	prior := []domain.Route{{ID: "r-old", DispatcherID: 1, TotalTime: 40}}

	deps := BuildRouteDeps{
		Waypoint: optimizer,
		Builder:  testBuilder(&routing.MockPathProvider{}),
	}
	req := BuildRoutesRequest{
		Mode:         domain.ModeNormal,
		StartAddress: "HUB",
		EndAddress:   "HUB",
	}

	routes, failures := BuildRoutes(context.Background(), req, buildTestOrders(), dispatchers, prior, deps)

	if len(failures) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(failures))
	}
	if len(routes) != 1 || routes[0].ID != "r-old" {
		t.Fatalf("prior route was not preserved: %+v", routes)
	}

	var re *domain.RoutingError
	if !errors.As(failures[0].Err, &re) {
		t.Fatalf("expected RoutingError, got %v", failures[0].Err)
	}
}

func TestBuildRoutesSkipsDispatchersWithoutOrders(t *testing.T) {
	optimizer := &routing.MockWaypointOptimizer{
		Result: ports.OptimizeResult{
			VisitOrder:    []int{0},
			StartCoord:    domain.Coordinates{Lon: 114.16, Lat: 22.28},
			EndCoord:      domain.Coordinates{Lon: 114.16, Lat: 22.28},
			SegmentTimes:  []int{5, 6},
			TotalTime:     11,
			TotalDistance: 4000,
		},
	}

	d1 := int64(1)
	orders := []domain.Order{
		{ID: 1, DetailedAddress: "A", Lat: 22.30, Lng: 114.17, DispatcherID: &d1, Status: domain.StatusInProgress},
		// Delivered orders no longer route.
		{ID: 2, DetailedAddress: "B", Lat: 22.31, Lng: 114.18, DispatcherID: &d1, Status: domain.StatusDelivered},
	}
	dispatchers := []domain.Dispatcher{{ID: 1}, {ID: 2}}

	deps := BuildRouteDeps{
		Waypoint: optimizer,
		Builder:  testBuilder(&routing.MockPathProvider{}),
	}
	req := BuildRoutesRequest{Mode: domain.ModeNormal, StartAddress: "HUB", EndAddress: "HUB"}

	routes, failures := BuildRoutes(context.Background(), req, orders, dispatchers, nil, deps)

	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %+v", failures)
	}
	if len(routes) != 1 {
		t.Fatalf("expected 1 route, got %d", len(routes))
	}
	if routes[0].DispatcherID != 1 {
		t.Fatalf("route built for dispatcher %d, want 1", routes[0].DispatcherID)
	}
	if len(routes[0].Stops) != 1 {
		t.Fatalf("expected 1 stop, got %d", len(routes[0].Stops))
	}
}

func TestBuildRoutesByTimeWithoutOptimizerFails(t *testing.T) {
	// A deployment without the time-window service leaves TimeWindow nil;
	// a byTime sweep must fail per dispatcher, not crash.
	d1 := int64(1)
	orders := []domain.Order{
		{ID: 1, DetailedAddress: "A", Lat: 22.30, Lng: 114.17, DispatcherID: &d1, Status: domain.StatusInProgress, TimeBucket: domain.BucketMorning},
	}
	dispatchers := []domain.Dispatcher{{ID: 1}}
	prior := []domain.Route{{ID: "r-old", DispatcherID: 1, TotalTime: 40}}

	deps := BuildRouteDeps{
		Builder: testBuilder(&routing.MockPathProvider{}),
	}
	req := BuildRoutesRequest{
		Mode:         domain.ModeByTime,
		StartAddress: "HUB",
		EndAddress:   "HUB",
		StartTime:    time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC),
	}

	routes, failures := BuildRoutes(context.Background(), req, orders, dispatchers, prior, deps)

	if len(failures) != 1 || failures[0].DispatcherID != 1 {
		t.Fatalf("expected 1 failure for dispatcher 1, got %+v", failures)
	}
	var re *domain.RoutingError
	if !errors.As(failures[0].Err, &re) {
		t.Fatalf("expected RoutingError, got %v", failures[0].Err)
	}
	if len(routes) != 1 || routes[0].ID != "r-old" {
		t.Fatalf("prior route was not preserved: %+v", routes)
	}
}

func TestBuildRoutesByTimeDerivesWindows(t *testing.T) {
	timeWindow := &routing.MockTimeWindowOptimizer{
		Result: ports.OptimizeResult{
			VisitOrder:    []int{1, 0},
			SegmentTimes:  []int{5, 9, 6},
			TotalTime:     20,
			TotalDistance: 7000,
		},
	}

	d1 := int64(1)
	orders := []domain.Order{
		{ID: 1, DetailedAddress: "A", Lat: 22.30, Lng: 114.17, DispatcherID: &d1, Status: domain.StatusInProgress, TimeBucket: domain.BucketMorning},
		{ID: 2, DetailedAddress: "B", Lat: 22.31, Lng: 114.18, DispatcherID: &d1, Status: domain.StatusInProgress, TimeBucket: domain.BucketEvening},
	}
	dispatchers := []domain.Dispatcher{{ID: 1}}

	deps := BuildRouteDeps{
		TimeWindow: timeWindow,
		Builder:    testBuilder(&routing.MockPathProvider{}),
	}
	start := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	req := BuildRoutesRequest{
		Mode:         domain.ModeByTime,
		StartAddress: "HUB",
		EndAddress:   "HUB",
		StartTime:    start,
	}

	routes, failures := BuildRoutes(context.Background(), req, orders, dispatchers, nil, deps)

	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %+v", failures)
	}
	if len(routes) != 1 {
		t.Fatalf("expected 1 route, got %d", len(routes))
	}

	if timeWindow.Calls != 1 {
		t.Fatalf("time-window optimizer called %d times, want 1", timeWindow.Calls)
	}
	if len(timeWindow.LastStops) != 2 {
		t.Fatalf("expected 2 timed stops, got %d", len(timeWindow.LastStops))
	}
	if timeWindow.LastStops[0].Open != "08:00" || timeWindow.LastStops[0].Close != "12:00" {
		t.Errorf("morning stop window = %s-%s, want 08:00-12:00",
			timeWindow.LastStops[0].Open, timeWindow.LastStops[0].Close)
	}
	if timeWindow.LastStops[1].Open != "17:00" || timeWindow.LastStops[1].Close != "21:00" {
		t.Errorf("evening stop window = %s-%s, want 17:00-21:00",
			timeWindow.LastStops[1].Open, timeWindow.LastStops[1].Close)
	}
	if !timeWindow.LastStart.Equal(start) {
		t.Errorf("start time = %v, want %v", timeWindow.LastStart, start)
	}

	// The optimizer returned no endpoint coordinates; the geocoded ones
	// must have been filled in before the builder ran.
	want := domain.Coordinates{Lon: 114.16, Lat: 22.28}
	if routes[0].StartCoord != want {
		t.Errorf("start coord = %v, want %v", routes[0].StartCoord, want)
	}

	if routes[0].Stops[0].Address != "B" || routes[0].Stops[1].Address != "A" {
		t.Errorf("stop order = [%s %s], want [B A]", routes[0].Stops[0].Address, routes[0].Stops[1].Address)
	}
}
