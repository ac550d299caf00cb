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

func testStops() []domain.Stop {
	return []domain.Stop{
		{Address: "A", Lat: 22.30, Lng: 114.17, Orders: []domain.Order{{ID: 1}}},
		{Address: "B", Lat: 22.31, Lng: 114.18, Orders: []domain.Order{{ID: 2}}},
		{Address: "C", Lat: 22.32, Lng: 114.19, Orders: []domain.Order{{ID: 3}}},
	}
}

func testBuilder(geometry ports.PathGeometryProvider) *RouteBuilder {
	return &RouteBuilder{
		Geocoder: routing.NewMockGeocoder(map[string]domain.Coordinates{
			"HUB": {Lon: 114.16, Lat: 22.28},
		}),
		Geometry: geometry,
		Now: func() time.Time {
			return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
		},
	}
}

func TestBuildRouteAppliesVisitOrder(t *testing.T) {
	builder := testBuilder(&routing.MockPathProvider{})

	res := ports.OptimizeResult{
		VisitOrder:    []int{2, 0, 1},
		StartCoord:    domain.Coordinates{Lon: 114.16, Lat: 22.28},
		EndCoord:      domain.Coordinates{Lon: 114.16, Lat: 22.28},
		SegmentTimes:  []int{5, 7, 4, 6},
		TotalTime:     22,
		TotalDistance: 8400,
	}

	route, err := builder.BuildRoute(context.Background(), res, 1, testStops(), domain.ModeNormal, "HUB", "HUB")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(route.Stops) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(route.Stops))
	}
	if route.Stops[0].Address != "C" || route.Stops[1].Address != "A" || route.Stops[2].Address != "B" {
		t.Fatalf("stop order = [%s %s %s], want [C A B]",
			route.Stops[0].Address, route.Stops[1].Address, route.Stops[2].Address)
	}

	if route.Version != 1 || !route.IsActive {
		t.Errorf("version=%d active=%v, want version=1 active=true", route.Version, route.IsActive)
	}
	if route.CreatedBy != "Admin" {
		t.Errorf("createdBy = %q, want Admin", route.CreatedBy)
	}
	if route.TotalTime != 22 || route.TotalDistance != 8400 {
		t.Errorf("totals = (%d, %d), want (22, 8400)", route.TotalTime, route.TotalDistance)
	}
	if route.ID == "" {
		t.Error("route id is empty")
	}
}

func TestBuildRouteGeocodesMissingEndpoints(t *testing.T) {
	builder := testBuilder(&routing.MockPathProvider{})

	// Optimizer reported no resolved endpoints; the raw address must be
	// geocoded instead.
	res := ports.OptimizeResult{
		VisitOrder:   []int{0, 1, 2},
		SegmentTimes: []int{5, 7, 4, 6},
	}

	route, err := builder.BuildRoute(context.Background(), res, 1, testStops(), domain.ModeNormal, "HUB", "HUB")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.Coordinates{Lon: 114.16, Lat: 22.28}
	if route.StartCoord != want || route.EndCoord != want {
		t.Fatalf("endpoints = (%v, %v), want %v", route.StartCoord, route.EndCoord, want)
	}
}

func TestBuildRouteEmptyGeometryFails(t *testing.T) {
	builder := testBuilder(&routing.MockPathProvider{Empty: true})

	res := ports.OptimizeResult{
		VisitOrder:   []int{0, 1, 2},
		StartCoord:   domain.Coordinates{Lon: 114.16, Lat: 22.28},
		EndCoord:     domain.Coordinates{Lon: 114.16, Lat: 22.28},
		SegmentTimes: []int{5, 7, 4, 6},
	}

	_, err := builder.BuildRoute(context.Background(), res, 1, testStops(), domain.ModeNormal, "HUB", "HUB")

	var nre *domain.NoRouteFoundError
	if !errors.As(err, &nre) {
		t.Fatalf("expected NoRouteFoundError, got %v", err)
	}
	if nre.DispatcherID != 1 {
		t.Fatalf("dispatcher id = %d, want 1", nre.DispatcherID)
	}
}

func TestBuildRouteRejectsBadSegmentTimes(t *testing.T) {
	builder := testBuilder(&routing.MockPathProvider{})

	res := ports.OptimizeResult{
		VisitOrder:   []int{0, 1, 2},
		StartCoord:   domain.Coordinates{Lon: 114.16, Lat: 22.28},
		EndCoord:     domain.Coordinates{Lon: 114.16, Lat: 22.28},
		SegmentTimes: []int{5, 7},
	}

	if _, err := builder.BuildRoute(context.Background(), res, 1, testStops(), domain.ModeNormal, "HUB", "HUB"); err == nil {
		t.Fatal("expected error for mismatched segment times")
	}
}

func TestUpsertRouteReplacesSameDispatcher(t *testing.T) {
	first := domain.Route{ID: "r1", DispatcherID: 1, TotalTime: 30}
	other := domain.Route{ID: "r2", DispatcherID: 2, TotalTime: 45}

	routes := UpsertRoute(nil, first)
	routes = UpsertRoute(routes, other)

	second := domain.Route{ID: "r3", DispatcherID: 1, TotalTime: 25}
	routes = UpsertRoute(routes, second)

	if len(routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(routes))
	}

	for _, route := range routes {
		if route.DispatcherID == 1 && route.ID != "r3" {
			t.Fatalf("dispatcher 1 route = %s, want r3", route.ID)
		}
	}
}

func TestUpsertRouteDoesNotMutateInput(t *testing.T) {
	original := []domain.Route{{ID: "r1", DispatcherID: 1}}

	UpsertRoute(original, domain.Route{ID: "r2", DispatcherID: 1})

	if original[0].ID != "r1" {
		t.Fatal("input route list was mutated")
	}
}

func TestGroupStopsMergesIdenticalCoordinates(t *testing.T) {
	orders := []domain.Order{
		{ID: 1, DetailedAddress: "A", Lat: 22.30, Lng: 114.17},
		{ID: 2, DetailedAddress: "B", Lat: 22.31, Lng: 114.18},
		{ID: 3, DetailedAddress: "A", Lat: 22.30, Lng: 114.17},
	}

	stops := GroupStops(orders)

	if len(stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(stops))
	}
	if stops[0].Address != "A" || len(stops[0].Orders) != 2 {
		t.Fatalf("stop A has %d orders, want 2", len(stops[0].Orders))
	}
	if stops[1].Address != "B" || len(stops[1].Orders) != 1 {
		t.Fatalf("stop B has %d orders, want 1", len(stops[1].Orders))
	}
}
