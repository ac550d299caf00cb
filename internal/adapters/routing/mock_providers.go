package routing

import (
	"context"
	"fmt"
	"time"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/domain"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/ports"
)

// MockGeocoder resolves addresses from a fixed table.
type MockGeocoder struct {
	m map[string]domain.Coordinates
}

func NewMockGeocoder(coords map[string]domain.Coordinates) *MockGeocoder {
	m := make(map[string]domain.Coordinates, len(coords))
	for k, v := range coords {
		m[normalize(k)] = v
	}
	return &MockGeocoder{m: m}
}

func (g *MockGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	c, ok := g.m[normalize(address)]
	if !ok {
		return domain.Coordinates{}, &domain.GeocodeError{Address: address}
	}
	return c, nil
}

// MockWaypointOptimizer returns a scripted result, recording its last call.
type MockWaypointOptimizer struct {
	Result ports.OptimizeResult
	Err    error

	Calls     int
	LastStops []domain.Coordinates
}

func (o *MockWaypointOptimizer) Optimize(
	ctx context.Context,
	startAddress, endAddress string,
	stops []domain.Coordinates,
) (ports.OptimizeResult, error) {
	o.Calls++
	o.LastStops = stops
	if o.Err != nil {
		return ports.OptimizeResult{}, o.Err
	}
	return o.Result, nil
}

// MockTimeWindowOptimizer returns a scripted result, recording its last call.
type MockTimeWindowOptimizer struct {
	Result ports.OptimizeResult
	Err    error

	Calls     int
	LastStops []ports.TimedStop
	LastStart time.Time
}

func (o *MockTimeWindowOptimizer) OptimizeByTime(
	ctx context.Context,
	startPoint, endPoint domain.Coordinates,
	stops []ports.TimedStop,
	startTime time.Time,
) (ports.OptimizeResult, error) {
	o.Calls++
	o.LastStops = stops
	o.LastStart = startTime
	if o.Err != nil {
		return ports.OptimizeResult{}, o.Err
	}
	return o.Result, nil
}

// MockPathProvider echoes the requested points as the polyline, or returns
// an empty path when Empty is set (the "no route" signal).
type MockPathProvider struct {
	Empty bool
	Err   error
}

func (p *MockPathProvider) GetPath(ctx context.Context, points []domain.Coordinates) ([]domain.Coordinates, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	if p.Empty {
		return []domain.Coordinates{}, nil
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("mock path: need at least 2 points, got %d", len(points))
	}
	out := make([]domain.Coordinates, len(points))
	copy(out, points)
	return out, nil
}
