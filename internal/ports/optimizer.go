package ports

import (
	"context"
	"time"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/domain"
)

// OptimizeResult is the common output of both optimization modes.
//
// VisitOrder is a permutation of the input stop indices in optimal visiting
// order. SegmentTimes holds whole minutes for each leg of
// start -> stops... -> end (len(stops)+1 entries). Start/End coordinates
// are the optimizer-resolved endpoints when the capability reports them;
// zero-valued otherwise.
type OptimizeResult struct {
	VisitOrder    []int
	StartCoord    domain.Coordinates
	EndCoord      domain.Coordinates
	SegmentTimes  []int
	TotalTime     int
	TotalDistance int
}

// Contract for "normal" mode: visit all stops between a fixed origin and
// destination, minimizing total drive time. Non-OK upstream statuses and
// empty start/end addresses surface as *domain.RoutingError.
type WaypointOptimizer interface {
	Optimize(ctx context.Context, startAddress, endAddress string, stops []domain.Coordinates) (OptimizeResult, error)
}

// TimedStop is one waypoint with its delivery window for "byTime" mode.
// Open and Close are clock times in "15:04" form.
type TimedStop struct {
	Lat   float64
	Lng   float64
	Open  string
	Close string
}

// Contract for "byTime" mode: stop order constrained by per-stop open/close
// windows relative to a single route start time. The remote service may
// report a domain-level failure in-band; implementations surface it as
// *domain.RoutingError even when the transport succeeded.
type TimeWindowOptimizer interface {
	OptimizeByTime(ctx context.Context, startPoint, endPoint domain.Coordinates, stops []TimedStop, startTime time.Time) (OptimizeResult, error)
}
