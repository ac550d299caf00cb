package domain

import "time"

// OptimizationMode selects how a route's stop order is computed.
type OptimizationMode string

const (
	// ModeNormal reorders stops to minimize total drive time.
	ModeNormal OptimizationMode = "normal"
	// ModeByTime additionally honors per-stop open/close windows.
	ModeByTime OptimizationMode = "byTime"
)

// Represents the planned delivery route for a single dispatcher.
//
// A Route is the output of waypoint or time-window optimization plus the
// road-following geometry for rendering. It is immutable planning data:
// re-optimizing a dispatcher's route replaces the record, never appends.
// SegmentTimes holds whole minutes per leg of start -> stops... -> end,
// so it always carries len(Stops)+1 entries.
type Route struct {
	ID            string
	DispatcherID  int64
	RouteDate     time.Time
	Mode          OptimizationMode
	StartAddress  string
	EndAddress    string
	StartCoord    Coordinates
	EndCoord      Coordinates
	Stops         []Stop
	SegmentTimes  []int
	TotalTime     int
	TotalDistance int
	Path          []Coordinates
	CreatedBy     string
	Version       int
	IsActive      bool
}
