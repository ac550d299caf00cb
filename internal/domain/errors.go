package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Returned by assignment phase C when no dispatcher exists to receive an order.
var ErrNoDispatcherAvailable = errors.New("no dispatcher available")

// GeocodeError marks an address the geocoding capability could not resolve.
type GeocodeError struct {
	Address string
	Err     error
}

func (e *GeocodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geocode %q: %v", e.Address, e.Err)
	}
	return fmt.Sprintf("geocode %q: no results", e.Address)
}

func (e *GeocodeError) Unwrap() error { return e.Err }

// RoutingError marks an optimizer call that returned a non-OK status or
// failed at the transport level. Callers must not build a route from it.
type RoutingError struct {
	Op     string
	Status string
	Err    error
}

func (e *RoutingError) Error() string {
	switch {
	case e.Err != nil && e.Status != "":
		return fmt.Sprintf("%s: status %s: %v", e.Op, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: status %s", e.Op, e.Status)
	}
}

func (e *RoutingError) Unwrap() error { return e.Err }

// NoRouteFoundError marks a path-geometry lookup that returned an empty
// polyline: the ordered stops cannot be connected by road.
type NoRouteFoundError struct {
	DispatcherID int64
}

func (e *NoRouteFoundError) Error() string {
	return fmt.Sprintf("no drivable route found for dispatcher %d", e.DispatcherID)
}

// PartialAssignmentFailure aggregates per-order persistence failures from a
// batch assignment. The batch itself is considered partially successful.
type PartialAssignmentFailure struct {
	Failed map[int64]error
}

func (e *PartialAssignmentFailure) Error() string {
	ids := make([]int64, 0, len(e.Failed))
	for id := range e.Failed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("order %d: %v", id, e.Failed[id]))
	}
	return fmt.Sprintf("%d order update(s) failed: %s", len(ids), strings.Join(parts, "; "))
}
