package domain

// Represents a single routable waypoint on a delivery route.
//
// A Stop is an ephemeral grouping of one or more orders sharing identical
// coordinates, built before optimization and consumed by the route builder.
type Stop struct {
	Address  string
	Area     string
	District string
	Lat      float64
	Lng      float64
	Orders   []Order
}

// Coord returns the stop's position.
func (s Stop) Coord() Coordinates { return Coordinates{Lon: s.Lng, Lat: s.Lat} }
