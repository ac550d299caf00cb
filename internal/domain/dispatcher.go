package domain

// AreaPair is one (area, district) entry of a dispatcher's jurisdiction.
// An empty District is a wildcard covering the whole area.
type AreaPair struct {
	Area     string
	District string
}

// Represents a delivery dispatcher and their geographic responsibility.
//
// Dispatchers are read-only from the core's perspective: assignment
// consults ResponsibleArea but never mutates the record.
type Dispatcher struct {
	ID              int64
	Name            string
	Phone           string
	Email           string
	ActiveDay       map[string][]string
	ResponsibleArea []AreaPair
}
