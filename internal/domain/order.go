package domain

import "time"

// OrderStatus is the delivery lifecycle state of a single order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusAssigned   OrderStatus = "Assigned"
	StatusInProgress OrderStatus = "In Progress"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// TimeBucket is the coarse delivery window requested by the customer.
type TimeBucket string

const (
	BucketMorning   TimeBucket = "Morning"
	BucketAfternoon TimeBucket = "Afternoon"
	BucketEvening   TimeBucket = "Evening"
)

// Represents a single delivery order handled by the system.
//
// An Order is created via upload or manual entry and mutated by the
// assignment engine (DispatcherID, Status) and by the driver flow
// (Status transitions on delivery). DispatcherID is nil while the
// order is unassigned.
type Order struct {
	ID              int64
	Date            time.Time
	TimeBucket      TimeBucket
	Status          OrderStatus
	DetailedAddress string
	Area            string
	District        string
	Lat             float64
	Lng             float64
	Postcode        string
	DispatcherID    *int64
	CustomerID      int64
	Note            string
}

// Assigned reports whether the order already carries a dispatcher.
func (o Order) Assigned() bool { return o.DispatcherID != nil }

// Coord returns the order's geocoded position.
func (o Order) Coord() Coordinates { return Coordinates{Lon: o.Lng, Lat: o.Lat} }
