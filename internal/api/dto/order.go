package dto

import "time"

type OrderResponse struct {
	OrderID         int64     `json:"order_id"`
	Date            time.Time `json:"date"`
	TimeBucket      string    `json:"time_bucket"`
	Status          string    `json:"status"`
	DetailedAddress string    `json:"detailed_address"`
	Area            string    `json:"area"`
	District        string    `json:"district"`
	Lat             float64   `json:"lat"`
	Lng             float64   `json:"lng"`
	Postcode        string    `json:"postcode,omitempty"`
	DispatcherID    *int64    `json:"dispatcher_id"`
	CustomerID      int64     `json:"customer_id"`
	Note            string    `json:"note,omitempty"`
}

type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}
