package dto

import "time"

type BuildRoutesRequest struct {
	Mode              string     `json:"mode"`
	UseDefaultAddress bool       `json:"use_default_address"`
	StartAddress      string     `json:"start_address"`
	EndAddress        string     `json:"end_address"`
	MapProvider       string     `json:"map_provider"`
	StartTime         *time.Time `json:"start_time"`
}

type PointResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type RouteStopResponse struct {
	Address  string  `json:"address"`
	Area     string  `json:"area"`
	District string  `json:"district"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	OrderIDs []int64 `json:"order_ids"`
}

type RouteResponse struct {
	RouteID       string              `json:"route_id"`
	DispatcherID  int64               `json:"dispatcher_id"`
	RouteDate     time.Time           `json:"route_date"`
	Mode          string              `json:"mode"`
	StartAddress  string              `json:"start_address"`
	EndAddress    string              `json:"end_address"`
	StartPoint    PointResponse       `json:"start_point"`
	EndPoint      PointResponse       `json:"end_point"`
	Stops         []RouteStopResponse `json:"stops"`
	SegmentTimes  []int               `json:"segment_times"`
	TotalTime     int                 `json:"total_time"`
	TotalDistance int                 `json:"total_distance"`
	Path          []PointResponse     `json:"path"`
	CreatedBy     string              `json:"created_by"`
	Version       int                 `json:"version"`
	IsActive      bool                `json:"is_active"`
}

type RouteFailureResponse struct {
	DispatcherID int64  `json:"dispatcher_id"`
	Message      string `json:"message"`
}

type BuildRoutesResponse struct {
	Routes   []RouteResponse        `json:"routes"`
	Failures []RouteFailureResponse `json:"failures"`
}

type ListRoutesResponse struct {
	Routes []RouteResponse `json:"routes"`
}
