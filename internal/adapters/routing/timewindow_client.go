package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/domain"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/platform/obs"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/ports"
)

// TimeWindowClient implements "byTime" mode against the remote
// time-window optimization service.
//
// The service is an opaque capability: this client only speaks its wire
// contract and validates the response envelope. A non-empty error field in
// the response fails the call even when the HTTP status is 200.
type TimeWindowClient struct {
	session  *http.Client
	endpoint string
}

func NewTimeWindowClient(endpoint string) (*TimeWindowClient, error) {
	if endpoint == "" {
		return nil, errors.New("time window service endpoint is empty")
	}
	return &TimeWindowClient{
		session:  &http.Client{Timeout: 30 * time.Second},
		endpoint: endpoint,
	}, nil
}

type timeWindowPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type timeWindowWaypoint struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Open  string  `json:"open"`
	Close string  `json:"close"`
}

type timeWindowRequest struct {
	StartPoint timeWindowPoint      `json:"startPoint"`
	Waypoints  []timeWindowWaypoint `json:"waypoints"`
	EndPoint   timeWindowPoint      `json:"endPoint"`
	StartTime  string               `json:"startTime"`
}

type timeWindowResponse struct {
	Order         []int            `json:"order"`
	StartCoord    *timeWindowPoint `json:"startCoord"`
	EndCoord      *timeWindowPoint `json:"endCoord"`
	SegmentTimes  []int            `json:"segmentTimes"`
	TotalTime     int              `json:"totalTime"`
	TotalDistance int              `json:"totalDistance"`
	Error         string           `json:"error"`
}

func (c *TimeWindowClient) OptimizeByTime(
	ctx context.Context,
	startPoint domain.Coordinates,
	endPoint domain.Coordinates,
	stops []ports.TimedStop,
	startTime time.Time,
) (_ ports.OptimizeResult, err error) {
	defer obs.Time(ctx, "timewindow.OptimizeByTime")(&err)

	const op = "time window optimize"

	if len(stops) == 0 {
		return ports.OptimizeResult{}, &domain.RoutingError{
			Op:  op,
			Err: errors.New("no stops to optimize"),
		}
	}

	waypoints := make([]timeWindowWaypoint, 0, len(stops))
	for _, s := range stops {
		waypoints = append(waypoints, timeWindowWaypoint{
			Lat:   s.Lat,
			Lng:   s.Lng,
			Open:  s.Open,
			Close: s.Close,
		})
	}

	body := timeWindowRequest{
		StartPoint: timeWindowPoint{Lat: startPoint.Lat, Lng: startPoint.Lon},
		Waypoints:  waypoints,
		EndPoint:   timeWindowPoint{Lat: endPoint.Lat, Lng: endPoint.Lon},
		StartTime:  startTime.Format("15:04"),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return ports.OptimizeResult{}, fmt.Errorf("%s: marshal request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return ports.OptimizeResult{}, fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.session.Do(req)
	if err != nil {
		return ports.OptimizeResult{}, &domain.RoutingError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.OptimizeResult{}, &domain.RoutingError{
			Op:     op,
			Status: strconv.Itoa(resp.StatusCode),
		}
	}

	var decoded timeWindowResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.OptimizeResult{}, fmt.Errorf("%s: decode response: %w", op, err)
	}

	// The service reports constraint failures in-band with a 200 status.
	if decoded.Error != "" {
		return ports.OptimizeResult{}, &domain.RoutingError{
			Op:  op,
			Err: errors.New(decoded.Error),
		}
	}

	if len(decoded.Order) != len(stops) {
		return ports.OptimizeResult{}, &domain.RoutingError{
			Op:  op,
			Err: fmt.Errorf("order has %d entries for %d stops", len(decoded.Order), len(stops)),
		}
	}
	if len(decoded.SegmentTimes) != len(stops)+1 {
		return ports.OptimizeResult{}, &domain.RoutingError{
			Op:  op,
			Err: fmt.Errorf("expected %d segment times, got %d", len(stops)+1, len(decoded.SegmentTimes)),
		}
	}

	out := ports.OptimizeResult{
		VisitOrder:    decoded.Order,
		SegmentTimes:  decoded.SegmentTimes,
		TotalTime:     decoded.TotalTime,
		TotalDistance: decoded.TotalDistance,
	}
	if decoded.StartCoord != nil {
		out.StartCoord = domain.Coordinates{Lon: decoded.StartCoord.Lng, Lat: decoded.StartCoord.Lat}
	}
	if decoded.EndCoord != nil {
		out.EndCoord = domain.Coordinates{Lon: decoded.EndCoord.Lng, Lat: decoded.EndCoord.Lat}
	}

	return out, nil
}
