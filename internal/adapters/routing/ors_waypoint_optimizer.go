package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/domain"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/platform/obs"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/ports"
)

// ORSWaypointOptimizer implements "normal" mode via the OpenRouteService
// optimization endpoint: one vehicle visiting all stops between a fixed
// start and end, minimizing total drive time.
type ORSWaypointOptimizer struct {
	client   *ORSClient
	geocoder ports.Geocoder
}

func NewORSWaypointOptimizer(client *ORSClient, geocoder ports.Geocoder) *ORSWaypointOptimizer {
	return &ORSWaypointOptimizer{client: client, geocoder: geocoder}
}

type optimizationJob struct {
	ID       int       `json:"id"`
	Location []float64 `json:"location"`
}

type optimizationVehicle struct {
	ID      int       `json:"id"`
	Profile string    `json:"profile"`
	Start   []float64 `json:"start"`
	End     []float64 `json:"end"`
}

type optimizationRequest struct {
	Jobs     []optimizationJob     `json:"jobs"`
	Vehicles []optimizationVehicle `json:"vehicles"`
}

type optimizationStep struct {
	Type     string    `json:"type"`
	Job      int       `json:"job"`
	Location []float64 `json:"location"`
	// Duration is cumulative travel seconds at this step.
	Duration float64 `json:"duration"`
}

type optimizationResponse struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
	Routes []struct {
		Duration float64            `json:"duration"`
		Distance float64            `json:"distance"`
		Steps    []optimizationStep `json:"steps"`
	} `json:"routes"`
	Unassigned []struct {
		ID int `json:"id"`
	} `json:"unassigned"`
}

func (o *ORSWaypointOptimizer) Optimize(
	ctx context.Context,
	startAddress string,
	endAddress string,
	stops []domain.Coordinates,
) (_ ports.OptimizeResult, err error) {
	defer obs.Time(ctx, "ors.Optimize")(&err)

	const op = "waypoint optimize"

	if strings.TrimSpace(startAddress) == "" || strings.TrimSpace(endAddress) == "" {
		return ports.OptimizeResult{}, &domain.RoutingError{
			Op:  op,
			Err: errors.New("start and end address must be non-empty"),
		}
	}
	if len(stops) == 0 {
		return ports.OptimizeResult{}, &domain.RoutingError{
			Op:  op,
			Err: errors.New("no stops to optimize"),
		}
	}

	startCoord, err := o.geocoder.Geocode(ctx, startAddress)
	if err != nil {
		return ports.OptimizeResult{}, fmt.Errorf("%s: %w", op, err)
	}
	endCoord, err := o.geocoder.Geocode(ctx, endAddress)
	if err != nil {
		return ports.OptimizeResult{}, fmt.Errorf("%s: %w", op, err)
	}

	jobs := make([]optimizationJob, 0, len(stops))
	for i, c := range stops {
		// Job ids are 1-based; id-1 recovers the input index.
		jobs = append(jobs, optimizationJob{ID: i + 1, Location: c.CoordsToList()})
	}

	body := optimizationRequest{
		Jobs: jobs,
		Vehicles: []optimizationVehicle{{
			ID:      1,
			Profile: o.client.profile,
			Start:   startCoord.CoordsToList(),
			End:     endCoord.CoordsToList(),
		}},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return ports.OptimizeResult{}, fmt.Errorf("%s: marshal request: %w", op, err)
	}

	endpoint := o.client.baseURL + "/optimization"
	resp, err := o.client.doWithRetry(ctx, func() (*http.Request, error) {
		return o.client.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return ports.OptimizeResult{}, &domain.RoutingError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	var decoded optimizationResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.OptimizeResult{}, fmt.Errorf("%s: decode response: %w", op, err)
	}

	if decoded.Code != 0 {
		return ports.OptimizeResult{}, &domain.RoutingError{
			Op:     op,
			Status: strconv.Itoa(decoded.Code),
			Err:    errors.New(decoded.Error),
		}
	}
	if len(decoded.Unassigned) > 0 {
		return ports.OptimizeResult{}, &domain.RoutingError{
			Op:  op,
			Err: fmt.Errorf("%d stop(s) unreachable", len(decoded.Unassigned)),
		}
	}
	if len(decoded.Routes) != 1 {
		return ports.OptimizeResult{}, &domain.RoutingError{
			Op:  op,
			Err: fmt.Errorf("expected 1 route, got %d", len(decoded.Routes)),
		}
	}

	route := decoded.Routes[0]
	return mapOptimizationRoute(op, route.Steps, route.Duration, route.Distance, startCoord, endCoord, len(stops))
}

// mapOptimizationRoute converts the step sequence into the common
// OptimizeResult shape: visiting permutation plus per-leg whole minutes.
func mapOptimizationRoute(
	op string,
	steps []optimizationStep,
	totalDuration float64,
	totalDistance float64,
	startCoord domain.Coordinates,
	endCoord domain.Coordinates,
	stopCount int,
) (ports.OptimizeResult, error) {
	visitOrder := make([]int, 0, stopCount)
	segmentTimes := make([]int, 0, stopCount+1)

	prevCumulative := 0.0
	for _, step := range steps {
		switch step.Type {
		case "start":
			prevCumulative = step.Duration
		case "job", "end":
			leg := step.Duration - prevCumulative
			segmentTimes = append(segmentTimes, int(math.Round(leg/60)))
			prevCumulative = step.Duration

			if step.Type == "job" {
				idx := step.Job - 1
				if idx < 0 || idx >= stopCount {
					return ports.OptimizeResult{}, &domain.RoutingError{
						Op:  op,
						Err: fmt.Errorf("job id %d out of range", step.Job),
					}
				}
				visitOrder = append(visitOrder, idx)
			}
		}
	}

	if len(visitOrder) != stopCount {
		return ports.OptimizeResult{}, &domain.RoutingError{
			Op:  op,
			Err: fmt.Errorf("route visited %d of %d stops", len(visitOrder), stopCount),
		}
	}

	return ports.OptimizeResult{
		VisitOrder:    visitOrder,
		StartCoord:    startCoord,
		EndCoord:      endCoord,
		SegmentTimes:  segmentTimes,
		TotalTime:     int(math.Round(totalDuration / 60)),
		TotalDistance: int(math.Round(totalDistance)),
	}, nil
}
