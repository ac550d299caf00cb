package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/domain"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/platform/obs"
)

// ORSGeometryProvider fetches the road-following polyline through an
// ordered coordinate sequence using the ORS directions endpoint. This is a
// separate capability from optimization, which returns timing but not
// geometry.
type ORSGeometryProvider struct {
	client *ORSClient
}

func NewORSGeometryProvider(client *ORSClient) *ORSGeometryProvider {
	return &ORSGeometryProvider{client: client}
}

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// GetPath returns the ordered [lon,lat] polyline for the given points.
// An empty slice (no error) means the points cannot be connected by road.
func (p *ORSGeometryProvider) GetPath(
	ctx context.Context,
	points []domain.Coordinates,
) (_ []domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.GetPath")(&err)

	if len(points) < 2 {
		return nil, fmt.Errorf("get path: need at least 2 points, got %d", len(points))
	}

	coords := make([][]float64, 0, len(points))
	for _, c := range points {
		coords = append(coords, c.CoordsToList())
	}

	payload, err := json.Marshal(directionsRequest{Coordinates: coords})
	if err != nil {
		return nil, fmt.Errorf("get path: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", p.client.baseURL, p.client.profile)
	resp, err := p.client.doWithRetry(ctx, func() (*http.Request, error) {
		return p.client.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		// ORS answers 404 when no drivable connection exists; that is the
		// valid "no route" signal, not a transport failure.
		var he *httpStatusError
		if errors.As(err, &he) && he.Code == http.StatusNotFound {
			return []domain.Coordinates{}, nil
		}
		return nil, fmt.Errorf("get path: %w", err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("get path: decode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return []domain.Coordinates{}, nil
	}

	raw := decoded.Features[0].Geometry.Coordinates
	out := make([]domain.Coordinates, 0, len(raw))
	for _, pair := range raw {
		if len(pair) != 2 {
			return nil, fmt.Errorf("get path: invalid coordinate pair of length %d", len(pair))
		}
		out = append(out, domain.Coordinates{Lon: pair[0], Lat: pair[1]})
	}

	return out, nil
}
