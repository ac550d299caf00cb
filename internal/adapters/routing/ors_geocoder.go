package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/domain"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/platform/obs"
)

// GeocodeCache is the persistence contract for resolved addresses.
// Implementations must treat a miss as (zero, false, nil).
type GeocodeCache interface {
	Get(ctx context.Context, address string) (domain.Coordinates, bool, error)
	Put(ctx context.Context, address string, coord domain.Coordinates) error
}

// ORSGeocoder resolves addresses via OpenRouteService (/geocode/search).
//
// Outbound calls are rate limited so batch uploads of new addresses do not
// trip the provider's quota, and results are cached through an optional
// GeocodeCache. Cache write failures are logged, never fatal.
type ORSGeocoder struct {
	client  *ORSClient
	cache   GeocodeCache
	limiter *rate.Limiter
	country string
}

func NewORSGeocoder(client *ORSClient, cache GeocodeCache) *ORSGeocoder {
	return &ORSGeocoder{
		client:  client,
		cache:   cache,
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
		country: "HK",
	}
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (g *ORSGeocoder) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norm := normalize(address)
	if norm == "" {
		return domain.Coordinates{}, &domain.GeocodeError{Address: address}
	}

	if g.cache != nil {
		coord, ok, err := g.cache.Get(ctx, norm)
		if err != nil {
			return domain.Coordinates{}, fmt.Errorf("geocode cache read: %w", err)
		}
		if ok {
			return coord, nil
		}
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return domain.Coordinates{}, err
	}

	endpoint := g.client.baseURL + "/geocode/search"
	resp, err := g.client.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := g.client.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", norm)
		q.Set("boundary.country", g.country)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, &domain.GeocodeError{Address: norm, Err: err}
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, &domain.GeocodeError{Address: norm}
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", norm)
	}

	coord := domain.Coordinates{Lon: coords[0], Lat: coords[1]}

	if g.cache != nil {
		if err := g.cache.Put(ctx, norm, coord); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	return coord, nil
}
