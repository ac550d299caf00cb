package routing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/domain"
)

type memoryCache struct {
	m    map[string]domain.Coordinates
	puts int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{m: make(map[string]domain.Coordinates)}
}

func (c *memoryCache) Get(ctx context.Context, address string) (domain.Coordinates, bool, error) {
	coord, ok := c.m[address]
	return coord, ok, nil
}

func (c *memoryCache) Put(ctx context.Context, address string, coord domain.Coordinates) error {
	c.puts++
	c.m[address] = coord
	return nil
}

func testGeocoder(baseURL string, cache GeocodeCache) *ORSGeocoder {
	return &ORSGeocoder{
		client: &ORSClient{
			session: &http.Client{Timeout: 5 * time.Second},
			apiKey:  "test-key",
			baseURL: baseURL,
			profile: "driving-car",
		},
		cache:   cache,
		limiter: rate.NewLimiter(rate.Inf, 1),
		country: "HK",
	}
}

const geocodeHit = `{"features":[{"geometry":{"coordinates":[114.17,22.30]}}]}`

func TestGeocodeResolvesAndCaches(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("text")
		if r.URL.Query().Get("boundary.country") != "HK" {
			t.Errorf("boundary.country = %q, want HK", r.URL.Query().Get("boundary.country"))
		}
		fmt.Fprint(w, geocodeHit)
	}))
	defer srv.Close()

	cache := newMemoryCache()
	g := testGeocoder(srv.URL, cache)

	coord, err := g.Geocode(context.Background(), "  123  Nathan Road ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery != "123 Nathan Road" {
		t.Errorf("query text = %q, want normalized address", gotQuery)
	}
	want := domain.Coordinates{Lon: 114.17, Lat: 22.30}
	if coord != want {
		t.Fatalf("coord = %v, want %v", coord, want)
	}
	if cache.puts != 1 {
		t.Fatalf("cache puts = %d, want 1", cache.puts)
	}
	if _, ok := cache.m["123 Nathan Road"]; !ok {
		t.Fatal("cache key is not the normalized address")
	}
}

func TestGeocodeCacheHitSkipsHTTP(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, geocodeHit)
	}))
	defer srv.Close()

	cache := newMemoryCache()
	cache.m["123 Nathan Road"] = domain.Coordinates{Lon: 114.17, Lat: 22.30}
	g := testGeocoder(srv.URL, cache)

	coord, err := g.Geocode(context.Background(), "123 Nathan Road")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 0 {
		t.Fatalf("server called %d times, want 0", calls)
	}
	if coord.Lon != 114.17 {
		t.Fatalf("coord = %v, want cached value", coord)
	}
}

func TestGeocodeNoFeaturesFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"features":[]}`)
	}))
	defer srv.Close()

	g := testGeocoder(srv.URL, nil)

	_, err := g.Geocode(context.Background(), "nowhere at all")

	var ge *domain.GeocodeError
	if !errors.As(err, &ge) {
		t.Fatalf("expected GeocodeError, got %v", err)
	}
	if ge.Address != "nowhere at all" {
		t.Fatalf("error address = %q", ge.Address)
	}
}

func TestGeocodeEmptyAddressFails(t *testing.T) {
	g := testGeocoder("http://unused", nil)

	var ge *domain.GeocodeError
	if _, err := g.Geocode(context.Background(), "   "); !errors.As(err, &ge) {
		t.Fatalf("expected GeocodeError, got %v", err)
	}
}
