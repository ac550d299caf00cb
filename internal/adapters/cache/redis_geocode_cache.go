package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/domain"
)

// Redis-backed cache mapping normalized addresses to coordinates.
// Keys are expected to be consistent (already normalized) by the caller.
type RedisGeocodeCache struct {
	rdb *redis.Client
}

func NewRedisGeocodeCache(rdb *redis.Client) *RedisGeocodeCache {
	return &RedisGeocodeCache{rdb: rdb}
}

// NewRedisGeocodeCacheFromURL dials Redis from a redis:// URL.
func NewRedisGeocodeCacheFromURL(url string) (*RedisGeocodeCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("geocode cache: parse redis url: %w", err)
	}
	return &RedisGeocodeCache{rdb: redis.NewClient(opt)}, nil
}

func key(address string) string { return "geocode:" + address }

// Get fetches cached coordinates for an address; a miss is (zero, false, nil).
func (c *RedisGeocodeCache) Get(ctx context.Context, address string) (domain.Coordinates, bool, error) {
	if c.rdb == nil {
		return domain.Coordinates{}, false, errors.New("geocode cache: redis client is nil")
	}
	if strings.TrimSpace(address) == "" {
		return domain.Coordinates{}, false, errors.New("geocode cache: address must not be empty")
	}

	vals, err := c.rdb.HMGet(ctx, key(address), "lon", "lat").Result()
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("geocode cache: get %q: %w", address, err)
	}
	if vals[0] == nil || vals[1] == nil {
		return domain.Coordinates{}, false, nil
	}

	lonStr, okLon := vals[0].(string)
	latStr, okLat := vals[1].(string)
	if !okLon || !okLat {
		return domain.Coordinates{}, false, fmt.Errorf("geocode cache: unexpected value types for %q", address)
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("geocode cache: parse lon for %q: %w", address, err)
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("geocode cache: parse lat for %q: %w", address, err)
	}

	return domain.Coordinates{Lon: lon, Lat: lat}, true, nil
}

// Put stores an address -> coordinate mapping.
func (c *RedisGeocodeCache) Put(ctx context.Context, address string, coord domain.Coordinates) error {
	if c.rdb == nil {
		return errors.New("geocode cache: redis client is nil")
	}
	if strings.TrimSpace(address) == "" {
		return errors.New("geocode cache: address must not be empty")
	}

	if err := c.rdb.HSet(ctx, key(address),
		"lon", fmt.Sprintf("%g", coord.Lon),
		"lat", fmt.Sprintf("%g", coord.Lat),
	).Err(); err != nil {
		return fmt.Errorf("geocode cache: put %q: %w", address, err)
	}
	return nil
}
