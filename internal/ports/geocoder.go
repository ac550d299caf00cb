package ports

import (
	"context"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/domain"
)

// Contract for resolving a free-text address to coordinates.
// Implementations fail with *domain.GeocodeError when no match exists.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}
