package ports

import (
	"context"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/domain"
)

// Contract for fetching the road-following polyline through an ordered list
// of coordinates. An empty result is a valid "no route" signal, not an
// error; transport failures are errors.
type PathGeometryProvider interface {
	GetPath(ctx context.Context, points []domain.Coordinates) ([]domain.Coordinates, error)
}
