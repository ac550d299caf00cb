package ports

import (
	"context"
	"time"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/domain"
)

// Port: a boundary for retrieving and updating Order entities.
type OrderRepository interface {
	// Retrieve all orders available for assignment and routing.
	ListOrders(ctx context.Context) ([]domain.Order, error)
	// Persist an order's current dispatcher and status.
	UpdateOrder(ctx context.Context, order domain.Order) error
}

// Port: a boundary for retrieving Dispatcher entities.
type DispatcherRepository interface {
	ListDispatchers(ctx context.Context) ([]domain.Dispatcher, error)
}

// Port: a boundary for persisting Route records.
type RouteRepository interface {
	// Store a route, deactivating any previously stored active route for
	// the same dispatcher and date.
	SaveRoute(ctx context.Context, route domain.Route) error
	// Retrieve the active routes for a date.
	ListActiveRoutes(ctx context.Context, date time.Time) ([]domain.Route, error)
}
