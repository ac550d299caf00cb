package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/api/handlers"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/metrics"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/ports"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/services"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Orders       ports.OrderRepository
	Dispatchers  ports.DispatcherRepository
	Routes       ports.RouteRepository
	Build        services.BuildRouteDeps
	DefaultStart string
	DefaultEnd   string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	orderHandler := &handlers.OrderHandler{Repo: deps.Orders}
	dispatcherHandler := &handlers.DispatcherHandler{Repo: deps.Dispatchers}
	assignHandler := &handlers.AssignHandler{
		Orders:      deps.Orders,
		Dispatchers: deps.Dispatchers,
	}
	routeHandler := &handlers.RouteHandler{
		Orders:       deps.Orders,
		Dispatchers:  deps.Dispatchers,
		Routes:       deps.Routes,
		Deps:         deps.Build,
		DefaultStart: deps.DefaultStart,
		DefaultEnd:   deps.DefaultEnd,
	}

	metrics.RegisterDefault()

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/orders", orderHandler.List)
	mux.HandleFunc("/dispatchers", dispatcherHandler.List)
	mux.HandleFunc("/assign", assignHandler.Assign)
	mux.HandleFunc("/routes/build", routeHandler.Build)
	mux.HandleFunc("/routes", routeHandler.List)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return loggingMiddleware(mux)
}
