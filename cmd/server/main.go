package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/adapters/cache"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/adapters/repositories"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/adapters/routing"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/api"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/config"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/platform/db"
	"github.com/happy-hackers/RoutePlanner-sub000/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, ORS, the time-window
// service) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	orsKey := os.Getenv("ORS_API_KEY")
	if strings.TrimSpace(orsKey) == "" {
		log.Fatal("ORS_API_KEY is required")
	}

	port := config.Get("PORT", "8080")
	defaultStart := config.Get("DEFAULT_START_ADDRESS", "1 Hoi Wang Road, Mong Kok, Kowloon")
	defaultEnd := config.Get("DEFAULT_END_ADDRESS", defaultStart)
	timeWindowURL := config.Get("TIMEWINDOW_SERVICE_URL", "")
	redisURL := config.Get("REDIS_URL", "")

	database, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	// The geocode cache is optional: without Redis every lookup goes to ORS.
	var geocodeCache routing.GeocodeCache
	if redisURL != "" {
		c, err := cache.NewRedisGeocodeCacheFromURL(redisURL)
		if err != nil {
			log.Fatal(err)
		}
		geocodeCache = c
	} else {
		log.Println("REDIS_URL not set; geocode caching disabled")
	}

	orsClient, err := routing.NewORSClient(orsKey)
	if err != nil {
		log.Fatal(err)
	}

	geocoder := routing.NewORSGeocoder(orsClient, geocodeCache)
	waypoint := routing.NewORSWaypointOptimizer(orsClient, geocoder)
	geometry := routing.NewORSGeometryProvider(orsClient)

	buildDeps := services.BuildRouteDeps{
		Waypoint: waypoint,
		Builder: &services.RouteBuilder{
			Geocoder: geocoder,
			Geometry: geometry,
		},
	}

	// "byTime" mode needs the external time-window optimizer; without it
	// only "normal" mode is served.
	if timeWindowURL != "" {
		tw, err := routing.NewTimeWindowClient(timeWindowURL)
		if err != nil {
			log.Fatal(err)
		}
		buildDeps.TimeWindow = tw
	} else {
		log.Println("TIMEWINDOW_SERVICE_URL not set; byTime mode disabled")
	}

	router := api.NewRouter(api.Deps{
		Orders:       repositories.NewPostgresOrderRepository(database),
		Dispatchers:  repositories.NewPostgresDispatcherRepository(database),
		Routes:       repositories.NewPostgresRouteRepository(database),
		Build:        buildDeps,
		DefaultStart: defaultStart,
		DefaultEnd:   defaultEnd,
	})

	// Timeouts are tuned for cold-cache route building (external API latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
