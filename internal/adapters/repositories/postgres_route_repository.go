package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/domain"
)

// Postgres-backed implementation of the RouteRepository port.
//
// Stops, segment times, and the rendering polyline are stored as JSONB:
// they are read back whole for map rendering and the driver view, never
// queried relationally.
type PostgresRouteRepository struct{ DB *sql.DB }

func NewPostgresRouteRepository(db *sql.DB) *PostgresRouteRepository {
	return &PostgresRouteRepository{DB: db}
}

type storedStop struct {
	Address  string         `json:"address"`
	Area     string         `json:"area"`
	District string         `json:"district"`
	Lat      float64        `json:"lat"`
	Lng      float64        `json:"lng"`
	Orders   []domain.Order `json:"orders"`
}

type storedPoint struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// SaveRoute stores a route, deactivating any previously stored active
// route for the same dispatcher and date in the same transaction.
func (r *PostgresRouteRepository) SaveRoute(ctx context.Context, route domain.Route) error {
	if r.DB == nil {
		return errors.New("route repository: DB is nil")
	}

	stops := make([]storedStop, 0, len(route.Stops))
	for _, s := range route.Stops {
		stops = append(stops, storedStop{
			Address:  s.Address,
			Area:     s.Area,
			District: s.District,
			Lat:      s.Lat,
			Lng:      s.Lng,
			Orders:   s.Orders,
		})
	}
	stopsJSON, err := json.Marshal(stops)
	if err != nil {
		return fmt.Errorf("save route: marshal stops: %w", err)
	}

	path := make([]storedPoint, 0, len(route.Path))
	for _, p := range route.Path {
		path = append(path, storedPoint{Lon: p.Lon, Lat: p.Lat})
	}
	pathJSON, err := json.Marshal(path)
	if err != nil {
		return fmt.Errorf("save route: marshal path: %w", err)
	}

	segmentsJSON, err := json.Marshal(route.SegmentTimes)
	if err != nil {
		return fmt.Errorf("save route: marshal segment times: %w", err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save route: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	deactivate := `
	UPDATE routes
	SET is_active = FALSE
	WHERE dispatcher_id = $1
		AND route_date = $2
		AND is_active;
	`
	if _, err := tx.ExecContext(ctx, deactivate, route.DispatcherID, route.RouteDate); err != nil {
		return fmt.Errorf("save route: deactivate previous route: %w", err)
	}

	insert := `
	INSERT INTO routes (
		route_id,
		dispatcher_id,
		route_date,
		mode,
		start_address,
		end_address,
		start_lon, start_lat,
		end_lon, end_lat,
		stops,
		segment_times,
		total_time,
		total_distance,
		path,
		created_by,
		version,
		is_active
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err = tx.ExecContext(ctx, insert,
		route.ID,
		route.DispatcherID,
		route.RouteDate,
		route.Mode,
		route.StartAddress,
		route.EndAddress,
		route.StartCoord.Lon, route.StartCoord.Lat,
		route.EndCoord.Lon, route.EndCoord.Lat,
		stopsJSON,
		segmentsJSON,
		route.TotalTime,
		route.TotalDistance,
		pathJSON,
		route.CreatedBy,
		route.Version,
		route.IsActive,
	)
	if err != nil {
		return fmt.Errorf("save route: insert route %s: %w", route.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save route: commit tx: %w", err)
	}

	return nil
}

// ListActiveRoutes returns the active routes for a date.
func (r *PostgresRouteRepository) ListActiveRoutes(ctx context.Context, date time.Time) ([]domain.Route, error) {
	if r.DB == nil {
		return nil, errors.New("route repository: DB is nil")
	}

	query := `
	SELECT
		route_id,
		dispatcher_id,
		route_date,
		mode,
		start_address,
		end_address,
		start_lon, start_lat,
		end_lon, end_lat,
		stops,
		segment_times,
		total_time,
		total_distance,
		path,
		created_by,
		version,
		is_active
	FROM routes
	WHERE route_date = $1
		AND is_active
	ORDER BY dispatcher_id;
	`
	rows, err := r.DB.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("list routes: query routes table: %w", err)
	}
	defer rows.Close()

	routes := make([]domain.Route, 0, 16)
	for rows.Next() {
		var (
			rt           domain.Route
			stopsJSON    []byte
			segmentsJSON []byte
			pathJSON     []byte
		)
		err := rows.Scan(
			&rt.ID,
			&rt.DispatcherID,
			&rt.RouteDate,
			&rt.Mode,
			&rt.StartAddress,
			&rt.EndAddress,
			&rt.StartCoord.Lon, &rt.StartCoord.Lat,
			&rt.EndCoord.Lon, &rt.EndCoord.Lat,
			&stopsJSON,
			&segmentsJSON,
			&rt.TotalTime,
			&rt.TotalDistance,
			&pathJSON,
			&rt.CreatedBy,
			&rt.Version,
			&rt.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("list routes: scan row: %w", err)
		}

		var stops []storedStop
		if err := json.Unmarshal(stopsJSON, &stops); err != nil {
			return nil, fmt.Errorf("list routes: route %s: parse stops: %w", rt.ID, err)
		}
		rt.Stops = make([]domain.Stop, 0, len(stops))
		for _, s := range stops {
			rt.Stops = append(rt.Stops, domain.Stop{
				Address:  s.Address,
				Area:     s.Area,
				District: s.District,
				Lat:      s.Lat,
				Lng:      s.Lng,
				Orders:   s.Orders,
			})
		}

		if err := json.Unmarshal(segmentsJSON, &rt.SegmentTimes); err != nil {
			return nil, fmt.Errorf("list routes: route %s: parse segment times: %w", rt.ID, err)
		}

		var path []storedPoint
		if err := json.Unmarshal(pathJSON, &path); err != nil {
			return nil, fmt.Errorf("list routes: route %s: parse path: %w", rt.ID, err)
		}
		rt.Path = make([]domain.Coordinates, 0, len(path))
		for _, p := range path {
			rt.Path = append(rt.Path, domain.Coordinates{Lon: p.Lon, Lat: p.Lat})
		}

		routes = append(routes, rt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routes: row iteration: %w", err)
	}

	return routes, nil
}
