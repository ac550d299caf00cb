package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Initialize the Postgres database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createOrdersQuery := `
	CREATE TABLE IF NOT EXISTS orders (
		order_id BIGSERIAL PRIMARY KEY,
		order_date DATE NOT NULL,
		time_bucket TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'Pending',
		detailed_address TEXT NOT NULL,
		area TEXT NOT NULL,
		district TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		postcode TEXT,
		dispatcher_id BIGINT,
		customer_id BIGINT NOT NULL,
		note TEXT
	);
	`

	createDispatchersQuery := `
	CREATE TABLE IF NOT EXISTS dispatchers (
		dispatcher_id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT,
		email TEXT,
		active_day JSONB NOT NULL DEFAULT '{}'::jsonb,
		responsible_area JSONB NOT NULL DEFAULT '[]'::jsonb
	);
	`

	createRoutesQuery := `
	CREATE TABLE IF NOT EXISTS routes (
		route_id UUID PRIMARY KEY,
		dispatcher_id BIGINT NOT NULL,
		route_date DATE NOT NULL,
		mode TEXT NOT NULL,
		start_address TEXT NOT NULL,
		end_address TEXT NOT NULL,
		start_lon DOUBLE PRECISION NOT NULL,
		start_lat DOUBLE PRECISION NOT NULL,
		end_lon DOUBLE PRECISION NOT NULL,
		end_lat DOUBLE PRECISION NOT NULL,
		stops JSONB NOT NULL,
		segment_times JSONB NOT NULL,
		total_time INTEGER NOT NULL,
		total_distance INTEGER NOT NULL,
		path JSONB NOT NULL,
		created_by TEXT NOT NULL,
		version INTEGER NOT NULL,
		is_active BOOLEAN NOT NULL
	);
	`

	createOrderIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_orders_dispatcher
	ON orders(dispatcher_id);
	`

	// One active route per dispatcher per day, enforced at the store too.
	createRouteIndexQuery := `
	CREATE UNIQUE INDEX IF NOT EXISTS idx_routes_active_dispatcher_date
	ON routes(dispatcher_id, route_date)
	WHERE is_active;
	`

	statements := []string{
		createOrdersQuery,
		createDispatchersQuery,
		createRoutesQuery,
		createOrderIndexQuery,
		createRouteIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type OrderSeed struct {
	Date            string  `json:"date"`
	TimeBucket      string  `json:"time_bucket"`
	DetailedAddress string  `json:"detailed_address"`
	Area            string  `json:"area"`
	District        string  `json:"district"`
	Lat             float64 `json:"lat"`
	Lng             float64 `json:"lng"`
	Postcode        string  `json:"postcode"`
	CustomerID      int64   `json:"customer_id"`
	Note            string  `json:"note"`
}

type DispatcherSeed struct {
	Name            string              `json:"name"`
	Phone           string              `json:"phone"`
	Email           string              `json:"email"`
	ActiveDay       map[string][]string `json:"active_day"`
	ResponsibleArea [][]string          `json:"responsible_area"`
}

// Populate the database with order data from a JSON file.
func SeedOrdersFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed orders: read %q: %w", jsonPath, err)
	}

	var data []OrderSeed
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed orders: parse json: %w", err)
	}

	for i, item := range data {
		if strings.TrimSpace(item.DetailedAddress) == "" {
			return fmt.Errorf("seed orders: item at index %d: address cannot be empty", i+1)
		}
		if _, err := time.Parse("2006-01-02", item.Date); err != nil {
			return fmt.Errorf("seed orders: item at index %d: invalid date %q", i+1, item.Date)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed orders: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO orders (
		order_date,
		time_bucket,
		status,
		detailed_address,
		area,
		district,
		lat,
		lng,
		postcode,
		customer_id,
		note
	)
	VALUES ($1, $2, 'Pending', $3, $4, $5, $6, $7, $8, $9, $10);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed orders: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, o := range data {
		_, err := stmt.Exec(
			o.Date,
			o.TimeBucket,
			o.DetailedAddress,
			o.Area,
			o.District,
			o.Lat,
			o.Lng,
			o.Postcode,
			o.CustomerID,
			o.Note,
		)
		if err != nil {
			return fmt.Errorf("seed orders: insert item #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed orders: commit tx: %w", err)
	}

	return nil
}

// Populate the database with dispatcher data from a JSON file.
func SeedDispatchersFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed dispatchers: read %q: %w", jsonPath, err)
	}

	var data []DispatcherSeed
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed dispatchers: parse json: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed dispatchers: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO dispatchers (
		name,
		phone,
		email,
		active_day,
		responsible_area
	)
	VALUES ($1, $2, $3, $4, $5);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed dispatchers: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, d := range data {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return fmt.Errorf("seed dispatchers: item at index %d: name cannot be empty", i+1)
		}

		activeDay, err := json.Marshal(d.ActiveDay)
		if err != nil {
			return fmt.Errorf("seed dispatchers: item #%d: marshal active_day: %w", i+1, err)
		}
		responsible, err := json.Marshal(d.ResponsibleArea)
		if err != nil {
			return fmt.Errorf("seed dispatchers: item #%d: marshal responsible_area: %w", i+1, err)
		}

		if _, err := stmt.Exec(name, d.Phone, d.Email, activeDay, responsible); err != nil {
			return fmt.Errorf("seed dispatchers: insert %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed dispatchers: commit tx: %w", err)
	}

	return nil
}
