package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/domain"
)

// Postgres-backed implementation of the DispatcherRepository port.
// Jurisdiction pairs and active days are stored as JSONB.
type PostgresDispatcherRepository struct{ DB *sql.DB }

func NewPostgresDispatcherRepository(db *sql.DB) *PostgresDispatcherRepository {
	return &PostgresDispatcherRepository{DB: db}
}

// Return all dispatchers stored in the database, preserving the stored
// order of their responsible-area pairs.
func (r *PostgresDispatcherRepository) ListDispatchers(ctx context.Context) ([]domain.Dispatcher, error) {
	if r.DB == nil {
		return nil, errors.New("dispatcher repository: DB is nil")
	}

	query := `
	SELECT
		dispatcher_id,
		name,
		phone,
		email,
		active_day,
		responsible_area
	FROM dispatchers
	ORDER BY dispatcher_id;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list dispatchers: query dispatchers table: %w", err)
	}
	defer rows.Close()

	dispatchers := make([]domain.Dispatcher, 0, 16)
	for rows.Next() {
		var (
			d           domain.Dispatcher
			phone       sql.NullString
			email       sql.NullString
			activeDay   []byte
			responsible []byte
		)
		if err := rows.Scan(&d.ID, &d.Name, &phone, &email, &activeDay, &responsible); err != nil {
			return nil, fmt.Errorf("list dispatchers: scan row: %w", err)
		}

		d.Phone = phone.String
		d.Email = email.String

		if len(activeDay) > 0 {
			if err := json.Unmarshal(activeDay, &d.ActiveDay); err != nil {
				return nil, fmt.Errorf("list dispatchers: dispatcher %d: parse active_day: %w", d.ID, err)
			}
		}

		pairs, err := parseResponsibleArea(responsible)
		if err != nil {
			return nil, fmt.Errorf("list dispatchers: dispatcher %d: %w", d.ID, err)
		}
		d.ResponsibleArea = pairs

		dispatchers = append(dispatchers, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list dispatchers: row iteration: %w", err)
	}

	return dispatchers, nil
}

// parseResponsibleArea decodes the stored [["area","district"], ...] pairs.
// A missing district element is the whole-area wildcard.
func parseResponsibleArea(raw []byte) ([]domain.AreaPair, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var lists [][]string
	if err := json.Unmarshal(raw, &lists); err != nil {
		return nil, fmt.Errorf("parse responsible_area: %w", err)
	}

	pairs := make([]domain.AreaPair, 0, len(lists))
	for i, l := range lists {
		switch len(l) {
		case 1:
			pairs = append(pairs, domain.AreaPair{Area: l[0]})
		case 2:
			pairs = append(pairs, domain.AreaPair{Area: l[0], District: l[1]})
		default:
			return nil, fmt.Errorf("parse responsible_area: pair #%d has %d elements", i+1, len(l))
		}
	}
	return pairs, nil
}
