package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/happy-hackers/RoutePlanner-sub000/internal/domain"
)

// Postgres-backed implementation of the OrderRepository port.
type PostgresOrderRepository struct{ DB *sql.DB }

func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{DB: db}
}

// Return all orders stored in the database.
func (r *PostgresOrderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	if r.DB == nil {
		return nil, errors.New("order repository: DB is nil")
	}

	query := `
	SELECT
		order_id,
		order_date,
		time_bucket,
		status,
		detailed_address,
		area,
		district,
		lat,
		lng,
		postcode,
		dispatcher_id,
		customer_id,
		note
	FROM orders
	ORDER BY order_id;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list orders: query orders table: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, 64)
	for rows.Next() {
		var (
			o            domain.Order
			postcode     sql.NullString
			dispatcherID sql.NullInt64
			note         sql.NullString
		)
		err := rows.Scan(
			&o.ID,
			&o.Date,
			&o.TimeBucket,
			&o.Status,
			&o.DetailedAddress,
			&o.Area,
			&o.District,
			&o.Lat,
			&o.Lng,
			&postcode,
			&dispatcherID,
			&o.CustomerID,
			&note,
		)
		if err != nil {
			return nil, fmt.Errorf("list orders: scan row: %w", err)
		}

		o.Postcode = postcode.String
		o.Note = note.String
		if dispatcherID.Valid {
			id := dispatcherID.Int64
			o.DispatcherID = &id
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: row iteration: %w", err)
	}

	return orders, nil
}

// Persist an order's dispatcher and status.
func (r *PostgresOrderRepository) UpdateOrder(ctx context.Context, order domain.Order) error {
	if r.DB == nil {
		return errors.New("order repository: DB is nil")
	}

	query := `
	UPDATE orders
	SET dispatcher_id = $1,
		status = $2
	WHERE order_id = $3;
	`

	var dispatcherID any
	if order.DispatcherID != nil {
		dispatcherID = *order.DispatcherID
	}

	res, err := r.DB.ExecContext(ctx, query, dispatcherID, order.Status, order.ID)
	if err != nil {
		return fmt.Errorf("update order %d: %w", order.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order %d: rows affected: %w", order.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("update order %d: no such order", order.ID)
	}

	return nil
}
