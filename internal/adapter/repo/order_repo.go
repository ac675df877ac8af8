package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"flowershop/internal/domain"
	"flowershop/internal/infra"
	"flowershop/internal/sqlinline"
)

// OrderRepositoryPG implements domain.OrderRepository backed by PostgreSQL.
type OrderRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(sql infra.SQLExecutor) *OrderRepositoryPG {
	return &OrderRepositoryPG{sql: sql}
}

// Create inserts the order and returns the stored row, including the
// server-assigned id and creation time.
func (r *OrderRepositoryPG) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	status := order.Status
	if status == "" {
		status = domain.OrderStatusPending
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertOrder, order.ImageURL, order.Prompt, order.UserID, string(status))
	return scanOrder(row)
}

// List returns every order, most recent first.
func (r *OrderRepositoryPG) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListOrders)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus overwrites the status of a single order.
func (r *OrderRepositoryPG) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QUpdateOrderStatus, id, string(status))
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o      domain.Order
		status string
	)
	if err := row.Scan(&o.ID, &o.ImageURL, &o.Prompt, &o.UserID, &o.CreatedAt, &status); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	o.Status = domain.OrderStatus(status)
	return &o, nil
}

var _ domain.OrderRepository = (*OrderRepositoryPG)(nil)
