package domain

import "context"

// UserRepository defines access methods for users.
type UserRepository interface {
	First(ctx context.Context) (*User, error)
	CreateIfAbsent(ctx context.Context, user User) error
}

// OrderRepository defines persistence for purchase orders.
type OrderRepository interface {
	Create(ctx context.Context, order *Order) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id int64, status OrderStatus) (*Order, error)
}
