package domain

import (
	"fmt"
	"strings"
	"time"
)

// OrderStatus enumerates the review states of a purchase order.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusAccepted OrderStatus = "accepted"
	OrderStatusRejected OrderStatus = "rejected"
)

// Column bounds of pending_orders.
const (
	MaxImageURLLength = 1000
	MaxPromptLength   = 1000
)

// Order is a purchase request for a generated image.
type Order struct {
	ID        int64       `json:"id"`
	ImageURL  string      `json:"imageUrl"`
	Prompt    string      `json:"prompt"`
	UserID    *int64      `json:"userId"`
	CreatedAt time.Time   `json:"createdAt"`
	Status    OrderStatus `json:"status"`
}

// Valid reports whether s is one of the enumerated statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusRejected:
		return true
	}
	return false
}

// ParseOrderStatus maps free-form input onto the closed status set.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}
