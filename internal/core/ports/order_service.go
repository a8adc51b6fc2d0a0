package ports

import (
	"context"

	"github.com/Fritte91/247LocalFinest/internal/core/domain"
)

// PlaceOrderInput carries the lines of a new order.
type PlaceOrderInput struct {
	UserID         string
	Items          []domain.CartItem
	IdempotencyKey string
}

// OrderResult is returned after placing an order.
type OrderResult struct {
	Order *domain.Order
	// AlreadyExisted is true when the Idempotency-Key matched an earlier order.
	AlreadyExisted bool
}

type OrderService interface {
	Place(ctx context.Context, in PlaceOrderInput) (*OrderResult, error)
	List(ctx context.Context, userID string) ([]*domain.Order, error)
}
