package ports

import (
	"context"

	"github.com/Fritte91/247LocalFinest/internal/core/domain"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	// FindByIdempotencyKey only matches orders placed by userID.
	FindByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Order, error)
	// List returns orders newest first. An empty userID lists every order.
	List(ctx context.Context, userID string) ([]*domain.Order, error)
}
