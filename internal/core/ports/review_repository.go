package ports

import (
	"context"

	"github.com/Fritte91/247LocalFinest/internal/core/domain"
)

// ReviewPatch holds the fields a review owner may change.
type ReviewPatch struct {
	Rating  *int
	Comment *string
}

// ReviewRepository defines persistence operations for product reviews.
type ReviewRepository interface {
	Create(ctx context.Context, r *domain.Review) error
	FindByUserAndProduct(ctx context.Context, userID, productID string) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]*domain.Review, error)
	// UpdateOwned and DeleteOwned only match reviews written by userID.
	UpdateOwned(ctx context.Context, id, userID string, patch ReviewPatch) (*domain.Review, error)
	DeleteOwned(ctx context.Context, id, userID string) error
}
