package ports

import (
	"context"

	"github.com/Fritte91/247LocalFinest/internal/core/domain"
)

type CreateReviewInput struct {
	ProductID string
	UserID    string
	UserName  string
	Rating    int
	Comment   string
}

type UpdateReviewInput struct {
	ID      string
	UserID  string
	Rating  *int
	Comment *string
}

type ReviewService interface {
	Create(ctx context.Context, in CreateReviewInput) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]*domain.Review, error)
	Update(ctx context.Context, in UpdateReviewInput) (*domain.Review, error)
	Delete(ctx context.Context, id, userID string) error
}
