package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Fritte91/247LocalFinest/internal/core/domain"
	"github.com/Fritte91/247LocalFinest/internal/core/ports"
)

type ReviewService struct {
	repo     ports.ReviewRepository
	products ports.ProductRepository
	logger   zerolog.Logger
}

func NewReviewService(repo ports.ReviewRepository, products ports.ProductRepository, logger zerolog.Logger) *ReviewService {
	return &ReviewService{repo: repo, products: products, logger: logger}
}

// Create adds a review. A user may review each product once.
func (s *ReviewService) Create(ctx context.Context, in ports.CreateReviewInput) (*domain.Review, error) {
	if in.ProductID == "" {
		return nil, fmt.Errorf("%w: product is required", domain.ErrInvalidReview)
	}
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}
	if _, err := s.products.FindByID(ctx, in.ProductID); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByUserAndProduct(ctx, in.UserID, in.ProductID)
	if err != nil && !errors.Is(err, domain.ErrReviewNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrReviewExists
	}

	now := time.Now().UTC()
	r := &domain.Review{
		ProductID: in.ProductID,
		UserID:    in.UserID,
		UserName:  in.UserName,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		s.logger.Error().Err(err).Msg("failed to create review")
		return nil, err
	}

	s.logger.Info().Str("review_id", r.ID).Str("product_id", r.ProductID).Int("rating", r.Rating).Msg("review created")
	return r, nil
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID string) ([]*domain.Review, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: productId is required", domain.ErrInvalidReview)
	}
	return s.repo.ListByProduct(ctx, productID)
}

// Update changes a review owned by in.UserID.
func (s *ReviewService) Update(ctx context.Context, in ports.UpdateReviewInput) (*domain.Review, error) {
	if in.ID == "" {
		return nil, fmt.Errorf("%w: review id is required", domain.ErrInvalidReview)
	}
	if in.Rating != nil {
		if err := validateRating(*in.Rating); err != nil {
			return nil, err
		}
	}
	patch := ports.ReviewPatch{Rating: in.Rating}
	if in.Comment != nil {
		c := strings.TrimSpace(*in.Comment)
		patch.Comment = &c
	}
	return s.repo.UpdateOwned(ctx, in.ID, in.UserID, patch)
}

// Delete removes a review owned by userID.
func (s *ReviewService) Delete(ctx context.Context, id, userID string) error {
	if id == "" {
		return fmt.Errorf("%w: review id is required", domain.ErrInvalidReview)
	}
	if err := s.repo.DeleteOwned(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info().Str("review_id", id).Msg("review deleted")
	return nil
}

func validateRating(r int) error {
	if r < domain.MinRating || r > domain.MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", domain.ErrInvalidReview, domain.MinRating, domain.MaxRating)
	}
	return nil
}
