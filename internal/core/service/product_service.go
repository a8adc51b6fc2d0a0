package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Fritte91/247LocalFinest/internal/core/domain"
	"github.com/Fritte91/247LocalFinest/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ProductService struct {
	repo   ports.ProductRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewProductService(repo ports.ProductRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger, now: time.Now}
}

// Create validates and stores a new product. Status is derived from stock.
func (s *ProductService) Create(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidProduct)
	}
	if err := validateCategory(in.Category, in.Subcategory); err != nil {
		return nil, err
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidProduct)
	}
	if in.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalidProduct)
	}

	images := in.Images
	if images == nil {
		images = []string{}
	}

	now := s.now().UTC()
	p := &domain.Product{
		Name:        name,
		Category:    in.Category,
		Subcategory: in.Subcategory,
		Price:       in.Price,
		Stock:       in.Stock,
		Status:      domain.StatusForStock(in.Stock),
		THC:         in.THC,
		CBD:         in.CBD,
		Effects:     in.Effects,
		Terpenes:    in.Terpenes,
		Flavors:     in.Flavors,
		Grower:      in.Grower,
		Artist:      in.Artist,
		Description: in.Description,
		Images:      images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		return nil, err
	}

	s.logger.Info().Str("product_id", p.ID).Str("category", p.Category).Msg("product created")
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, domain.ErrProductNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// List returns a page of products, newest first. Limit is capped at 100.
func (s *ProductService) List(ctx context.Context, filter ports.ListProductsFilter) (*ports.ListProductsResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	filter.Search = strings.TrimSpace(filter.Search)

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListProductsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// Update applies a partial update. A stock change recomputes status.
func (s *ProductService) Update(ctx context.Context, in ports.UpdateProductInput) (*domain.Product, error) {
	if in.ID == "" {
		return nil, fmt.Errorf("%w: product id is required", domain.ErrInvalidProduct)
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidProduct)
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidProduct)
	}
	if in.Stock != nil && *in.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalidProduct)
	}

	if in.Category != nil || in.Subcategory != nil {
		current, err := s.repo.FindByID(ctx, in.ID)
		if err != nil {
			return nil, err
		}
		category, sub := current.Category, current.Subcategory
		if in.Category != nil {
			category = *in.Category
		}
		if in.Subcategory != nil {
			sub = *in.Subcategory
		}
		if err := validateCategory(category, sub); err != nil {
			return nil, err
		}
	}

	patch := ports.ProductPatch{
		Name:        in.Name,
		Category:    in.Category,
		Subcategory: in.Subcategory,
		Price:       in.Price,
		Stock:       in.Stock,
		THC:         in.THC,
		CBD:         in.CBD,
		Effects:     in.Effects,
		Terpenes:    in.Terpenes,
		Flavors:     in.Flavors,
		Grower:      in.Grower,
		Artist:      in.Artist,
		Description: in.Description,
		Images:      in.Images,
		UpdatedAt:   s.now().UTC(),
	}
	if in.Stock != nil {
		status := domain.StatusForStock(*in.Stock)
		patch.Status = &status
	}

	p, err := s.repo.Update(ctx, in.ID, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("product_id", p.ID).Msg("product updated")
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: product id is required", domain.ErrInvalidProduct)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

func validateCategory(category, sub string) error {
	if !domain.ValidCategory(category) {
		return fmt.Errorf("%w: category must be one of flowers, glassware, artwork", domain.ErrInvalidProduct)
	}
	if !domain.ValidSubcategory(category, sub) {
		return fmt.Errorf("%w: subcategory %q does not belong to %s", domain.ErrInvalidProduct, sub, category)
	}
	return nil
}
