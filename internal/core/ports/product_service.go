package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Fritte91/247LocalFinest/internal/core/domain"
)

// CreateProductInput carries everything the admin form submits.
type CreateProductInput struct {
	Name        string
	Category    string
	Subcategory string
	Price       decimal.Decimal
	Stock       int
	THC         string
	CBD         string
	Effects     string
	Terpenes    string
	Flavors     string
	Grower      string
	Artist      string
	Description string
	Images      []string
}

// UpdateProductInput is a partial update of product ID.
type UpdateProductInput struct {
	ID          string
	Name        *string
	Category    *string
	Subcategory *string
	Price       *decimal.Decimal
	Stock       *int
	THC         *string
	CBD         *string
	Effects     *string
	Terpenes    *string
	Flavors     *string
	Grower      *string
	Artist      *string
	Description *string
	Images      *[]string
}

// ListProductsResult is one page of the catalog.
type ListProductsResult struct {
	Items      []*domain.Product
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type ProductService interface {
	Create(ctx context.Context, in CreateProductInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ListProductsFilter) (*ListProductsResult, error)
	Update(ctx context.Context, in UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
