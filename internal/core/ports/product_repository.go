package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Fritte91/247LocalFinest/internal/core/domain"
)

// ListProductsFilter carries all query parameters for listing products.
type ListProductsFilter struct {
	Category    string // optional
	Subcategory string // optional
	Status      string // optional
	Search      string // optional: partial, case-insensitive match on name
	Page        int    // 1-based
	Limit       int    // capped at 100
}

// ProductPatch holds the fields of a partial product update; nil means
// unchanged.
type ProductPatch struct {
	Name        *string
	Category    *string
	Subcategory *string
	Price       *decimal.Decimal
	Stock       *int
	Status      *domain.ProductStatus
	THC         *string
	CBD         *string
	Effects     *string
	Terpenes    *string
	Flavors     *string
	Grower      *string
	Artist      *string
	Description *string
	Images      *[]string
	UpdatedAt   time.Time
}

// ProductRepository defines persistence operations for catalog products.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// List returns a page of products, newest first, and the total count.
	List(ctx context.Context, filter ListProductsFilter) ([]*domain.Product, int64, error)
	Update(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
