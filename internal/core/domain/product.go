package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus reflects stock availability.
type ProductStatus string

const (
	StatusActive     ProductStatus = "active"
	StatusLowStock   ProductStatus = "low_stock"
	StatusOutOfStock ProductStatus = "out_of_stock"
)

const lowStockThreshold = 10

// StatusForStock derives the availability status from a stock level.
func StatusForStock(stock int) ProductStatus {
	switch {
	case stock > lowStockThreshold:
		return StatusActive
	case stock > 0:
		return StatusLowStock
	default:
		return StatusOutOfStock
	}
}

const (
	CategoryFlowers   = "flowers"
	CategoryGlassware = "glassware"
	CategoryArtwork   = "artwork"
)

// subcategories lists the subcategories allowed under each category.
var subcategories = map[string][]string{
	CategoryFlowers:   {"sativa", "indica", "hybrid"},
	CategoryGlassware: {"bongs", "pipes", "accessories"},
	CategoryArtwork:   {"prints", "sculptures", "photography"},
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c string) bool {
	_, ok := subcategories[c]
	return ok
}

// ValidSubcategory reports whether sub belongs to category. An empty
// subcategory is always accepted.
func ValidSubcategory(category, sub string) bool {
	if sub == "" {
		return true
	}
	for _, s := range subcategories[category] {
		if s == sub {
			return true
		}
	}
	return false
}

// Product is a catalog entry managed from the admin screen.
type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Status      ProductStatus   `json:"status"`
	THC         string          `json:"thc,omitempty"`
	CBD         string          `json:"cbd,omitempty"`
	Effects     string          `json:"effects,omitempty"`
	Terpenes    string          `json:"terpenes,omitempty"`
	Flavors     string          `json:"flavors,omitempty"`
	Grower      string          `json:"grower,omitempty"`
	Artist      string          `json:"artist,omitempty"`
	Description string          `json:"description,omitempty"`
	Images      []string        `json:"images"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
