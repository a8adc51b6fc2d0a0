package handler

import (
	"github.com/shopspring/decimal"

	"github.com/Fritte91/247LocalFinest/internal/core/domain"
)

type createProductRequest struct {
	Name        string           `json:"name"        validate:"required"`
	Category    string           `json:"category"    validate:"required,oneof=flowers glassware artwork"`
	Subcategory string           `json:"subcategory"`
	Price       *decimal.Decimal `json:"price"       validate:"required" swaggertype:"string" example:"35.00"`
	Stock       *int             `json:"stock"       validate:"required,gte=0"`
	THC         string           `json:"thc"`
	CBD         string           `json:"cbd"`
	Effects     string           `json:"effects"`
	Terpenes    string           `json:"terpenes"`
	Flavors     string           `json:"flavors"`
	Grower      string           `json:"grower"`
	Artist      string           `json:"artist"`
	Description string           `json:"description"`
	Images      []string         `json:"images"`
}

type updateProductRequest struct {
	ID          string           `json:"_id"         validate:"required"`
	Name        *string          `json:"name"`
	Category    *string          `json:"category"    validate:"omitempty,oneof=flowers glassware artwork"`
	Subcategory *string          `json:"subcategory"`
	Price       *decimal.Decimal `json:"price"       swaggertype:"string"`
	Stock       *int             `json:"stock"       validate:"omitempty,gte=0"`
	THC         *string          `json:"thc"`
	CBD         *string          `json:"cbd"`
	Effects     *string          `json:"effects"`
	Terpenes    *string          `json:"terpenes"`
	Flavors     *string          `json:"flavors"`
	Grower      *string          `json:"grower"`
	Artist      *string          `json:"artist"`
	Description *string          `json:"description"`
	Images      *[]string        `json:"images"`
}

type listProductsResponse struct {
	Products   []*domain.Product `json:"products"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"totalPages"`
}

type usersCountResponse struct {
	TotalUsers int64 `json:"totalUsers"`
}

type uploadResponse struct {
	URLs []string `json:"urls"`
}

type createReviewRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Rating    int    `json:"rating"    validate:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

type updateReviewRequest struct {
	ID      string  `json:"_id"     validate:"required"`
	Rating  *int    `json:"rating"  validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment"`
}

type createOrderRequest struct {
	Items []orderLineRequest `json:"items" validate:"required,min=1,dive"`
}

type orderLineRequest struct {
	ID       int64           `json:"id"       validate:"required,gt=0"`
	Name     string          `json:"name"     validate:"required"`
	Price    decimal.Decimal `json:"price"    swaggertype:"string"`
	Quantity int             `json:"quantity" validate:"required,gt=0"`
	Image    string          `json:"image"`
}
