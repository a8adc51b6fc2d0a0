package handler

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type addCartItemRequest struct {
	ID       int64           `json:"id"       validate:"required,gt=0"`
	Name     string          `json:"name"     validate:"required"`
	Price    decimal.Decimal `json:"price"    swaggertype:"string" example:"35.00"`
	Quantity *int            `json:"quantity"`
	Image    string          `json:"image"`
	Category string          `json:"category"`
	Grower   string          `json:"grower"`
	Artist   string          `json:"artist"`
	THC      json.RawMessage `json:"thc,omitempty"    swaggertype:"string"`
	CBD      json.RawMessage `json:"cbd,omitempty"    swaggertype:"string"`
	Strain   string          `json:"strain"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type checkoutResponse struct {
	OrderID        string `json:"orderId"`
	Number         string `json:"number"`
	Subtotal       string `json:"subtotal"`
	Tax            string `json:"tax"`
	Total          string `json:"total"`
	Status         string `json:"status"`
	AlreadyExisted bool   `json:"alreadyExisted,omitempty"`
}
