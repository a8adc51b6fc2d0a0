package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CartItem is one product line in a cart. ID is the cart identity key; the
// descriptive fields are carried through for display and never interpreted.
type CartItem struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`

	Image    string          `json:"image,omitempty"`
	Category string          `json:"category,omitempty"`
	Grower   string          `json:"grower,omitempty"`
	Artist   string          `json:"artist,omitempty"`
	THC      json.RawMessage `json:"thc,omitempty"`
	CBD      json.RawMessage `json:"cbd,omitempty"`
	Strain   string          `json:"strain,omitempty"`
}

// LineTotal is price times quantity.
func (c CartItem) LineTotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// Subtotal sums price*quantity over items.
func Subtotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// ItemCount sums quantities over items.
func ItemCount(items []CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
