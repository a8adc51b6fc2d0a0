package handler

import (
	"github.com/Fritte91/247LocalFinest/internal/core/domain"
	"github.com/Fritte91/247LocalFinest/internal/core/ports"
)

// --- Request → Service input ---

func toCreateProductInput(req createProductRequest) ports.CreateProductInput {
	return ports.CreateProductInput{
		Name:        req.Name,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Price:       *req.Price,
		Stock:       *req.Stock,
		THC:         req.THC,
		CBD:         req.CBD,
		Effects:     req.Effects,
		Terpenes:    req.Terpenes,
		Flavors:     req.Flavors,
		Grower:      req.Grower,
		Artist:      req.Artist,
		Description: req.Description,
		Images:      req.Images,
	}
}

func toUpdateProductInput(req updateProductRequest) ports.UpdateProductInput {
	return ports.UpdateProductInput{
		ID:          req.ID,
		Name:        req.Name,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Price:       req.Price,
		Stock:       req.Stock,
		THC:         req.THC,
		CBD:         req.CBD,
		Effects:     req.Effects,
		Terpenes:    req.Terpenes,
		Flavors:     req.Flavors,
		Grower:      req.Grower,
		Artist:      req.Artist,
		Description: req.Description,
		Images:      req.Images,
	}
}

func toListProductsResponse(res *ports.ListProductsResult) listProductsResponse {
	items := res.Items
	if items == nil {
		items = []*domain.Product{}
	}
	return listProductsResponse{
		Products:   items,
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	}
}

func toCartItems(lines []orderLineRequest) []domain.CartItem {
	items := make([]domain.CartItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, domain.CartItem{
			ID:       l.ID,
			Name:     l.Name,
			Price:    l.Price,
			Quantity: l.Quantity,
			Image:    l.Image,
		})
	}
	return items
}

func toCheckoutResponse(res *ports.OrderResult) checkoutResponse {
	o := res.Order
	return checkoutResponse{
		OrderID:        o.ID,
		Number:         o.Number,
		Subtotal:       o.Subtotal.StringFixed(2),
		Tax:            o.Tax.StringFixed(2),
		Total:          o.Total.StringFixed(2),
		Status:         string(o.Status),
		AlreadyExisted: res.AlreadyExisted,
	}
}
