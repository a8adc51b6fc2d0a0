package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Fritte91/247LocalFinest/internal/core/domain"
	"github.com/Fritte91/247LocalFinest/internal/core/ports"
)

type OrderService struct {
	repo    ports.OrderRepository
	taxRate decimal.Decimal
	logger  zerolog.Logger
}

func NewOrderService(repo ports.OrderRepository, taxRate decimal.Decimal, logger zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, taxRate: taxRate, logger: logger}
}

// Place records an order for the given cart lines. If the user already
// placed an order with the same idempotency key, that order is returned
// unchanged, even when the lines are now empty.
func (s *OrderService) Place(ctx context.Context, in ports.PlaceOrderInput) (*ports.OrderResult, error) {
	if in.IdempotencyKey != "" {
		existing, err := s.repo.FindByIdempotencyKey(ctx, in.UserID, in.IdempotencyKey)
		switch {
		case err == nil:
			s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Str("order_number", existing.Number).Msg("idempotent replay")
			return &ports.OrderResult{Order: existing, AlreadyExisted: true}, nil
		case !errors.Is(err, domain.ErrOrderNotFound):
			return nil, err
		}
	}

	lines := make([]domain.CartItem, 0, len(in.Items))
	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			continue
		}
		lines = append(lines, it)
		items = append(items, domain.OrderItem{
			ProductID: it.ID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Image:     it.Image,
		})
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	subtotal := domain.Subtotal(lines)
	tax := subtotal.Mul(s.taxRate).Round(2)
	order := &domain.Order{
		Number:         generateOrderNumber(),
		UserID:         in.UserID,
		Items:          items,
		Subtotal:       subtotal,
		Tax:            tax,
		Total:          subtotal.Add(tax),
		Status:         domain.OrderPending,
		IdempotencyKey: in.IdempotencyKey,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, err
	}

	s.logger.Info().
		Str("order_number", order.Number).
		Str("user_id", in.UserID).
		Str("total", order.Total.StringFixed(2)).
		Msg("order placed")

	return &ports.OrderResult{Order: order}, nil
}

// List returns orders newest first. An empty userID lists every order.
func (s *OrderService) List(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.repo.List(ctx, userID)
}

// generateOrderNumber returns an order number in the format LF-XXXXXXXX.
func generateOrderNumber() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("LF-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("LF-%08X", b)
}
