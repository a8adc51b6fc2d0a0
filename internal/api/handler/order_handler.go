package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Fritte91/247LocalFinest/internal/api/metrics"
	"github.com/Fritte91/247LocalFinest/internal/core/domain"
	"github.com/Fritte91/247LocalFinest/internal/core/ports"
)

type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// List handles GET /orders. Admins may pass userId or omit it to list every
// order; everyone else only sees their own.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        userId  query     string  false  "Filter by user (admins only)"
// @Success      200     {array}   domain.Order
// @Failure      401     {object}  errorResponse
// @Router       /orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	userID := claims.UserID
	if claims.Role == domain.RoleAdmin {
		userID = c.QueryParam("userId")
	}

	orders, err := h.service.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	return c.JSON(http.StatusOK, orders)
}

// Create handles POST /orders with explicit order lines.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string              false  "Idempotency key to prevent duplicate orders"
// @Param        body             body      createOrderRequest  true   "Order lines"
// @Success      201              {object}  domain.Order
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Router       /orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.Place(c.Request().Context(), ports.PlaceOrderInput{
		UserID:         claims.UserID,
		Items:          toCartItems(req.Items),
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	if res.AlreadyExisted {
		metrics.OrdersPlacedTotal.WithLabelValues("replayed").Inc()
		return c.JSON(http.StatusOK, res.Order)
	}
	metrics.OrdersPlacedTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, res.Order)
}
