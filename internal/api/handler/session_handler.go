package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Fritte91/247LocalFinest/internal/api/metrics"
	"github.com/Fritte91/247LocalFinest/internal/core/domain"
	"github.com/Fritte91/247LocalFinest/internal/core/ports"
	"github.com/Fritte91/247LocalFinest/internal/core/session"
)

// PersistedHeader is set to "false" when a session change could not be
// mirrored to the persistence backend. The change itself still applies.
const PersistedHeader = "X-Session-Persisted"

// SessionHandler exposes the caller's session: identity, cart and checkout.
type SessionHandler struct {
	orders ports.OrderService
	log    zerolog.Logger
}

func NewSessionHandler(orders ports.OrderService, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{orders: orders, log: log}
}

// Get returns the session read model.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Param        X-Session-ID  header    string  false  "Session id"
// @Success      200           {object}  session.Snapshot
// @Router       /session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	store, err := ctxStore(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, store.Snapshot())
}

// Logout clears identity and cart.
//
// @Summary      Log out
// @Tags         session
// @Produce      json
// @Success      200  {object}  session.Snapshot
// @Router       /session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	store, err := ctxStore(c)
	if err != nil {
		return err
	}
	return h.respond(c, http.StatusOK, store, store.Logout(c.Request().Context()), session.KeyUser)
}

// Cart returns the cart lines and derived totals.
//
// @Summary      Current cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  session.Snapshot
// @Router       /cart [get]
func (h *SessionHandler) Cart(c echo.Context) error {
	return h.Get(c)
}

// AddItem merges a product into the cart. Quantity defaults to 1.
//
// @Summary      Add to cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body  body      addCartItemRequest  true  "Cart line"
// @Success      200   {object}  session.Snapshot
// @Failure      400   {object}  errorResponse
// @Router       /cart/items [post]
func (h *SessionHandler) AddItem(c echo.Context) error {
	store, err := ctxStore(c)
	if err != nil {
		return err
	}

	var req addCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Price.IsNegative() {
		return echo.NewHTTPError(http.StatusBadRequest, "price must not be negative")
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	err = store.AddToCart(c.Request().Context(), domain.CartItem{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		Quantity: qty,
		Image:    req.Image,
		Category: req.Category,
		Grower:   req.Grower,
		Artist:   req.Artist,
		THC:      req.THC,
		CBD:      req.CBD,
		Strain:   req.Strain,
	})
	if err == nil || errors.Is(err, session.ErrPersistenceWriteFailed) {
		metrics.CartOperationsTotal.WithLabelValues("add").Inc()
	}
	return h.respond(c, http.StatusOK, store, err, session.KeyCart)
}

// UpdateItem sets a line's quantity; zero or less removes the line.
//
// @Summary      Update cart line quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        id    path      int                    true  "Product id"
// @Param        body  body      updateCartItemRequest  true  "New quantity"
// @Success      200   {object}  session.Snapshot
// @Failure      400   {object}  errorResponse
// @Router       /cart/items/{id} [patch]
func (h *SessionHandler) UpdateItem(c echo.Context) error {
	store, err := ctxStore(c)
	if err != nil {
		return err
	}
	id, err := itemID(c)
	if err != nil {
		return err
	}

	var req updateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = store.UpdateCartItemQuantity(c.Request().Context(), id, *req.Quantity)
	metrics.CartOperationsTotal.WithLabelValues("update").Inc()
	return h.respond(c, http.StatusOK, store, err, session.KeyCart)
}

// RemoveItem drops a line from the cart.
//
// @Summary      Remove cart line
// @Tags         cart
// @Produce      json
// @Param        id  path      int  true  "Product id"
// @Success      200 {object}  session.Snapshot
// @Router       /cart/items/{id} [delete]
func (h *SessionHandler) RemoveItem(c echo.Context) error {
	store, err := ctxStore(c)
	if err != nil {
		return err
	}
	id, err := itemID(c)
	if err != nil {
		return err
	}

	err = store.RemoveFromCart(c.Request().Context(), id)
	metrics.CartOperationsTotal.WithLabelValues("remove").Inc()
	return h.respond(c, http.StatusOK, store, err, session.KeyCart)
}

// Clear empties the cart.
//
// @Summary      Clear cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  session.Snapshot
// @Router       /cart [delete]
func (h *SessionHandler) Clear(c echo.Context) error {
	store, err := ctxStore(c)
	if err != nil {
		return err
	}
	err = store.ClearCart(c.Request().Context())
	metrics.CartOperationsTotal.WithLabelValues("clear").Inc()
	return h.respond(c, http.StatusOK, store, err, session.KeyCart)
}

// Checkout turns the session cart into an order and removes the ordered
// lines from the cart.
//
// @Summary      Checkout
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string  false  "Idempotency key to prevent duplicate orders"
// @Success      201              {object}  checkoutResponse
// @Success      200              {object}  checkoutResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Router       /cart/checkout [post]
func (h *SessionHandler) Checkout(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	store, err := ctxStore(c)
	if err != nil {
		return err
	}

	ordered := store.Cart()
	res, err := h.orders.Place(c.Request().Context(), ports.PlaceOrderInput{
		UserID:         claims.UserID,
		Items:          ordered,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	if res.AlreadyExisted {
		// The cart was settled by the request that created the order.
		metrics.OrdersPlacedTotal.WithLabelValues("replayed").Inc()
		return c.JSON(http.StatusOK, toCheckoutResponse(res))
	}
	metrics.OrdersPlacedTotal.WithLabelValues("created").Inc()

	// Only the ordered quantities leave the cart; lines added while the
	// order was being placed stay.
	if err := store.RemoveOrdered(c.Request().Context(), ordered); err != nil {
		if !errors.Is(err, session.ErrPersistenceWriteFailed) {
			return err
		}
		markNotPersisted(c, session.KeyCart)
	}

	return c.JSON(http.StatusCreated, toCheckoutResponse(res))
}

// respond renders the store snapshot. A write-through failure is tolerated:
// memory already holds the change, so the request succeeds and is flagged.
func (h *SessionHandler) respond(c echo.Context, code int, store *session.Store, err error, key string) error {
	if err != nil {
		if !errors.Is(err, session.ErrPersistenceWriteFailed) {
			return err
		}
		h.log.Warn().Err(err).Str("key", key).Msg("session change not persisted")
		markNotPersisted(c, key)
	}
	return c.JSON(code, store.Snapshot())
}

func markNotPersisted(c echo.Context, key string) {
	metrics.PersistenceFailuresTotal.WithLabelValues(key, "sync").Inc()
	c.Response().Header().Set(PersistedHeader, "false")
}

func itemID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "item id must be an integer")
	}
	return id, nil
}
