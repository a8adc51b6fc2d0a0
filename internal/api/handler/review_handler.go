package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Fritte91/247LocalFinest/internal/core/domain"
	"github.com/Fritte91/247LocalFinest/internal/core/ports"
)

type ReviewHandler struct {
	service ports.ReviewService
}

func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// List handles GET /reviews?productId=.
//
// @Summary      List a product's reviews
// @Tags         reviews
// @Produce      json
// @Param        productId  query     string  true  "Product id"
// @Success      200        {array}   domain.Review
// @Failure      400        {object}  errorResponse
// @Router       /reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	productID := c.QueryParam("productId")
	if productID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "productId is required")
	}
	reviews, err := h.service.ListByProduct(c.Request().Context(), productID)
	if err != nil {
		return err
	}
	if reviews == nil {
		reviews = []*domain.Review{}
	}
	return c.JSON(http.StatusOK, reviews)
}

// Create handles POST /reviews.
//
// @Summary      Review a product
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReviewRequest  true  "Review"
// @Success      201   {object}  domain.Review
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	r, err := h.service.Create(c.Request().Context(), ports.CreateReviewInput{
		ProductID: req.ProductID,
		UserID:    claims.UserID,
		UserName:  claims.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, r)
}

// Update handles PUT /reviews. Only the author may change a review.
//
// @Summary      Edit a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateReviewRequest  true  "Fields to change"
// @Success      200   {object}  domain.Review
// @Failure      404   {object}  errorResponse
// @Router       /reviews [put]
func (h *ReviewHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req updateReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	r, err := h.service.Update(c.Request().Context(), ports.UpdateReviewInput{
		ID:      req.ID,
		UserID:  claims.UserID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// Delete handles DELETE /reviews?id=. Only the author may delete a review.
//
// @Summary      Delete a review
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id   query     string  true  "Review id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /reviews [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	id := c.QueryParam("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "review id is required")
	}
	if err := h.service.Delete(c.Request().Context(), id, claims.UserID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Review deleted successfully"})
}
