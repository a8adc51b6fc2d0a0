package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Fritte91/247LocalFinest/internal/api/middleware"
	"github.com/Fritte91/247LocalFinest/internal/core/ports"
	"github.com/Fritte91/247LocalFinest/internal/core/session"
)

// ctxClaims returns the claims injected by the Auth middleware. A missing
// subject means the middleware did not run; reject with 401.
func ctxClaims(c echo.Context) (ports.Claims, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok || claims.UserID == "" {
		return ports.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}

// ctxStore returns the session store attached by the Session middleware.
func ctxStore(c echo.Context) (*session.Store, error) {
	s, ok := middleware.StoreFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session not available")
	}
	return s, nil
}
