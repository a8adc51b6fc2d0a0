package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Fritte91/247LocalFinest/internal/core/ports"
)

const claimsKey = "claims"

// Auth validates the bearer JWT and injects its claims into the context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := parseToken(parts[1], jwtSecret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

func parseToken(raw, secret string) (ports.Claims, error) {
	mc := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, mc, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return ports.Claims{}, jwt.ErrTokenInvalidClaims
	}

	sub, _ := mc.GetSubject()
	claims := ports.Claims{UserID: sub}
	claims.Email, _ = mc["email"].(string)
	claims.Name, _ = mc["name"].(string)
	claims.Role, _ = mc["role"].(string)
	if claims.UserID == "" || claims.Role == "" {
		return ports.Claims{}, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// ClaimsFrom returns the claims set by Auth.
func ClaimsFrom(c echo.Context) (ports.Claims, bool) {
	claims, ok := c.Get(claimsKey).(ports.Claims)
	return claims, ok
}
