package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Fritte91/247LocalFinest/internal/core/session"
)

const (
	// SessionHeader carries the session id for clients that do not keep
	// cookies. It is echoed on every response.
	SessionHeader = "X-Session-ID"
	sessionKey    = "session"
)

// SessionOptions controls the session cookie.
type SessionOptions struct {
	CookieName string
	Secure     bool
	MaxAge     time.Duration
}

// Session attaches the caller's session store to the context. The id comes
// from the X-Session-ID header or the session cookie; a missing or malformed
// id starts a new session.
func Session(m *session.Manager, opts SessionOptions) echo.MiddlewareFunc {
	if opts.CookieName == "" {
		opts.CookieName = "lf_session"
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := sessionID(c, opts.CookieName)
			if !ok {
				id = uuid.NewString()
			}

			c.SetCookie(&http.Cookie{
				Name:     opts.CookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(opts.MaxAge / time.Second),
				HttpOnly: true,
				Secure:   opts.Secure,
				SameSite: http.SameSiteLaxMode,
			})
			c.Response().Header().Set(SessionHeader, id)

			store, release := m.Acquire(c.Request().Context(), id)
			defer release()
			c.Set(sessionKey, store)
			return next(c)
		}
	}
}

func sessionID(c echo.Context, cookieName string) (string, bool) {
	raw := c.Request().Header.Get(SessionHeader)
	if raw == "" {
		if ck, err := c.Cookie(cookieName); err == nil {
			raw = ck.Value
		}
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// StoreFrom returns the store set by Session.
func StoreFrom(c echo.Context) (*session.Store, bool) {
	s, ok := c.Get(sessionKey).(*session.Store)
	return s, ok && s != nil
}
