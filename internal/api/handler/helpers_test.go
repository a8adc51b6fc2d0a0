package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Fritte91/247LocalFinest/internal/api/middleware"
	"github.com/Fritte91/247LocalFinest/internal/core/session"
)

const testSecret = "test-secret"

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func bearer(t *testing.T, userID, role string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": userID + "@example.com",
		"name":  "Test " + userID,
		"role":  role,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + signed
}

type call struct {
	method  string
	target  string
	body    io.Reader
	headers map[string]string
	params  map[string]string
	auth    string
	session *session.Manager
}

// do runs h behind the Session (when a manager is given) and Auth (when a
// token is given) middleware and returns the recorder and the handler error.
func do(t *testing.T, h echo.HandlerFunc, cl call) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := newTestEcho()
	req := httptest.NewRequest(cl.method, cl.target, cl.body)
	if cl.body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range cl.headers {
		req.Header.Set(k, v)
	}
	if cl.auth != "" {
		req.Header.Set("Authorization", cl.auth)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range cl.params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}

	if cl.auth != "" {
		h = middleware.Auth(testSecret)(h)
	}
	if cl.session != nil {
		h = middleware.Session(cl.session, middleware.SessionOptions{MaxAge: time.Hour})(h)
	}
	return rec, h(c)
}

func httpCode(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return 0
}

func newManager(b session.Bridge) *session.Manager {
	if b == nil {
		b = session.NewMemoryBridge()
	}
	return session.NewManager(b, zerolog.Nop())
}

// failingBridge accepts reads and rejects every write.
type failingBridge struct{ session.MemoryBridge }

func (f *failingBridge) Write(context.Context, string, []byte) error {
	return errors.New("backend down")
}

func (f *failingBridge) Delete(context.Context, string) error {
	return errors.New("backend down")
}
