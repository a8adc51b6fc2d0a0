package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Fritte91/247LocalFinest/internal/core/domain"
	"github.com/Fritte91/247LocalFinest/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	count      int64
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) CountUsers(context.Context) (int64, error) {
	return s.count, nil
}

const validRegisterBody = `{"firstName":"Alice","lastName":"Green","email":"alice@example.com","password":"secret1",
"phoneNumber":"555-0100","dateOfBirth":"1990-04-20","address":"1 Main St"}`

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Role != domain.RoleUser {
				t.Fatalf("public registration must create a user, got role %q", in.Role)
			}
			return &domain.User{ID: "u1", FirstName: in.FirstName, Email: in.Email, Role: in.Role, PasswordHash: "hash"}, nil
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	rec, err := do(t, h.Register, call{method: http.MethodPost, target: "/auth/register", body: strings.NewReader(validRegisterBody)})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatal("password hash leaked into response")
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "alice@example.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, zerolog.Nop())

	_, err := do(t, h.Register, call{method: http.MethodPost, target: "/auth/register", body: strings.NewReader(`{"email":"alice@example.com"}`)})
	if httpCode(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	for _, field := range []string{"firstName", "lastName", "password", "phoneNumber", "dateOfBirth", "address"} {
		if !strings.Contains(err.Error(), field+" is required") {
			t.Errorf("error should list %s: %v", field, err)
		}
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	_, err := do(t, h.Register, call{method: http.MethodPost, target: "/auth/register", body: strings.NewReader(validRegisterBody)})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Signup(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
			return &domain.User{ID: "u1", Email: in.Email, Role: in.Role}, nil
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	rec, err := do(t, h.Signup, call{method: http.MethodPost, target: "/auth/signup", body: strings.NewReader(validRegisterBody)})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated || !strings.Contains(rec.Body.String(), "User created successfully") {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestAuthHandler_Login_SignsSessionIn(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (string, *domain.User, error) {
			return "jwt-token", &domain.User{ID: "u1", FirstName: "Alice", LastName: "Green", Email: email, Role: domain.RoleAdmin}, nil
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())
	m := newManager(nil)

	rec, err := do(t, h.Login, call{
		method:  http.MethodPost,
		target:  "/auth/login",
		body:    strings.NewReader(`{"email":"alice@example.com","password":"secret1"}`),
		session: m,
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "jwt-token" || resp.User.FullName != "Alice Green" {
		t.Fatalf("unexpected payload: %+v", resp)
	}

	store := m.Open(context.Background(), rec.Header().Get("X-Session-ID"))
	u, ok := store.User()
	if !ok || u.ID != "u1" || !store.IsAdmin() {
		t.Fatalf("session not signed in: %+v", u)
	}
}

func TestAuthHandler_Login_UnknownUserIsInvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			return "", nil, domain.ErrUserNotFound
		},
	}
	h := NewAuthHandler(stub, zerolog.Nop())

	_, err := do(t, h.Login, call{method: http.MethodPost, target: "/auth/login", body: strings.NewReader(`{"email":"ghost@example.com","password":"x"}`)})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
