package ports

import (
	"context"

	"github.com/Fritte91/247LocalFinest/internal/core/domain"
)

// RegisterInput carries the account fields collected by the sign-up form.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	PhoneNumber string
	DateOfBirth string
	Address     string
	Role        string
}

// Claims is what a verified access token says about its bearer.
type Claims struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	CountUsers(ctx context.Context) (int64, error)
}
