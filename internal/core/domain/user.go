package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ValidRole reports whether role is one the storefront knows about.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// User is the durable account record kept in the account store.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PhoneNumber  string    `json:"phoneNumber,omitempty"`
	DateOfBirth  string    `json:"dateOfBirth,omitempty"`
	Address      string    `json:"address,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FullName joins first and last name, skipping empty parts.
func (u User) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// Identity projects the account into the value a session holds.
func (u User) Identity() Identity {
	return Identity{
		ID:       u.ID,
		FullName: u.FullName(),
		Email:    u.Email,
		Role:     u.Role,
	}
}

// Identity is who is using a session right now. It is replaced wholesale on
// login and never patched field by field.
type Identity struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// IsAdmin is a display hint only; privileged calls are authorized from
// verified token claims.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
