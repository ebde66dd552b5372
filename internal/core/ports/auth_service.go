package ports

import (
	"context"

	"github.com/restauranthub/inventory-system/internal/core/domain"
)

// SignupInput carries the fields of POST /api/auth/signup.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	// Role is the wire name; empty means staff.
	Role string
}

// AuthResult is returned after a successful signup or login.
type AuthResult struct {
	User  *domain.User
	Token string
}

type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

// IdentityResolver turns a verified user id into the acting identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, userID string) (domain.Identity, error)
}
