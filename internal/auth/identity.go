package auth

import (
	"context"

	errs "github.com/15palle/membership/internal/errors"
)

// Role defines which operations a session is permitted to call
type Role string

const (
	// RoleCustomer can read its own record and badge
	RoleCustomer Role = "customer"
	// RoleOwner can query the directory and mutate customers
	RoleOwner Role = "owner"
)

// Identity is the authenticated caller bound to the current request
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

type identityKey struct{}

// WithIdentity binds identity to ctx
func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, ident)
}

// IdentityFromContext extracts the caller identity bound by the middleware
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityKey{}).(Identity)
	return ident, ok
}

// RequireRole enforces the authorization boundary inside services, so the
// policy holds even for callers which bypass the HTTP middleware
func RequireRole(ctx context.Context, role Role) (Identity, error) {
	ident, ok := IdentityFromContext(ctx)
	if !ok {
		return Identity{}, errs.NewUnauthorizedErr("authentication required")
	}

	if ident.Role != role {
		return ident, errs.NewForbiddenErr("operation is not permitted for role " + string(ident.Role))
	}
	return ident, nil
}
