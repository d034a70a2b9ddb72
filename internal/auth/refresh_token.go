package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidFingerprint is raised when refresh token is presented from another client
var ErrInvalidFingerprint = errors.New("invalid fingerprint for refresh token provided")

// ErrRefreshTokenExpired is raised when refresh token lifetime is over
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// RefreshToken is a persisted long-lived session handle. It keeps the full
// identity so owner sessions survive refresh without a backing user row.
type RefreshToken struct {
	ID          string
	UserID      string
	Email       string
	Name        string
	Role        Role
	Fingerprint string
	ExpiresIn   int
	CreatedAt   time.Time
}

// Identity rebuilds the session identity stored with the token
func (r RefreshToken) Identity() Identity {
	return Identity{
		ID:    r.UserID,
		Email: r.Email,
		Name:  r.Name,
		Role:  r.Role,
	}
}

// Verify checks token is still usable by the presenting client
func (r RefreshToken) Verify(fingerprint string, now time.Time) error {
	if r.Fingerprint != fingerprint {
		return ErrInvalidFingerprint
	}

	if r.CreatedAt.Add(time.Duration(r.ExpiresIn) * time.Second).Before(now) {
		return ErrRefreshTokenExpired
	}
	return nil
}

// RefreshTokenIssuer issues refresh tokens according to config
type RefreshTokenIssuer struct {
	maxCount          int
	timeToLiveSeconds int
}

// NewRefreshTokenIssuer builds RefreshTokenIssuer
func NewRefreshTokenIssuer(maxCount int, ttl time.Duration) *RefreshTokenIssuer {
	return &RefreshTokenIssuer{
		maxCount:          maxCount,
		timeToLiveSeconds: int(ttl.Seconds()),
	}
}

// Sign issues new refresh token bound to identity and client fingerprint
func (r *RefreshTokenIssuer) Sign(ident Identity, fingerprint string, at time.Time) *RefreshToken {
	return &RefreshToken{
		ID:          uuid.NewString(),
		UserID:      ident.ID,
		Email:       ident.Email,
		Name:        ident.Name,
		Role:        ident.Role,
		Fingerprint: fingerprint,
		ExpiresIn:   r.timeToLiveSeconds,
		CreatedAt:   at,
	}
}

// TokensMaxCount is how many live tokens a single user may hold
func (r *RefreshTokenIssuer) TokensMaxCount() int {
	return r.maxCount
}
