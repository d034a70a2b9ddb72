package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/15palle/membership/internal/auth"
	"github.com/15palle/membership/internal/config"
	errs "github.com/15palle/membership/internal/errors"
	"github.com/15palle/membership/internal/model"
	"github.com/15palle/membership/internal/notifier"
	"github.com/15palle/membership/internal/repository"
	"github.com/15palle/membership/pkg/db/transactor"
)

const verificationCodeMax = 1000000

// AuthService resolves caller identity and issues role-scoped sessions.
// Customers authenticate with a password set at signup or with a one-time
// emailed code; the owner identity comes from configuration.
type AuthService interface {
	Signup(ctx context.Context, email string, password string) (*model.User, error)
	LoginCustomer(ctx context.Context, email, password, fingerprint string, at time.Time) (*auth.Jwt, *auth.RefreshToken, error)
	LoginOwner(ctx context.Context, email, password, fingerprint string, at time.Time) (*auth.Jwt, *auth.RefreshToken, error)
	SendVerificationCode(ctx context.Context, email string) (string, error)
	VerifyCode(ctx context.Context, email, code, fingerprint string, at time.Time) (*auth.Jwt, *auth.RefreshToken, error)
	Refresh(ctx context.Context, tokenID, fingerprint string, at time.Time) (*auth.Jwt, *auth.RefreshToken, error)
	Logout(ctx context.Context, tokenID string) error
}

type authService struct {
	trx          transactor.Transactor
	userRepo     repository.UserRepository
	customerRepo repository.CustomerRepository
	codeRepo     repository.VerificationCodeRepository
	rfrTknRepo   repository.RefreshTokenRepository
	jwtIssuer    *auth.JwtIssuer
	rfrTknIssuer *auth.RefreshTokenIssuer
	codeNotifier notifier.CodeNotifier
	ownerCfg     config.OwnerCfg
}

// NewAuthService builds AuthService
func NewAuthService(
	trx transactor.Transactor,
	jwtIssuer *auth.JwtIssuer,
	rfrTknIssuer *auth.RefreshTokenIssuer,
	userRepo repository.UserRepository,
	customerRepo repository.CustomerRepository,
	codeRepo repository.VerificationCodeRepository,
	rfrTknRepo repository.RefreshTokenRepository,
	codeNotifier notifier.CodeNotifier,
	ownerCfg config.OwnerCfg,
) AuthService {
	return &authService{
		trx:          trx,
		jwtIssuer:    jwtIssuer,
		rfrTknIssuer: rfrTknIssuer,
		userRepo:     userRepo,
		customerRepo: customerRepo,
		codeRepo:     codeRepo,
		rfrTknRepo:   rfrTknRepo,
		codeNotifier: codeNotifier,
		ownerCfg:     ownerCfg,
	}
}

// Signup sets a password for an existing customer email
func (s *authService) Signup(ctx context.Context, email string, password string) (*model.User, error) {
	if len(password) < auth.MinPasswordLength {
		return nil, errs.NewValidationErr("password", fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength))
	}

	customer, err := s.customerRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if customer == nil {
		return nil, errs.NewValidationErr("email", "no customer is registered with this email")
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, errs.NewValidationErr("email", "account already exists")
	}

	hash, err := auth.GeneratePasswordHash(password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *authService) LoginCustomer(ctx context.Context, email, password, fingerprint string, at time.Time) (*auth.Jwt, *auth.RefreshToken, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}

	if user == nil {
		return nil, nil, errs.NewUnauthorizedErr("invalid credentials")
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, nil, errs.NewUnauthorizedErr("invalid credentials")
	}

	return s.customerSession(ctx, email, fingerprint, at)
}

func (s *authService) LoginOwner(ctx context.Context, email, password, fingerprint string, at time.Time) (*auth.Jwt, *auth.RefreshToken, error) {
	if email != s.ownerCfg.Email {
		return nil, nil, errs.NewUnauthorizedErr("invalid credentials")
	}

	if err := auth.VerifyPassword(s.ownerCfg.PasswordHash, password); err != nil {
		return nil, nil, errs.NewUnauthorizedErr("invalid credentials")
	}

	ident := auth.Identity{
		ID:    s.ownerCfg.ID,
		Email: s.ownerCfg.Email,
		Name:  s.ownerCfg.Name,
		Role:  auth.RoleOwner,
	}
	return s.issueSession(ctx, ident, fingerprint, at)
}

// SendVerificationCode issues a one-time code for email and hands it to
// the notifier. A code is stored even when no customer matches, so the
// endpoint does not reveal which emails are registered.
func (s *authService) SendVerificationCode(ctx context.Context, email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(verificationCodeMax))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64())

	if err := s.codeRepo.Store(ctx, email, code); err != nil {
		return "", err
	}

	if err := s.codeNotifier.SendVerificationCode(ctx, email, code); err != nil {
		return "", err
	}
	return code, nil
}

func (s *authService) VerifyCode(ctx context.Context, email, code, fingerprint string, at time.Time) (*auth.Jwt, *auth.RefreshToken, error) {
	stored, err := s.codeRepo.Take(ctx, email)
	if err != nil {
		return nil, nil, err
	}

	if stored == "" || stored != code {
		return nil, nil, errs.NewUnauthorizedErr("invalid or expired code")
	}

	return s.customerSession(ctx, email, fingerprint, at)
}

func (s *authService) Refresh(ctx context.Context, tokenID, fingerprint string, at time.Time) (*auth.Jwt, *auth.RefreshToken, error) {
	rfrToken, err := s.rfrTknRepo.FindByID(ctx, tokenID)
	if err != nil {
		return nil, nil, err
	}

	if rfrToken == nil {
		return nil, nil, errs.NewUnauthorizedErr("non-existent refresh token provided")
	}

	if err := s.rfrTknRepo.DeleteByID(ctx, rfrToken.ID); err != nil {
		return nil, nil, err
	}

	if err := rfrToken.Verify(fingerprint, at); err != nil {
		return nil, nil, errs.NewUnauthorizedErr(err.Error())
	}

	return s.issueSession(ctx, rfrToken.Identity(), fingerprint, at)
}

func (s *authService) Logout(ctx context.Context, tokenID string) error {
	if err := s.rfrTknRepo.DeleteByID(ctx, tokenID); err != nil {
		return err
	}
	return nil
}

func (s *authService) customerSession(ctx context.Context, email, fingerprint string, at time.Time) (*auth.Jwt, *auth.RefreshToken, error) {
	customer, err := s.customerRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}

	if customer == nil {
		return nil, nil, errs.NewUnauthorizedErr("invalid credentials")
	}

	ident := auth.Identity{
		ID:    customer.ID,
		Email: customer.Email,
		Name:  customer.Name,
		Role:  auth.RoleCustomer,
	}
	return s.issueSession(ctx, ident, fingerprint, at)
}

// issueSession signs a jwt and rotates refresh tokens atomically, so a
// crash between delete and create cannot leave the user over the token
// limit
func (s *authService) issueSession(ctx context.Context, ident auth.Identity, fingerprint string, at time.Time) (*auth.Jwt, *auth.RefreshToken, error) {
	jwtToken, err := s.jwtIssuer.Sign(ident, at)
	if err != nil {
		return nil, nil, err
	}

	rfrToken := s.rfrTknIssuer.Sign(ident, fingerprint, at)

	err = s.trx.WithinTransaction(ctx, func(ctx context.Context) error {
		userTkns, err := s.rfrTknRepo.FindTokensByUserID(ctx, ident.ID)
		if err != nil {
			return err
		}

		if len(userTkns) >= s.rfrTknIssuer.TokensMaxCount() {
			if err := s.rfrTknRepo.DeleteByUserID(ctx, ident.ID); err != nil {
				return err
			}
		}

		return s.rfrTknRepo.Create(ctx, rfrToken)
	})
	if err != nil {
		return nil, nil, err
	}

	return jwtToken, rfrToken, nil
}
