package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/15palle/membership/internal/auth"
	"github.com/15palle/membership/internal/config"
	errs "github.com/15palle/membership/internal/errors"
	"github.com/15palle/membership/internal/model"
	notifierMocks "github.com/15palle/membership/internal/notifier/mocks"
	"github.com/15palle/membership/internal/repository"
	rpsMocks "github.com/15palle/membership/internal/repository/mocks"
	trxMocks "github.com/15palle/membership/pkg/db/transactor/mocks"
)

const (
	jwtAlgoEd25519 = "EdDSA"
	jwtIssuerClaim = "test-issuer"
	jwtTimeToLive  = 3 * time.Minute
)

const (
	refreshTokenMaxCount   = 2
	refreshTokenTimeToLive = 720 * time.Hour
)

var testAuthCtx = context.Background()
var testNow = time.Now().UTC()
var testPassword = "secret_password"
var testFingerprint = "87c37298-2f3d-40a1-9438-f45d2d819206"

var _, testPrivateKey, _ = ed25519.GenerateKey(rand.Reader)

var testJwtIssuer = auth.NewJwtIssuer(jwtIssuerClaim, jwt.GetSigningMethod(jwtAlgoEd25519), jwtTimeToLive, testPrivateKey)
var testRfrTknIssuer = auth.NewRefreshTokenIssuer(refreshTokenMaxCount, refreshTokenTimeToLive)

type authServiceTestSuite struct {
	suite.Suite
	authSvc          AuthService
	transactorMock   *trxMocks.Transactor
	userRpsMock      *rpsMocks.UserRepository
	customerRpsMock  *rpsMocks.CustomerRepository
	codeRpsMock      *rpsMocks.VerificationCodeRepository
	rfrTokenRpsMock  *rpsMocks.RefreshTokenRepository
	codeNotifierMock *notifierMocks.CodeNotifier
	ownerCfg         config.OwnerCfg
	testCustomer     *model.Customer
	testUser         *model.User
	testRfrToken     *auth.RefreshToken
}

func (s *authServiceTestSuite) SetupSuite() {
	s.transactorMock = trxMocks.NewTransactor(s.T())
	s.transactorMock.On(
		"WithinTransaction",
		mock.Anything,
		mock.AnythingOfType("func(context.Context) error"),
	).Return(func(ctx context.Context, txFunc func(ctx context.Context) error) error {
		return txFunc(ctx)
	})

	ownerHash, err := auth.GeneratePasswordHash(testPassword)
	s.Require().NoError(err)
	s.ownerCfg = config.OwnerCfg{
		ID:           "owner-001",
		Email:        "owner@15palle.it",
		Name:         "Club Owner",
		PasswordHash: ownerHash,
	}

	s.testCustomer = repository.SeedCustomers()[2]

	userHash, err := auth.GeneratePasswordHash(testPassword)
	s.Require().NoError(err)
	s.testUser = &model.User{
		ID:           "bdf2f837-75f6-462a-b9ec-5dfb2e8f8792",
		Email:        s.testCustomer.Email,
		PasswordHash: userHash,
	}

	s.testRfrToken = &auth.RefreshToken{
		ID:          "1165dfc0-2dd0-4bea-ac69-4462f1cacacf",
		UserID:      s.testCustomer.ID,
		Email:       s.testCustomer.Email,
		Name:        s.testCustomer.Name,
		Role:        auth.RoleCustomer,
		Fingerprint: testFingerprint,
		ExpiresIn:   int(refreshTokenTimeToLive.Seconds()),
		CreatedAt:   testNow,
	}
}

func (s *authServiceTestSuite) SetupTest() {
	t := s.T()
	s.userRpsMock = rpsMocks.NewUserRepository(t)
	s.customerRpsMock = rpsMocks.NewCustomerRepository(t)
	s.codeRpsMock = rpsMocks.NewVerificationCodeRepository(t)
	s.rfrTokenRpsMock = rpsMocks.NewRefreshTokenRepository(t)
	s.codeNotifierMock = notifierMocks.NewCodeNotifier(t)
	s.authSvc = NewAuthService(
		s.transactorMock,
		testJwtIssuer,
		testRfrTknIssuer,
		s.userRpsMock,
		s.customerRpsMock,
		s.codeRpsMock,
		s.rfrTokenRpsMock,
		s.codeNotifierMock,
		s.ownerCfg,
	)
}

func (s *authServiceTestSuite) TestSignupShortPassword() {
	s.T().Log("signup with password shorter than eight characters")
	{
		_, err := s.authSvc.Signup(testAuthCtx, s.testCustomer.Email, "short")
		s.Assert().IsType(&errs.ValidationErr{}, err, "validation error must be raised")
		s.userRpsMock.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
	}
}

func (s *authServiceTestSuite) TestSignupUnknownCustomer() {
	email := "nobody@example.com"

	s.customerRpsMock.On("FindByEmail", testAuthCtx, email).Return(nil, nil).Once()

	s.T().Logf("signup %s, but no customer carries this email", email)
	{
		_, err := s.authSvc.Signup(testAuthCtx, email, testPassword)
		s.Assert().IsType(&errs.ValidationErr{}, err, "validation error must be raised")
	}
}

func (s *authServiceTestSuite) TestSignupEmailReserved() {
	email := s.testCustomer.Email

	s.customerRpsMock.On("FindByEmail", testAuthCtx, email).Return(s.testCustomer, nil).Once()
	s.userRpsMock.On("FindByEmail", testAuthCtx, email).Return(s.testUser, nil).Once()

	s.T().Logf("signup %s, but account already exists", email)
	{
		_, err := s.authSvc.Signup(testAuthCtx, email, testPassword)
		s.Assert().IsType(&errs.ValidationErr{}, err, "validation error must be raised")
		s.userRpsMock.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
	}
}

func (s *authServiceTestSuite) TestSuccessfulSignup() {
	email := s.testCustomer.Email

	s.customerRpsMock.On("FindByEmail", testAuthCtx, email).Return(s.testCustomer, nil).Once()
	s.userRpsMock.On("FindByEmail", testAuthCtx, email).Return(nil, nil).Once()
	s.userRpsMock.On("Create", testAuthCtx, mock.AnythingOfType("*model.User")).Return(nil).Once()

	s.T().Logf("signup %s and it must be signed up successfully", email)
	{
		u, err := s.authSvc.Signup(testAuthCtx, email, testPassword)
		s.Require().NoError(err, "signup is correct but error was raised")
		s.Assert().NotEqual(testPassword, u.PasswordHash, "password must never be stored in plain text")
		s.Assert().NoError(auth.VerifyPassword(u.PasswordHash, testPassword), "stored hash must match the password")
	}
}

func (s *authServiceTestSuite) TestLoginCustomerBadEmail() {
	email := s.testCustomer.Email

	s.userRpsMock.On("FindByEmail", testAuthCtx, email).Return(nil, nil).Once()

	s.T().Logf("login %s but no account exists", email)
	{
		_, _, err := s.authSvc.LoginCustomer(testAuthCtx, email, testPassword, testFingerprint, testNow)
		s.Assert().IsType(&errs.UnauthorizedErr{}, err, "unauthorized error must be raised")
	}
}

func (s *authServiceTestSuite) TestLoginCustomerBadPassword() {
	email := s.testCustomer.Email

	s.userRpsMock.On("FindByEmail", testAuthCtx, email).Return(s.testUser, nil).Once()

	s.T().Logf("login %s but password is incorrect", email)
	{
		_, _, err := s.authSvc.LoginCustomer(testAuthCtx, email, "invalid_password", testFingerprint, testNow)
		s.Assert().IsType(&errs.UnauthorizedErr{}, err, "unauthorized error must be raised")
	}
}

func (s *authServiceTestSuite) TestLoginCustomerSuccessfully() {
	email := s.testCustomer.Email

	s.userRpsMock.On("FindByEmail", testAuthCtx, email).Return(s.testUser, nil).Once()
	s.customerRpsMock.On("FindByEmail", testAuthCtx, email).Return(s.testCustomer, nil).Once()
	s.rfrTokenRpsMock.On("FindTokensByUserID", testAuthCtx, s.testCustomer.ID).Return(nil, nil).Once()
	s.rfrTokenRpsMock.On("Create", testAuthCtx, mock.AnythingOfType("*auth.RefreshToken")).Return(nil).Once()

	s.T().Logf("login %s successfully with a customer session", email)
	{
		jwToken, rfrToken, err := s.authSvc.LoginCustomer(testAuthCtx, email, testPassword, testFingerprint, testNow)
		s.Require().NoError(err, "login is correct but error was raised")
		s.Assert().Equal(testNow.Add(jwtTimeToLive).Unix(), jwToken.ExpiresAt, "incorrect time to live was set for jwt")
		s.Assert().Equal(auth.RoleCustomer, rfrToken.Role, "session must carry the customer role")
		s.Assert().Equal(s.testCustomer.ID, rfrToken.UserID, "session must be bound to the customer id")
	}
}

func (s *authServiceTestSuite) TestLoginCustomerTokensRotated() {
	email := s.testCustomer.Email

	dbTokens := []*auth.RefreshToken{
		{ID: "af1adce5-51a4-4d2e-a6ba-da0e7009a1bf", UserID: s.testCustomer.ID, CreatedAt: testNow},
		{ID: "88a6a8ac-1104-41ae-b13c-c33deb5af5c2", UserID: s.testCustomer.ID, CreatedAt: testNow},
	}

	s.userRpsMock.On("FindByEmail", testAuthCtx, email).Return(s.testUser, nil).Once()
	s.customerRpsMock.On("FindByEmail", testAuthCtx, email).Return(s.testCustomer, nil).Once()
	s.rfrTokenRpsMock.On("FindTokensByUserID", testAuthCtx, s.testCustomer.ID).Return(dbTokens, nil).Once()
	s.rfrTokenRpsMock.On("DeleteByUserID", testAuthCtx, s.testCustomer.ID).Return(nil).Once()
	s.rfrTokenRpsMock.On("Create", testAuthCtx, mock.AnythingOfType("*auth.RefreshToken")).Return(nil).Once()

	s.T().Logf("login %s successfully, all previous tokens must be removed", email)
	{
		_, _, err := s.authSvc.LoginCustomer(testAuthCtx, email, testPassword, testFingerprint, testNow)
		s.Assert().NoError(err, "login is correct but error was raised")
		s.rfrTokenRpsMock.AssertCalled(s.T(), "DeleteByUserID", testAuthCtx, s.testCustomer.ID)
	}
}

func (s *authServiceTestSuite) TestLoginOwnerBadEmail() {
	s.T().Log("owner login with an email other than the configured one")
	{
		_, _, err := s.authSvc.LoginOwner(testAuthCtx, "someone@else.it", testPassword, testFingerprint, testNow)
		s.Assert().IsType(&errs.UnauthorizedErr{}, err, "unauthorized error must be raised")
	}
}

func (s *authServiceTestSuite) TestLoginOwnerBadPassword() {
	s.T().Log("owner login with incorrect password")
	{
		_, _, err := s.authSvc.LoginOwner(testAuthCtx, s.ownerCfg.Email, "invalid_password", testFingerprint, testNow)
		s.Assert().IsType(&errs.UnauthorizedErr{}, err, "unauthorized error must be raised")
	}
}

func (s *authServiceTestSuite) TestLoginOwnerSuccessfully() {
	s.rfrTokenRpsMock.On("FindTokensByUserID", testAuthCtx, s.ownerCfg.ID).Return(nil, nil).Once()
	s.rfrTokenRpsMock.On("Create", testAuthCtx, mock.AnythingOfType("*auth.RefreshToken")).Return(nil).Once()

	s.T().Log("owner login with the configured credentials")
	{
		_, rfrToken, err := s.authSvc.LoginOwner(testAuthCtx, s.ownerCfg.Email, testPassword, testFingerprint, testNow)
		s.Require().NoError(err, "owner login is correct but error was raised")
		s.Assert().Equal(auth.RoleOwner, rfrToken.Role, "session must carry the owner role")
		s.Assert().Equal(s.ownerCfg.ID, rfrToken.UserID, "session must be bound to the configured owner id")
	}
}

func (s *authServiceTestSuite) TestSendVerificationCode() {
	email := s.testCustomer.Email

	s.codeRpsMock.On("Store", testAuthCtx, email, mock.AnythingOfType("string")).Return(nil).Once()
	s.codeNotifierMock.On("SendVerificationCode", testAuthCtx, email, mock.AnythingOfType("string")).Return(nil).Once()

	s.T().Logf("a six digit code must be stored and handed to the notifier for %s", email)
	{
		code, err := s.authSvc.SendVerificationCode(testAuthCtx, email)
		s.Require().NoError(err, "no error must be raised")
		s.Assert().Len(code, 6, "code must be six digits")
	}
}

func (s *authServiceTestSuite) TestVerifyCodeMismatch() {
	email := s.testCustomer.Email

	s.codeRpsMock.On("Take", testAuthCtx, email).Return("654321", nil).Once()

	s.T().Log("presented code differs from the stored one")
	{
		_, _, err := s.authSvc.VerifyCode(testAuthCtx, email, "123456", testFingerprint, testNow)
		s.Assert().IsType(&errs.UnauthorizedErr{}, err, "unauthorized error must be raised")
	}
}

func (s *authServiceTestSuite) TestVerifyCodeExpired() {
	email := s.testCustomer.Email

	s.codeRpsMock.On("Take", testAuthCtx, email).Return("", nil).Once()

	s.T().Log("no code is stored anymore, it expired or was already used")
	{
		_, _, err := s.authSvc.VerifyCode(testAuthCtx, email, "123456", testFingerprint, testNow)
		s.Assert().IsType(&errs.UnauthorizedErr{}, err, "unauthorized error must be raised")
	}
}

func (s *authServiceTestSuite) TestVerifyCodeSuccessfully() {
	email := s.testCustomer.Email

	s.codeRpsMock.On("Take", testAuthCtx, email).Return("123456", nil).Once()
	s.customerRpsMock.On("FindByEmail", testAuthCtx, email).Return(s.testCustomer, nil).Once()
	s.rfrTokenRpsMock.On("FindTokensByUserID", testAuthCtx, s.testCustomer.ID).Return(nil, nil).Once()
	s.rfrTokenRpsMock.On("Create", testAuthCtx, mock.AnythingOfType("*auth.RefreshToken")).Return(nil).Once()

	s.T().Logf("code matches, %s must receive a customer session", email)
	{
		jwToken, rfrToken, err := s.authSvc.VerifyCode(testAuthCtx, email, "123456", testFingerprint, testNow)
		s.Require().NoError(err, "code is correct but error was raised")
		s.Assert().Equal(testNow.Add(jwtTimeToLive).Unix(), jwToken.ExpiresAt, "incorrect time to live was set for jwt")
		s.Assert().Equal(auth.RoleCustomer, rfrToken.Role, "session must carry the customer role")
	}
}

func (s *authServiceTestSuite) TestRefreshInvalidToken() {
	s.rfrTokenRpsMock.On("FindByID", testAuthCtx, s.testRfrToken.ID).Return(nil, nil).Once()

	s.T().Log("refresh with invalid token")
	{
		_, _, err := s.authSvc.Refresh(testAuthCtx, s.testRfrToken.ID, testFingerprint, testNow)
		s.Assert().IsType(&errs.UnauthorizedErr{}, err, "unauthorized error must be raised")
	}
}

func (s *authServiceTestSuite) TestRefreshInvalidFingerprint() {
	invalidFingerprint := "461b07b5-3373-495d-b26b-d689a0c8a557"

	s.rfrTokenRpsMock.On("FindByID", testAuthCtx, s.testRfrToken.ID).Return(s.testRfrToken, nil).Once()
	s.rfrTokenRpsMock.On("DeleteByID", testAuthCtx, s.testRfrToken.ID).Return(nil).Once()

	s.T().Log("refresh with invalid fingerprint")
	{
		_, _, err := s.authSvc.Refresh(testAuthCtx, s.testRfrToken.ID, invalidFingerprint, testNow)
		s.Assert().IsType(&errs.UnauthorizedErr{}, err, "unauthorized error must be raised")
	}
}

func (s *authServiceTestSuite) TestRefreshExpiredToken() {
	futureNow := testNow.Add(725 * time.Hour)

	s.rfrTokenRpsMock.On("FindByID", testAuthCtx, s.testRfrToken.ID).Return(s.testRfrToken, nil).Once()
	s.rfrTokenRpsMock.On("DeleteByID", testAuthCtx, s.testRfrToken.ID).Return(nil).Once()

	s.T().Log("refresh with already expired token")
	{
		_, _, err := s.authSvc.Refresh(testAuthCtx, s.testRfrToken.ID, testFingerprint, futureNow)
		s.Assert().IsType(&errs.UnauthorizedErr{}, err, "unauthorized error must be raised")
	}
}

func (s *authServiceTestSuite) TestRefreshSuccessful() {
	s.rfrTokenRpsMock.On("FindByID", testAuthCtx, s.testRfrToken.ID).Return(s.testRfrToken, nil).Once()
	s.rfrTokenRpsMock.On("DeleteByID", testAuthCtx, s.testRfrToken.ID).Return(nil).Once()
	s.rfrTokenRpsMock.On("FindTokensByUserID", testAuthCtx, s.testRfrToken.UserID).Return(nil, nil).Once()
	s.rfrTokenRpsMock.On("Create", testAuthCtx, mock.AnythingOfType("*auth.RefreshToken")).Return(nil).Once()

	s.T().Log("refresh rotates the token and keeps the session identity")
	{
		jwToken, rfrToken, err := s.authSvc.Refresh(testAuthCtx, s.testRfrToken.ID, testFingerprint, testNow)
		s.Require().NoError(err, "refresh request is correct but error was raised")
		s.Assert().Equal(testNow.Add(jwtTimeToLive).Unix(), jwToken.ExpiresAt, "incorrect time to live was set for jwt")
		s.Assert().Equal(s.testRfrToken.Role, rfrToken.Role, "role must survive the rotation")
		s.Assert().NotEqual(s.testRfrToken.ID, rfrToken.ID, "a fresh token id must be issued")
	}
}

func (s *authServiceTestSuite) TestLogout() {
	s.rfrTokenRpsMock.On("DeleteByID", testAuthCtx, s.testRfrToken.ID).Return(nil).Once()

	s.T().Log("logout removes the refresh token")
	{
		err := s.authSvc.Logout(testAuthCtx, s.testRfrToken.ID)
		s.Assert().NoError(err, "logout request is correct but error was raised")
	}
}

// start auth service test suite
func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(authServiceTestSuite))
}
