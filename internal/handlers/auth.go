package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/15palle/membership/internal/auth"
	"github.com/15palle/membership/internal/service"
)

// the cookie never travels outside the auth endpoints
const refreshTokenCookiePath = "/api/auth"

type session struct {
	Token     string `json:"accessToken"`
	ExpiresAt int64  `json:"expiresAt"`
}

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type newUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type login struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Fingerprint string `json:"fingerprint" validate:"required"`
}

type sendCode struct {
	Email string `json:"email" validate:"required,email"`
}

type codeIssued struct {
	Sent bool   `json:"sent"`
	Code string `json:"code,omitempty"`
}

type verifyCode struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
	Fingerprint string `json:"fingerprint" validate:"required"`
}

type refresh struct {
	Fingerprint string `json:"fingerprint" validate:"required"`
}

// AuthCfg is the http-level auth configuration. ExposeCodes echoes issued
// verification codes back in the response and must stay off outside demos.
type AuthCfg struct {
	Https              bool
	RefreshTokenCookie string
	ExposeCodes        bool
}

// AuthHTTPHandler is http handler for auth endpoint. The refresh token
// travels in an http-only cookie scoped to the auth group, never in the
// response body.
type AuthHTTPHandler struct {
	authSvc service.AuthService
	authCfg AuthCfg
}

// NewAuthHTTPHandler builds new AuthHTTPHandler
func NewAuthHTTPHandler(authSvc service.AuthService, authCfg AuthCfg) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		authSvc: authSvc,
		authCfg: authCfg,
	}
}

// Signup sets a password for an existing customer email
// @Summary     Signup customer account
// @Description Creates login credentials for a registered customer
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       signup body	    signup true "Credentials"
// @Success     200    {object} newUser
// @Failure     400    {object} echo.HTTPError
// @Router      /api/auth/signup [post]
func (h *AuthHTTPHandler) Signup(c echo.Context) error {
	var su signup
	if err := c.Bind(&su); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&su); err != nil {
		return err
	}

	u, err := h.authSvc.Signup(c.Request().Context(), su.Email, su.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &newUser{
		ID:    u.ID,
		Email: u.Email,
	})
}

// LoginCustomer logins customer by email and password
// @Summary     Customer login
// @Description Verifies customer credentials, signs access and refresh token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       login  body	    login true "Customer credentials"
// @Success     200    {object} session
// @Failure     401    {object} echo.HTTPError
// @Router      /api/auth/login [post]
func (h *AuthHTTPHandler) LoginCustomer(c echo.Context) error {
	var lgn login
	if err := c.Bind(&lgn); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&lgn); err != nil {
		return err
	}

	jwt, rfrToken, err := h.authSvc.LoginCustomer(c.Request().Context(), lgn.Email, lgn.Password, lgn.Fingerprint, time.Now().UTC())
	if err != nil {
		return err
	}

	c.SetCookie(h.refreshTokenCookie(rfrToken.ID, rfrToken.ExpiresIn))

	return c.JSON(http.StatusOK, newSession(jwt))
}

// LoginOwner logins the club owner
// @Summary     Owner login
// @Description Verifies owner credentials, signs access and refresh token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       login  body	    login true "Owner credentials"
// @Success     200    {object} session
// @Failure     401    {object} echo.HTTPError
// @Router      /api/auth/login/owner [post]
func (h *AuthHTTPHandler) LoginOwner(c echo.Context) error {
	var lgn login
	if err := c.Bind(&lgn); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&lgn); err != nil {
		return err
	}

	jwt, rfrToken, err := h.authSvc.LoginOwner(c.Request().Context(), lgn.Email, lgn.Password, lgn.Fingerprint, time.Now().UTC())
	if err != nil {
		return err
	}

	c.SetCookie(h.refreshTokenCookie(rfrToken.ID, rfrToken.ExpiresIn))

	return c.JSON(http.StatusOK, newSession(jwt))
}

// SendCode issues a one-time login code for email
// @Summary     Request login code
// @Description Issues a short-lived single-use login code delivered by email
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       sendCode body	  sendCode true "Customer email"
// @Success     200      {object} codeIssued
// @Failure     400      {object} echo.HTTPError
// @Router      /api/auth/code [post]
func (h *AuthHTTPHandler) SendCode(c echo.Context) error {
	var sc sendCode
	if err := c.Bind(&sc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&sc); err != nil {
		return err
	}

	code, err := h.authSvc.SendVerificationCode(c.Request().Context(), sc.Email)
	if err != nil {
		return err
	}

	issued := codeIssued{Sent: true}
	if h.authCfg.ExposeCodes {
		issued.Code = code
	}
	return c.JSON(http.StatusOK, &issued)
}

// VerifyCode completes the code login flow
// @Summary     Login with code
// @Description Exchanges a pending login code for a customer session
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       verifyCode body	    verifyCode true "Email and code"
// @Success     200        {object} session
// @Failure     401        {object} echo.HTTPError
// @Router      /api/auth/code/verify [post]
func (h *AuthHTTPHandler) VerifyCode(c echo.Context) error {
	var vc verifyCode
	if err := c.Bind(&vc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&vc); err != nil {
		return err
	}

	jwt, rfrToken, err := h.authSvc.VerifyCode(c.Request().Context(), vc.Email, vc.Code, vc.Fingerprint, time.Now().UTC())
	if err != nil {
		return err
	}

	c.SetCookie(h.refreshTokenCookie(rfrToken.ID, rfrToken.ExpiresIn))

	return c.JSON(http.StatusOK, newSession(jwt))
}

// Refresh refreshes user session
// @Summary     Refresh auth
// @Description Signs new access and refresh token, rotates the session cookie
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       refresh body	 refresh true "Client fingerprint"
// @Success     200     {object} session
// @Failure     401     {object} echo.HTTPError
// @Router      /api/auth/refresh [post]
func (h *AuthHTTPHandler) Refresh(c echo.Context) error {
	tknCookie, err := c.Cookie(h.authCfg.RefreshTokenCookie)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "refresh token cookie is missing - you are not logged in")
	}

	var r refresh
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&r); err != nil {
		return err
	}

	jwt, rfrToken, err := h.authSvc.Refresh(c.Request().Context(), tknCookie.Value, r.Fingerprint, time.Now().UTC())
	if err != nil {
		return err
	}

	c.SetCookie(h.refreshTokenCookie(rfrToken.ID, rfrToken.ExpiresIn))

	return c.JSON(http.StatusOK, newSession(jwt))
}

// Logout logouts user
// @Summary     Logout user
// @Description Discards the session refresh token and expires its cookie
// @Tags        auth
// @Success     200 "Successful status code"
// @Failure     400 {object} echo.HTTPError
// @Router      /api/auth/logout [post]
func (h *AuthHTTPHandler) Logout(c echo.Context) error {
	tknCookie, err := c.Cookie(h.authCfg.RefreshTokenCookie)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "refresh token cookie is missing - you are not logged in")
	}

	if err := h.authSvc.Logout(c.Request().Context(), tknCookie.Value); err != nil {
		return err
	}

	tknCookie.MaxAge = -1
	tknCookie.Path = refreshTokenCookiePath
	c.SetCookie(tknCookie)

	return c.NoContent(http.StatusOK)
}

// Me returns the caller identity resolved from the access token
// @Summary     Current session
// @Description Returns id, email, name and role of the authenticated caller
// @Tags        auth
// @Security	ApiKeyAuth
// @Produce     json
// @Success     200 {object} auth.Identity
// @Failure     401 {object} echo.HTTPError
// @Router      /api/auth/me [get]
func (h *AuthHTTPHandler) Me(c echo.Context) error {
	ident, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return c.JSON(http.StatusOK, &ident)
}

func (h *AuthHTTPHandler) refreshTokenCookie(tknID string, expiresIn int) *http.Cookie {
	return &http.Cookie{
		Name:     h.authCfg.RefreshTokenCookie,
		Value:    tknID,
		Path:     refreshTokenCookiePath,
		MaxAge:   expiresIn,
		HttpOnly: true,
		Secure:   h.authCfg.Https,
	}
}

func newSession(jwt *auth.Jwt) *session {
	return &session{
		Token:     jwt.Signed,
		ExpiresAt: jwt.ExpiresAt,
	}
}
