package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/15palle/membership/internal/auth"
	errs "github.com/15palle/membership/internal/errors"
	"github.com/15palle/membership/internal/model"
	"github.com/15palle/membership/internal/repository"
	svcMocks "github.com/15palle/membership/internal/service/mocks"
	"github.com/15palle/membership/internal/validation"
)

const (
	testEmail       = "luca.ferrari@example.com"
	testFingerprint = "96b46194-5ba5-4aa5-a342-c1075354427e"
	testPassword    = "secret_password"
	testRfrTokenID  = "1165dfc0-2dd0-4bea-ac69-4462f1cacacf"
	testCookieName  = "refresh-token"
)

var testJwt = &auth.Jwt{
	Signed:    "signed.jwt.token",
	ExpiresAt: time.Now().UTC().Add(3 * time.Minute).Unix(),
}

var testRfrToken = &auth.RefreshToken{
	ID:          testRfrTokenID,
	UserID:      "cust-003",
	Email:       testEmail,
	Name:        "Luca Ferrari",
	Role:        auth.RoleCustomer,
	Fingerprint: testFingerprint,
	ExpiresIn:   2592000,
}

type handlersTestSuite struct {
	suite.Suite
	app             *echo.Echo
	authSvcMock     *svcMocks.AuthService
	customerSvcMock *svcMocks.CustomerService
	seed            []*model.Customer
}

func (s *handlersTestSuite) SetupSuite() {
	enLocale := en.New()
	unvTranslator := ut.New(enLocale, enLocale)
	trans, ok := unvTranslator.GetTranslator("en")
	if !ok {
		s.Require().Fail("failed to build echo validator because of missing en translations")
	}

	s.app = echo.New()
	s.app.Validator = validation.Echo(validator.New(), trans)

	s.seed = repository.SeedCustomers()
}

func (s *handlersTestSuite) SetupTest() {
	t := s.T()
	s.authSvcMock = svcMocks.NewAuthService(t)
	s.customerSvcMock = svcMocks.NewCustomerService(t)
}

//nolint:funlen // function contains a lot of inlined tests
func (s *handlersTestSuite) TestAuthHTTPHandler() {
	t := s.T()
	require := s.Require()

	authHTTPHandler := NewAuthHTTPHandler(s.authSvcMock, AuthCfg{RefreshTokenCookie: testCookieName})

	t.Log("signup with wrong payload")
	{
		wrongPayloadJSON := `{"email":"testemail.ema`
		c, _ := s.echoPostContext("/api/auth/signup", wrongPayloadJSON)
		err := authHTTPHandler.Signup(c)
		require.Error(err, "wrong payload has been provided but no error raised")
		require.IsType(&echo.HTTPError{}, err, "error must be echo error")
	}

	t.Log("signup with invalid data sent in payload")
	{
		invalidJSON := fmt.Sprintf(`{"email":"testemail.email.com","password":%q}`, testPassword)
		c, _ := s.echoPostContext("/api/auth/signup", invalidJSON)
		err := authHTTPHandler.Signup(c)
		require.Error(err, "invalid data in payload has been provided but no error raised")
		require.IsType(&validation.PayloadError{}, err, "error must be payload error")
	}

	t.Log("successful signup")
	{
		s.authSvcMock.On("Signup", mock.Anything, testEmail, testPassword).
			Return(&model.User{ID: "bdf2f837-75f6-462a-b9ec-5dfb2e8f8792", Email: testEmail}, nil).Once()

		signupJSON := fmt.Sprintf(`{"email":%q,"password":%q}`, testEmail, testPassword)
		c, rec := s.echoPostContext("/api/auth/signup", signupJSON)
		err := authHTTPHandler.Signup(c)
		require.NoError(err, "no error must be raised")
		require.Equal(http.StatusOK, rec.Code, "response status code must be OK")
	}

	t.Log("customer login with invalid data in payload")
	{
		invalidJSON := `{"email":"testemail.email.com","password":"","fingerprint":""}`
		c, _ := s.echoPostContext("/api/auth/login", invalidJSON)
		err := authHTTPHandler.LoginCustomer(c)
		require.Error(err, "wrong data in payload has been provided but no error raised")
		require.IsType(&validation.PayloadError{}, err, "error must be payload error")
	}

	t.Log("customer login with wrong password")
	{
		s.authSvcMock.On("LoginCustomer", mock.Anything, testEmail, "wrong_password", testFingerprint, mock.AnythingOfType("time.Time")).
			Return(nil, nil, errs.NewUnauthorizedErr("invalid credentials")).Once()

		wrongCredsJSON := fmt.Sprintf(`{"email":%q,"password":"wrong_password","fingerprint":%q}`, testEmail, testFingerprint)
		c, _ := s.echoPostContext("/api/auth/login", wrongCredsJSON)
		err := authHTTPHandler.LoginCustomer(c)
		require.Error(err, "wrong credentials have been provided but no error raised")
		require.IsType(&errs.UnauthorizedErr{}, err, "error must be unauthorized")
	}

	t.Log("successful customer login")
	{
		s.authSvcMock.On("LoginCustomer", mock.Anything, testEmail, testPassword, testFingerprint, mock.AnythingOfType("time.Time")).
			Return(testJwt, testRfrToken, nil).Once()

		loginJSON := fmt.Sprintf(`{"email":%q,"password":%q,"fingerprint":%q}`, testEmail, testPassword, testFingerprint)
		c, rec := s.echoPostContext("/api/auth/login", loginJSON)
		err := authHTTPHandler.LoginCustomer(c)
		require.NoError(err, "no error must be raised")
		require.Equal(http.StatusOK, rec.Code, "response status code must be OK")

		var sess session
		require.NoError(json.NewDecoder(rec.Body).Decode(&sess), "failed to parse session from response")
		require.Equal(testJwt.Signed, sess.Token, "access token must be returned")

		tknCookie := s.sessionCookie(rec)
		require.NotNil(tknCookie, "refresh token cookie must be set")
		require.Equal(testRfrToken.ID, tknCookie.Value, "cookie must carry the refresh token id")
		require.True(tknCookie.HttpOnly, "refresh token cookie must be http-only")
		require.Equal("/api/auth", tknCookie.Path, "cookie must be scoped to auth endpoints")
	}

	t.Log("successful owner login")
	{
		ownerEmail := "owner@15palle.it"
		s.authSvcMock.On("LoginOwner", mock.Anything, ownerEmail, testPassword, testFingerprint, mock.AnythingOfType("time.Time")).
			Return(testJwt, testRfrToken, nil).Once()

		loginJSON := fmt.Sprintf(`{"email":%q,"password":%q,"fingerprint":%q}`, ownerEmail, testPassword, testFingerprint)
		c, rec := s.echoPostContext("/api/auth/login/owner", loginJSON)
		err := authHTTPHandler.LoginOwner(c)
		require.NoError(err, "no error must be raised")
		require.Equal(http.StatusOK, rec.Code, "response status code must be OK")
	}

	t.Log("request login code, code must not leak into the response")
	{
		s.authSvcMock.On("SendVerificationCode", mock.Anything, testEmail).Return("123456", nil).Once()

		sendCodeJSON := fmt.Sprintf(`{"email":%q}`, testEmail)
		c, rec := s.echoPostContext("/api/auth/code", sendCodeJSON)
		err := authHTTPHandler.SendCode(c)
		require.NoError(err, "no error must be raised")
		require.Equal(http.StatusOK, rec.Code, "response status code must be OK")

		var issued codeIssued
		require.NoError(json.NewDecoder(rec.Body).Decode(&issued), "failed to parse response")
		require.True(issued.Sent, "sent flag must be raised")
		require.Empty(issued.Code, "code must stay out of the response")
	}

	t.Log("verify code with invalid data in payload")
	{
		invalidJSON := fmt.Sprintf(`{"email":%q,"code":"12","fingerprint":%q}`, testEmail, testFingerprint)
		c, _ := s.echoPostContext("/api/auth/code/verify", invalidJSON)
		err := authHTTPHandler.VerifyCode(c)
		require.Error(err, "wrong data in payload has been provided but no error raised")
		require.IsType(&validation.PayloadError{}, err, "error must be payload error")
	}

	t.Log("successful code verification")
	{
		s.authSvcMock.On("VerifyCode", mock.Anything, testEmail, "123456", testFingerprint, mock.AnythingOfType("time.Time")).
			Return(testJwt, testRfrToken, nil).Once()

		verifyJSON := fmt.Sprintf(`{"email":%q,"code":"123456","fingerprint":%q}`, testEmail, testFingerprint)
		c, rec := s.echoPostContext("/api/auth/code/verify", verifyJSON)
		err := authHTTPHandler.VerifyCode(c)
		require.NoError(err, "no error must be raised")
		require.Equal(http.StatusOK, rec.Code, "response status code must be OK")
	}

	t.Log("refresh without session cookie")
	{
		refreshJSON := fmt.Sprintf(`{"fingerprint":%q}`, testFingerprint)
		c, _ := s.echoPostContext("/api/auth/refresh", refreshJSON)
		err := authHTTPHandler.Refresh(c)
		require.Error(err, "no session cookie is present but no error raised")
		require.IsType(&echo.HTTPError{}, err, "error must be echo error")
	}

	t.Log("refresh with invalid data in payload")
	{
		invalidJSON := `{"fingerprint":""}`
		c, _ := s.echoPostContext("/api/auth/refresh", invalidJSON)
		c.Request().AddCookie(&http.Cookie{Name: testCookieName, Value: testRfrTokenID})
		err := authHTTPHandler.Refresh(c)
		require.Error(err, "wrong data in payload has been provided but no error raised")
		require.IsType(&validation.PayloadError{}, err, "error must be payload error")
	}

	t.Log("successful refresh rotates the session cookie")
	{
		s.authSvcMock.On("Refresh", mock.Anything, testRfrTokenID, testFingerprint, mock.AnythingOfType("time.Time")).
			Return(testJwt, testRfrToken, nil).Once()

		refreshJSON := fmt.Sprintf(`{"fingerprint":%q}`, testFingerprint)
		c, rec := s.echoPostContext("/api/auth/refresh", refreshJSON)
		c.Request().AddCookie(&http.Cookie{Name: testCookieName, Value: testRfrTokenID})
		err := authHTTPHandler.Refresh(c)
		require.NoError(err, "refresh request is correct but error raised")
		require.Equal(http.StatusOK, rec.Code, "response status code must be OK")

		tknCookie := s.sessionCookie(rec)
		require.NotNil(tknCookie, "rotated refresh token cookie must be set")
		require.Equal(testRfrToken.ID, tknCookie.Value, "cookie must carry the fresh token id")
	}

	t.Log("logout without session cookie")
	{
		c, _ := s.echoPostContext("/api/auth/logout", "")
		err := authHTTPHandler.Logout(c)
		require.Error(err, "no session cookie is present but no error raised")
		require.IsType(&echo.HTTPError{}, err, "error must be echo error")
	}

	t.Log("successful logout expires the session cookie")
	{
		s.authSvcMock.On("Logout", mock.Anything, testRfrTokenID).Return(nil).Once()

		c, rec := s.echoPostContext("/api/auth/logout", "")
		c.Request().AddCookie(&http.Cookie{Name: testCookieName, Value: testRfrTokenID})
		err := authHTTPHandler.Logout(c)
		require.NoError(err, "logout request is correct but error raised")
		require.Equal(http.StatusOK, rec.Code, "response status code must be OK")

		tknCookie := s.sessionCookie(rec)
		require.NotNil(tknCookie, "expired refresh token cookie must be set")
		require.Negative(tknCookie.MaxAge, "refresh token cookie must be expired")
	}

	t.Log("me without identity in context")
	{
		c, _ := s.echoGetContext("/api/auth/me")
		err := authHTTPHandler.Me(c)
		require.Error(err, "no identity is present but no error raised")
		require.IsType(&echo.HTTPError{}, err, "error must be echo error")
	}

	t.Log("me with identity in context")
	{
		c, rec := s.echoGetContext("/api/auth/me")
		ident := auth.Identity{ID: "cust-003", Email: testEmail, Name: "Luca Ferrari", Role: auth.RoleCustomer}
		c.SetRequest(c.Request().WithContext(auth.WithIdentity(c.Request().Context(), ident)))

		err := authHTTPHandler.Me(c)
		require.NoError(err, "no error must be raised")
		require.Equal(http.StatusOK, rec.Code, "response status must be OK")
	}
}

func (s *handlersTestSuite) TestAuthHTTPHandlerExposedCodes() {
	require := s.Require()

	authHTTPHandler := NewAuthHTTPHandler(s.authSvcMock, AuthCfg{RefreshTokenCookie: testCookieName, ExposeCodes: true})

	s.T().Log("with code exposure on, the issued code must be echoed back")
	{
		s.authSvcMock.On("SendVerificationCode", mock.Anything, testEmail).Return("654321", nil).Once()

		sendCodeJSON := fmt.Sprintf(`{"email":%q}`, testEmail)
		c, rec := s.echoPostContext("/api/auth/code", sendCodeJSON)
		err := authHTTPHandler.SendCode(c)
		require.NoError(err, "no error must be raised")

		var issued codeIssued
		require.NoError(json.NewDecoder(rec.Body).Decode(&issued), "failed to parse response")
		require.Equal("654321", issued.Code, "code must be present in the response")
	}
}

//nolint:funlen // function contains a lot of inlined tests
func (s *handlersTestSuite) TestCustomerHTTPHandler() {
	t := s.T()
	require := s.Require()

	customerHTTPHandler := NewCustomerHTTPHandler(s.customerSvcMock)

	testCustomer := s.seed[2]

	t.Log("list customers with filter from query string")
	{
		verified := false
		wantFilter := model.CustomerFilter{Query: "luca", Verified: &verified, Page: 2, PageSize: 5}
		page := &model.CustomerPage{Data: []*model.Customer{testCustomer}, Total: 1, Page: 2, PageSize: 5}

		s.customerSvcMock.On("List", mock.Anything, wantFilter).Return(page, nil).Once()

		c, rec := s.echoGetContext("/api/v1/customers?query=luca&verified=false&page=2&pageSize=5")
		err := customerHTTPHandler.List(c)
		require.NoError(err, "no error must be raised")
		require.Equal(http.StatusOK, rec.Code, "response status must be OK")
	}

	t.Log("list customers with invalid page size")
	{
		c, _ := s.echoGetContext("/api/v1/customers?pageSize=500")
		err := customerHTTPHandler.List(c)
		require.Error(err, "page size is out of range but no error raised")
		require.IsType(&validation.PayloadError{}, err, "error must be payload error")
	}

	t.Log("get customer by id")
	{
		s.customerSvcMock.On("FindByID", mock.Anything, testCustomer.ID).Return(testCustomer, nil).Once()

		c, rec := s.echoGetContext(fmt.Sprintf("/api/v1/customers/%s", testCustomer.ID))
		c.SetParamNames("id")
		c.SetParamValues(testCustomer.ID)
		err := customerHTTPHandler.Get(c)
		require.NoError(err, "no error must be raised")
		require.Equal(http.StatusOK, rec.Code, "response status must be OK")
	}

	t.Log("get customer by unknown id")
	{
		s.customerSvcMock.On("FindByID", mock.Anything, "cust-999").
			Return(nil, errs.NewNotFoundErr("customer not found")).Once()

		c, _ := s.echoGetContext("/api/v1/customers/cust-999")
		c.SetParamNames("id")
		c.SetParamValues("cust-999")
		err := customerHTTPHandler.Get(c)
		require.Error(err, "unknown id has been provided but no error raised")
		require.IsType(&errs.NotFoundErr{}, err, "error must be not found")
	}

	t.Log("post customer with wrong payload")
	{
		wrongPayloadJSON := `{"name":"Paolo Greco","email`
		c, _ := s.echoPostContext("/api/v1/customers", wrongPayloadJSON)
		err := customerHTTPHandler.Post(c)
		require.Error(err, "wrong payload has been provided but no error raised")
		require.IsType(&echo.HTTPError{}, err, "error must be echo error")
	}

	t.Log("post customer with invalid data in payload")
	{
		invalidJSON := `{"name":"Paolo Greco","email":"paolo.greco-example.com"}`
		c, _ := s.echoPostContext("/api/v1/customers", invalidJSON)
		err := customerHTTPHandler.Post(c)
		require.Error(err, "wrong data in payload has been provided but no error raised")
		require.IsType(&validation.PayloadError{}, err, "error must be payload error")
	}

	t.Log("post customer successfully")
	{
		s.customerSvcMock.On("Create", mock.Anything, mock.AnythingOfType("*model.NewCustomer")).
			Return(testCustomer, nil).Once()

		postCustomer := `{"name":"Paolo Greco","email":"paolo.greco@example.com"}`
		c, rec := s.echoPostContext("/api/v1/customers", postCustomer)
		err := customerHTTPHandler.Post(c)
		require.NoError(err, "no error must be raised")
		require.Equal(http.StatusCreated, rec.Code, "response code must be Created")
	}

	t.Log("verify customer")
	{
		verified := *testCustomer
		verified.Verified = true

		s.customerSvcMock.On("Verify", mock.Anything, testCustomer.ID).Return(&verified, nil).Once()

		c, rec := s.echoPostContext(fmt.Sprintf("/api/v1/customers/%s/verify", testCustomer.ID), "")
		c.SetParamNames("id")
		c.SetParamValues(testCustomer.ID)
		err := customerHTTPHandler.Verify(c)
		require.NoError(err, "no error must be raised")
		require.Equal(http.StatusOK, rec.Code, "response status must be OK")
	}

	t.Log("revoke customer verification")
	{
		s.customerSvcMock.On("Revoke", mock.Anything, testCustomer.ID).Return(testCustomer, nil).Once()

		c, rec := s.echoPostContext(fmt.Sprintf("/api/v1/customers/%s/revoke", testCustomer.ID), "")
		c.SetParamNames("id")
		c.SetParamValues(testCustomer.ID)
		err := customerHTTPHandler.Revoke(c)
		require.NoError(err, "no error must be raised")
		require.Equal(http.StatusOK, rec.Code, "response status must be OK")
	}

	t.Log("put customer notes")
	{
		s.customerSvcMock.On("UpdateNotes", mock.Anything, testCustomer.ID, "Asked about lessons").
			Return(testCustomer, nil).Once()

		notesJSON := `{"notes":"Asked about lessons"}`
		c, rec := s.echoPutContext(fmt.Sprintf("/api/v1/customers/%s/notes", testCustomer.ID), testCustomer.ID, notesJSON)
		err := customerHTTPHandler.PutNotes(c)
		require.NoError(err, "no error must be raised")
		require.Equal(http.StatusOK, rec.Code, "response status must be OK")
	}

	t.Log("export customers as csv attachment")
	{
		csv := `"Name","Email","Phone","Created At","Verified","Verified At","Notes"` + "\n"
		s.customerSvcMock.On("ExportCSV", mock.Anything, model.CustomerFilter{}).Return([]byte(csv), nil).Once()

		c, rec := s.echoGetContext("/api/v1/customers/export")
		err := customerHTTPHandler.ExportCSV(c)
		require.NoError(err, "no error must be raised")
		require.Equal(http.StatusOK, rec.Code, "response status must be OK")
		require.Equal("text/csv", rec.Header().Get(echo.HeaderContentType), "content type must be text/csv")
		require.Contains(rec.Header().Get(echo.HeaderContentDisposition), "attachment", "csv must come as attachment")
		require.Contains(rec.Header().Get(echo.HeaderContentDisposition), ".csv", "attachment must carry a csv filename")
	}

	t.Log("render membership badge")
	{
		s.customerSvcMock.On("FindByID", mock.Anything, testCustomer.ID).Return(testCustomer, nil).Once()

		c, rec := s.echoGetContext(fmt.Sprintf("/api/v1/customers/%s/badge", testCustomer.ID))
		c.SetParamNames("id")
		c.SetParamValues(testCustomer.ID)
		err := customerHTTPHandler.Badge(c)
		require.NoError(err, "no error must be raised")
		require.Equal(http.StatusOK, rec.Code, "response status must be OK")
		require.Equal("image/png", rec.Header().Get(echo.HeaderContentType), "badge must be a png image")
		require.NotEmpty(rec.Body.Bytes(), "badge image must not be empty")
	}
}

func (s *handlersTestSuite) sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookieName {
			return c
		}
	}
	return nil
}

func (s *handlersTestSuite) echoPostContext(target, payload string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return s.app.NewContext(req, rec), rec
}

func (s *handlersTestSuite) echoGetContext(target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, strings.NewReader(""))
	rec := httptest.NewRecorder()
	return s.app.NewContext(req, rec), rec
}

func (s *handlersTestSuite) echoPutContext(target, id, payload string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPut, target, strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.app.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c, rec
}

// start handlers test suite
func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(handlersTestSuite))
}
