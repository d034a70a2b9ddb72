package infra

import (
	"errors"
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/15palle/membership/internal/auth"
	"github.com/15palle/membership/internal/cache"
	"github.com/15palle/membership/internal/config"
	errs "github.com/15palle/membership/internal/errors"
	"github.com/15palle/membership/internal/handlers"
	"github.com/15palle/membership/internal/middleware"
	"github.com/15palle/membership/internal/notifier"
	"github.com/15palle/membership/internal/repository"
	"github.com/15palle/membership/internal/service"
	"github.com/15palle/membership/internal/validation"
	"github.com/15palle/membership/pkg/db/transactor"
)

// Router wires repositories, services and handlers into the echo app
func Router(
	pgPool *pgxpool.Pool,
	mongoClient *mongo.Client,
	redisClient *redis.Client,
	codeNotifier notifier.CodeNotifier,
	cfg config.Config,
) (*echo.Echo, error) {
	e := echo.New()

	v, err := buildValidator(e)
	if err != nil {
		return nil, err
	}
	e.Validator = v

	e.HTTPErrorHandler = httpErrorHandler(e)

	// Transactor
	trx := transactor.NewPgxTransactor(pgPool)

	// Configs
	authCfg := cfg.AuthCfg
	jwtCfg := authCfg.JwtCfg

	// Token issuing
	jwtIssuer := auth.NewJwtIssuer(jwtCfg.Issuer, jwtCfg.SigningMethod, jwtCfg.TimeToLive, jwtCfg.PrivateKey)
	jwtValidator := auth.NewJwtValidator(jwtCfg.SigningMethod, jwtCfg.PublicKey)
	rfrTknIssuer := auth.NewRefreshTokenIssuer(authCfg.RefreshTokenCfg.MaxCount, authCfg.RefreshTokenCfg.TimeToLive)

	// Middleware
	authenticatedMw := middleware.Authorize(jwtValidator)
	ownerMw := middleware.Authorize(jwtValidator, auth.RoleOwner)

	// Repositories
	custRepo := customerRepository(pgPool, mongoClient, cfg.StoreDriver)
	userRepo := repository.NewPostgresUserRepository(trx)
	rfrTknRepo := repository.NewPostgresRefreshTokenRepository(trx)
	codeRepo := repository.NewRedisVerificationCodeRepository(redisClient, authCfg.CodeCfg.TimeToLive)

	// Caches
	custCache := cache.NewRedisCustomerCache(redisClient)

	// Services
	authSvc := service.NewAuthService(trx, jwtIssuer, rfrTknIssuer, userRepo, custRepo, codeRepo, rfrTknRepo, codeNotifier, authCfg.OwnerCfg)
	custSvc := service.NewCustomerService(custRepo, custCache)

	// Handlers
	authHandler := handlers.NewAuthHTTPHandler(authSvc, handlers.AuthCfg{
		Https:              cfg.ServerCfg.Https,
		RefreshTokenCookie: authCfg.RefreshTokenCfg.CookieName,
		ExposeCodes:        authCfg.CodeCfg.Expose,
	})
	custHandler := handlers.NewCustomerHTTPHandler(custSvc)

	// API routes
	api := e.Group("/api")

	// auth
	authAPI := api.Group("/auth")
	authAPI.POST("/signup", authHandler.Signup)
	authAPI.POST("/login", authHandler.LoginCustomer)
	authAPI.POST("/login/owner", authHandler.LoginOwner)
	authAPI.POST("/code", authHandler.SendCode)
	authAPI.POST("/code/verify", authHandler.VerifyCode)
	authAPI.POST("/refresh", authHandler.Refresh)
	authAPI.POST("/logout", authHandler.Logout)
	authAPI.GET("/me", authHandler.Me, authenticatedMw)

	// customers
	customersAPI := api.Group("/v1/customers")
	customersAPI.GET("", custHandler.List, ownerMw)
	customersAPI.GET("/export", custHandler.ExportCSV, ownerMw)
	customersAPI.POST("", custHandler.Post, ownerMw)
	customersAPI.GET("/:id", custHandler.Get, authenticatedMw)
	customersAPI.GET("/:id/badge", custHandler.Badge, authenticatedMw)
	customersAPI.POST("/:id/verify", custHandler.Verify, ownerMw)
	customersAPI.POST("/:id/revoke", custHandler.Revoke, ownerMw)
	customersAPI.PUT("/:id/notes", custHandler.PutNotes, ownerMw)

	return e, nil
}

func customerRepository(pgPool *pgxpool.Pool, mongoClient *mongo.Client, driver string) repository.CustomerRepository {
	if driver == config.StoreDriverMongo {
		return repository.NewMongoCustomerRepository(mongoClient)
	}
	return repository.NewPostgresCustomerRepository(pgPool)
}

func buildValidator(_ *echo.Echo) (*validation.EchoValidator, error) {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)

	translator, found := uni.GetTranslator("en")
	if !found {
		return nil, errors.New("failed to find en translator")
	}

	v := validator.New()
	if err := entranslations.RegisterDefaultTranslations(v, translator); err != nil {
		return nil, err
	}

	return validation.Echo(v, translator), nil
}

// httpErrorHandler maps domain errors to statuses, everything else stays a
// generic 500 so internals never leak to the caller
func httpErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			notFoundErr     *errs.NotFoundErr
			validationErr   *errs.ValidationErr
			unauthorizedErr *errs.UnauthorizedErr
			forbiddenErr    *errs.ForbiddenErr
			payloadErr      *validation.PayloadError
		)

		switch {
		case errors.As(err, &notFoundErr):
			err = echo.NewHTTPError(http.StatusNotFound, notFoundErr.Error())
		case errors.As(err, &validationErr):
			err = echo.NewHTTPError(http.StatusBadRequest, validationErr.Error())
		case errors.As(err, &unauthorizedErr):
			err = echo.NewHTTPError(http.StatusUnauthorized, unauthorizedErr.Error())
		case errors.As(err, &forbiddenErr):
			err = echo.NewHTTPError(http.StatusForbidden, forbiddenErr.Error())
		case errors.As(err, &payloadErr):
			if jsonErr := c.JSON(http.StatusBadRequest, payloadErr); jsonErr == nil {
				return
			}
		}

		var echoErr *echo.HTTPError
		if !errors.As(err, &echoErr) {
			logrus.Errorf("error occurred on request processing - %v", err)
		}

		e.DefaultHTTPErrorHandler(err, c)
	}
}
