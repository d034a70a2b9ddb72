package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/15palle/membership/internal/auth"
)

// Authorize verifies the bearer token and binds the caller identity to the
// request context. When roles are given, the identity must hold one of
// them; services still re-check roles on every mutation.
func Authorize(validator *auth.JwtValidator, roles ...auth.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHdr := c.Request().Header.Get("Authorization")
			hdrSplit := strings.Split(authHdr, " ")
			if len(hdrSplit) != 2 {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid Authorization header format")
			}

			claims, err := validator.Verify(hdrSplit[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			ident := claims.Identity()
			if len(roles) > 0 && !holdsAnyRole(ident, roles) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}

			ctx := auth.WithIdentity(c.Request().Context(), ident)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func holdsAnyRole(ident auth.Identity, roles []auth.Role) bool {
	for _, r := range roles {
		if ident.Role == r {
			return true
		}
	}
	return false
}
