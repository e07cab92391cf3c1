package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookmarket/seller-system/internal/core/ports"
)

// Auth validates the bearer token and resolves the current seller into the
// request context under the "seller" key. Every failure mode — missing
// header, malformed token, bad signature, expiry, or a seller deleted after
// the token was issued — yields the same 401 so callers cannot tell which
// sub-check failed.
func Auth(issuer ports.TokenIssuer, sellers ports.SellerService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorized(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return unauthorized(c)
			}

			subject, err := issuer.Validate(parts[1])
			if err != nil {
				return unauthorized(c)
			}

			seller, err := sellers.GetByEmail(c.Request().Context(), subject)
			if err != nil {
				return unauthorized(c)
			}

			c.Set("seller", seller)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
}
