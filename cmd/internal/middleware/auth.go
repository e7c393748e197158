// Package middleware holds the echo middleware guarding the booking routes.
package middleware

import (
	"github.com/labstack/echo/v4"
	"slotly/cmd/internal/domain/entity"
	"slotly/cmd/internal/metrics"
	"slotly/cmd/internal/service"
	"slotly/cmd/internal/utils"
	"slotly/cmd/internal/utils/apierror"
	"strings"
)

type Guard struct {
	Tokens  service.TokenService
	Metrics *metrics.Metrics
}

func NewGuard(tokens service.TokenService, m *metrics.Metrics) *Guard {
	return &Guard{Tokens: tokens, Metrics: m}
}

// Authorize resolves an Authorization header value to a verified identity.
// No usable token is 401; any token that fails verification is 403, whether
// it was malformed, forged or expired.
func (g *Guard) Authorize(header string) (*entity.Identity, apierror.ErrorResponse) {
	token := ExtractBearer(header)
	if token == "" {
		g.Metrics.AuthRejected("missing_token")
		return nil, apierror.MissingAuthTokenError
	}

	claims, err := g.Tokens.Verify(token)
	if err != nil {
		g.Metrics.AuthRejected("invalid_token")
		return nil, apierror.InvalidAuthTokenError
	}
	return claims.Identity(), nil
}

// Middleware attaches the identity to the echo context of the current request
// or ends the request with the rejection.
func (g *Guard) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, apierr := g.Authorize(c.Request().Header.Get(echo.HeaderAuthorization))
			if apierr != nil {
				return c.JSON(apierr.Code(), apierr)
			}
			c.Set(utils.IdentityCtxKey, identity)
			return next(c)
		}
	}
}

// ExtractBearer returns the token of a "Bearer <token>" header, or "" when
// the header is absent, has no token or uses another scheme.
func ExtractBearer(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
