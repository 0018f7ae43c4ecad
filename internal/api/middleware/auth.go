package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/codetutor/tutor-api/internal/api/metrics"
	"github.com/codetutor/tutor-api/internal/core/domain"
)

const accountKey = "account"

// SessionResolver turns a bearer token into the account it was issued for.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*domain.Account, error)
}

// RequireAccount rejects requests without a valid bearer token and injects the
// resolved account into the context.
func RequireAccount(sessions SessionResolver) echo.MiddlewareFunc {
	return authenticate(sessions, false)
}

// OptionalAccount lets requests without an Authorization header through
// anonymously. A header that is present must still be valid.
func OptionalAccount(sessions SessionResolver) echo.MiddlewareFunc {
	return authenticate(sessions, true)
}

func authenticate(sessions SessionResolver, optional bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				if optional {
					return next(c)
				}
				metrics.AuthRejectionsTotal.WithLabelValues("missing_header").Inc()
				return fmt.Errorf("%w: missing authorization header", domain.ErrUnauthenticated)
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("malformed_header").Inc()
				return fmt.Errorf("%w: malformed authorization header", domain.ErrUnauthenticated)
			}

			account, err := sessions.ResolveSession(c.Request().Context(), token)
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues("invalid_token").Inc()
				return err
			}

			SetAccount(c, account)
			return next(c)
		}
	}
}

// SetAccount stores the authenticated account on the context.
func SetAccount(c echo.Context, account *domain.Account) {
	c.Set(accountKey, account)
}

// AccountFrom returns the account injected by the auth middleware, or nil for
// anonymous requests.
func AccountFrom(c echo.Context) *domain.Account {
	account, _ := c.Get(accountKey).(*domain.Account)
	return account
}
