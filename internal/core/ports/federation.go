package ports

import (
	"context"

	"github.com/codetutor/tutor-api/internal/core/domain"
)

// IdentityProvider is an OAuth2 authorization-code login provider.
type IdentityProvider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (domain.FederatedIdentity, error)
}

// StateStore issues single-use OAuth state values. Consume returns
// domain.ErrOAuthState for unknown, expired or already used values.
type StateStore interface {
	Issue(ctx context.Context) (string, error)
	Consume(ctx context.Context, state string) error
}
