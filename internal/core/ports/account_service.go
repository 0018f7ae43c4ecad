package ports

import (
	"context"

	"github.com/codetutor/tutor-api/internal/core/domain"
)

type RegisterInput struct {
	Handle      string
	Contact     string
	Secret      string
	FirstName   string
	LastName    string
	DateOfBirth string
}

// FederatedSession is the outcome of a federated login. Created is set when
// the login made a new account.
type FederatedSession struct {
	Account *domain.Account
	Token   string
	Created bool
}

// AccountService covers registration, login and the account-scoped reads and
// writes behind /users/me and /vault.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Account, string, error)
	Authenticate(ctx context.Context, handle, secret string) (string, error)
	FederatedLogin(ctx context.Context, identity domain.FederatedIdentity) (FederatedSession, error)
	ResolveSession(ctx context.Context, token string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, account *domain.Account, patch domain.ProfilePatch) (*domain.Account, error)
	UpdateVault(ctx context.Context, account *domain.Account, blob string) error
}

// SessionIssuer mints and verifies bearer tokens bound to an account handle.
type SessionIssuer interface {
	Issue(handle string) (string, error)
	Verify(token string) (string, error)
}
