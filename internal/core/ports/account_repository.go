package ports

import (
	"context"
	"time"

	"github.com/codetutor/tutor-api/internal/core/domain"
)

// AccountRepository persists accounts. Create reports domain.ErrHandleTaken or
// domain.ErrContactTaken when a uniqueness constraint rejects the insert.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	FindByHandle(ctx context.Context, handle string) (*domain.Account, error)
	FindByContact(ctx context.Context, contact string) (*domain.Account, error)
	SetVault(ctx context.Context, accountID, blob string, now time.Time) error
	UpdateProfile(ctx context.Context, accountID string, patch domain.ProfilePatch, now time.Time) (*domain.Account, error)
}
