package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/codetutor/tutor-api/internal/core/domain"
	"github.com/codetutor/tutor-api/internal/core/ports"
	"github.com/codetutor/tutor-api/internal/pkg/ids"
)

const (
	maxHandleLen      = 64
	minHandleLen      = 3
	maxHandleAttempts = 5
)

var validate = validator.New()

type accountService struct {
	repo     ports.AccountRepository
	sessions ports.SessionIssuer
	log      zerolog.Logger
	now      func() time.Time
	newID    func() string
}

// NewAccountService returns an AccountService implementation.
func NewAccountService(repo ports.AccountRepository, sessions ports.SessionIssuer, log zerolog.Logger) ports.AccountService {
	return &accountService{
		repo:     repo,
		sessions: sessions,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    ids.New,
	}
}

func (s *accountService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, string, error) {
	in.Contact = normalizeContact(in.Contact)
	if err := validateHandle(in.Handle); err != nil {
		return nil, "", err
	}
	if err := validate.Var(in.Contact, "required,email"); err != nil {
		return nil, "", domain.Invalid("email must be a valid email")
	}
	if in.Secret == "" {
		return nil, "", domain.Invalid("password is required")
	}

	// Unique indexes still back these checks when two registrations race.
	if err := s.ensureAvailable(ctx, in.Handle, in.Contact); err != nil {
		return nil, "", err
	}

	hash, err := HashSecret(in.Secret)
	if err != nil {
		return nil, "", err
	}

	account := domain.NewAccount(s.newID(), in.Handle, in.Contact, hash, s.now())
	account.FirstName = in.FirstName
	account.LastName = in.LastName
	account.DateOfBirth = in.DateOfBirth

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, "", fmt.Errorf("register: %w", err)
	}

	token, err := s.sessions.Issue(account.Handle)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("account_id", account.ID).Str("username", account.Handle).Msg("account registered")
	return account, token, nil
}

func (s *accountService) ensureAvailable(ctx context.Context, handle, contact string) error {
	if _, err := s.repo.FindByHandle(ctx, handle); err == nil {
		return domain.ErrHandleTaken
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return fmt.Errorf("register: %w", err)
	}

	if _, err := s.repo.FindByContact(ctx, contact); err == nil {
		return domain.ErrContactTaken
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

func (s *accountService) Authenticate(ctx context.Context, handle, secret string) (string, error) {
	account, err := s.repo.FindByHandle(ctx, handle)
	if errors.Is(err, domain.ErrAccountNotFound) {
		burnVerify(secret)
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("authenticate: %w", err)
	}

	if !VerifySecret(secret, account.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}

	return s.sessions.Issue(account.Handle)
}

// FederatedLogin signs in the account owning the identity's e-mail, creating
// one on first use. The created account gets a random secret nobody knows, so
// it can only be reached through the provider.
func (s *accountService) FederatedLogin(ctx context.Context, identity domain.FederatedIdentity) (ports.FederatedSession, error) {
	if !identity.EmailVerified {
		return ports.FederatedSession{}, fmt.Errorf("%w: %s e-mail is not verified", domain.ErrUnauthenticated, identity.Provider)
	}
	identity.Email = normalizeContact(identity.Email)
	if err := validate.Var(identity.Email, "required,email"); err != nil {
		return ports.FederatedSession{}, fmt.Errorf("%w: %s returned no usable e-mail", domain.ErrUnauthenticated, identity.Provider)
	}

	created := false
	account, err := s.repo.FindByContact(ctx, identity.Email)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrAccountNotFound):
		account, created, err = s.createFederated(ctx, identity)
		if err != nil {
			return ports.FederatedSession{}, err
		}
	default:
		return ports.FederatedSession{}, fmt.Errorf("federated login: %w", err)
	}

	token, err := s.sessions.Issue(account.Handle)
	if err != nil {
		return ports.FederatedSession{}, err
	}
	return ports.FederatedSession{Account: account, Token: token, Created: created}, nil
}

func (s *accountService) createFederated(ctx context.Context, identity domain.FederatedIdentity) (*domain.Account, bool, error) {
	secret, err := randomHex(32)
	if err != nil {
		return nil, false, fmt.Errorf("federated login: %w", err)
	}
	hash, err := HashSecret(secret)
	if err != nil {
		return nil, false, err
	}

	base := handleFromContact(identity.Email)
	for attempt := 0; attempt < maxHandleAttempts; attempt++ {
		handle := base
		if attempt > 0 {
			suffix, err := randomHex(3)
			if err != nil {
				return nil, false, fmt.Errorf("federated login: %w", err)
			}
			handle = base + "-" + suffix
		}

		account := domain.NewAccount(s.newID(), handle, identity.Email, hash, s.now())
		err := s.repo.Create(ctx, account)
		switch {
		case err == nil:
			s.log.Info().
				Str("account_id", account.ID).
				Str("username", account.Handle).
				Str("provider", identity.Provider).
				Msg("account created from federated login")
			return account, true, nil
		case errors.Is(err, domain.ErrContactTaken):
			// A concurrent first login for the same e-mail won.
			existing, findErr := s.repo.FindByContact(ctx, identity.Email)
			if findErr != nil {
				return nil, false, fmt.Errorf("federated login: %w", findErr)
			}
			return existing, false, nil
		case errors.Is(err, domain.ErrHandleTaken):
			continue
		default:
			return nil, false, fmt.Errorf("federated login: %w", err)
		}
	}
	return nil, false, fmt.Errorf("federated login: no free username derived from %q", base)
}

func (s *accountService) ResolveSession(ctx context.Context, token string) (*domain.Account, error) {
	handle, err := s.sessions.Verify(token)
	if err != nil {
		return nil, err
	}

	account, err := s.repo.FindByHandle(ctx, handle)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("%w: account %q no longer exists", domain.ErrUnauthenticated, handle)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	return account, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, account *domain.Account, patch domain.ProfilePatch) (*domain.Account, error) {
	if patch.Empty() {
		return account, nil
	}
	updated, err := s.repo.UpdateProfile(ctx, account.ID, patch, s.now())
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}

// UpdateVault overwrites the stored provider key. The blob is opaque and is
// never logged.
func (s *accountService) UpdateVault(ctx context.Context, account *domain.Account, blob string) error {
	if err := s.repo.SetVault(ctx, account.ID, blob, s.now()); err != nil {
		return fmt.Errorf("update vault: %w", err)
	}
	s.log.Info().Str("account_id", account.ID).Bool("has_api_key", blob != "").Msg("vault updated")
	return nil
}

// normalizeContact lower-cases e-mail addresses so uniqueness does not depend
// on how a provider or a user capitalised them.
func normalizeContact(contact string) string {
	return strings.ToLower(strings.TrimSpace(contact))
}

func validateHandle(handle string) error {
	n := len([]rune(handle))
	if n < minHandleLen || n > maxHandleLen {
		return domain.Invalid("username must be between %d and %d characters", minHandleLen, maxHandleLen)
	}
	if strings.IndexFunc(handle, unicode.IsSpace) >= 0 {
		return domain.Invalid("username must not contain whitespace")
	}
	return nil
}

// handleFromContact derives a username candidate from the local part of an
// e-mail address.
func handleFromContact(contact string) string {
	local, _, _ := strings.Cut(strings.ToLower(contact), "@")

	var b strings.Builder
	for _, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			b.WriteRune(r)
		}
		if b.Len() == 32 {
			break
		}
	}

	handle := b.String()
	if len(handle) < minHandleLen {
		handle = "learner" + handle
	}
	return handle
}
