package domain

import (
	"errors"
	"fmt"
	"time"
)

// DefaultTitle is the rank shown to a learner before any profile edit.
const DefaultTitle = "Novice Coder"

var (
	ErrConflict           = errors.New("conflict")
	ErrHandleTaken        = fmt.Errorf("%w: username already registered", ErrConflict)
	ErrContactTaken       = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrValidation         = errors.New("validation failed")
)

// Invalid wraps msg so that errors.Is(err, ErrValidation) holds.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Account is a registered learner. Handle and Contact are unique and never
// change after creation. PasswordHash and Vault never leave the server.
type Account struct {
	ID           string
	Handle       string
	Contact      string
	PasswordHash string

	FirstName   string
	LastName    string
	DateOfBirth string
	Title       string
	AvatarURL   string
	XP          int
	Level       int

	Vault string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccount builds an account with profile defaults applied.
func NewAccount(id, handle, contact, passwordHash string, now time.Time) *Account {
	return &Account{
		ID:           id,
		Handle:       handle,
		Contact:      contact,
		PasswordHash: passwordHash,
		Title:        DefaultTitle,
		Level:        1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// HasVault reports whether a provider key has been stored.
func (a *Account) HasVault() bool {
	return a.Vault != ""
}

// Profile is the externally visible projection of an Account.
type Profile struct {
	ID          string    `json:"id"`
	Handle      string    `json:"username"`
	Contact     string    `json:"email"`
	FirstName   string    `json:"first_name,omitempty"`
	LastName    string    `json:"last_name,omitempty"`
	DateOfBirth string    `json:"dob,omitempty"`
	Title       string    `json:"title"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	XP          int       `json:"xp"`
	Level       int       `json:"level"`
	CreatedAt   time.Time `json:"created_at"`
	HasAPIKey   bool      `json:"has_api_key"`
}

func (a *Account) Profile() Profile {
	return Profile{
		ID:          a.ID,
		Handle:      a.Handle,
		Contact:     a.Contact,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		DateOfBirth: a.DateOfBirth,
		Title:       a.Title,
		AvatarURL:   a.AvatarURL,
		XP:          a.XP,
		Level:       a.Level,
		CreatedAt:   a.CreatedAt,
		HasAPIKey:   a.HasVault(),
	}
}

// ProfilePatch carries optional profile edits. Nil fields are left unchanged.
type ProfilePatch struct {
	FirstName   *string
	LastName    *string
	DateOfBirth *string
	Title       *string
	AvatarURL   *string
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.DateOfBirth == nil &&
		p.Title == nil && p.AvatarURL == nil
}

// Apply copies the set fields of p onto a.
func (p ProfilePatch) Apply(a *Account) {
	if p.FirstName != nil {
		a.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		a.LastName = *p.LastName
	}
	if p.DateOfBirth != nil {
		a.DateOfBirth = *p.DateOfBirth
	}
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.AvatarURL != nil {
		a.AvatarURL = *p.AvatarURL
	}
}
