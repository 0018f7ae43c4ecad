package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewAccount_Defaults(t *testing.T) {
	now := time.Now().UTC()
	a := NewAccount("id", "alice", "alice@example.com", "hash", now)

	assert.Equal(t, DefaultTitle, a.Title)
	assert.Equal(t, 1, a.Level)
	assert.Zero(t, a.XP)
	assert.False(t, a.HasVault())
}

func TestAccount_ProfileHidesSecrets(t *testing.T) {
	a := NewAccount("id", "alice", "alice@example.com", "hash", time.Now())
	a.Vault = "sk-or-secret"

	p := a.Profile()

	assert.True(t, p.HasAPIKey)
	assert.Equal(t, "alice", p.Handle)
	assert.NotContains(t, []string{p.ID, p.Handle, p.Contact, p.Title}, "sk-or-secret")
}

func TestProfilePatch_Apply(t *testing.T) {
	a := NewAccount("id", "alice", "alice@example.com", "hash", time.Now())
	first, title := "Alice", "Bug Hunter"

	patch := ProfilePatch{FirstName: &first, Title: &title}
	assert.False(t, patch.Empty())
	patch.Apply(a)

	assert.Equal(t, "Alice", a.FirstName)
	assert.Equal(t, "Bug Hunter", a.Title)
	assert.Empty(t, a.LastName)
	assert.True(t, ProfilePatch{}.Empty())
}

func TestConflictErrors(t *testing.T) {
	assert.True(t, errors.Is(ErrHandleTaken, ErrConflict))
	assert.True(t, errors.Is(ErrContactTaken, ErrConflict))
	assert.True(t, errors.Is(Invalid("bad %s", "x"), ErrValidation))
}
