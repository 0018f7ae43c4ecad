package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codetutor/tutor-api/internal/core/domain"
	"github.com/codetutor/tutor-api/internal/core/ports"
)

var hello = ports.ChatInput{Messages: []domain.ChatMessage{{Role: "user", Content: "what is a list?"}}}

func TestChatService_NoCredentialMakesNoCall(t *testing.T) {
	completer := &stubCompleter{reply: "unused"}
	svc := NewChatService(completer, ChatConfig{DefaultModel: "m"}, zerolog.Nop())

	_, err := svc.Chat(context.Background(), nil, hello)
	assert.ErrorIs(t, err, domain.ErrNoCredential)

	_, err = svc.Chat(context.Background(), &domain.Account{ID: "a"}, hello)
	assert.ErrorIs(t, err, domain.ErrNoCredential)

	assert.Empty(t, completer.calls)
}

func TestChatService_ServerKeyWins(t *testing.T) {
	completer := &stubCompleter{reply: "a list is ordered"}
	svc := NewChatService(completer, ChatConfig{ServerKey: "sk-server", DefaultModel: "default-model"}, zerolog.Nop())

	reply, err := svc.Chat(context.Background(), &domain.Account{Vault: "sk-user"}, hello)

	require.NoError(t, err)
	assert.Equal(t, "a list is ordered", reply)
	require.Len(t, completer.calls, 1)
	assert.Equal(t, "sk-server", completer.calls[0].Credential)
	assert.Equal(t, "default-model", completer.calls[0].Model)
	assert.Equal(t, hello.Messages, completer.calls[0].Messages)
}

func TestChatService_PlaceholderServerKeyFallsBackToVault(t *testing.T) {
	completer := &stubCompleter{reply: "ok"}
	svc := NewChatService(completer, ChatConfig{ServerKey: "sk-or-v1-YOUR-KEY-HERE"}, zerolog.Nop())

	_, err := svc.Chat(context.Background(), &domain.Account{Vault: "sk-user"}, ports.ChatInput{Model: "chosen", Messages: hello.Messages})

	require.NoError(t, err)
	require.Len(t, completer.calls, 1)
	assert.Equal(t, "sk-user", completer.calls[0].Credential)
	assert.Equal(t, "chosen", completer.calls[0].Model)
}

func TestChatService_UpstreamErrorPassesThrough(t *testing.T) {
	upstream := &domain.UpstreamError{StatusCode: 429, Body: `{"error":"rate limited"}`}
	svc := NewChatService(&stubCompleter{err: upstream}, ChatConfig{ServerKey: "sk-server"}, zerolog.Nop())

	_, err := svc.Chat(context.Background(), nil, hello)

	var got *domain.UpstreamError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 429, got.StatusCode)
}

func TestChatService_EmptyConversation(t *testing.T) {
	completer := &stubCompleter{}
	svc := NewChatService(completer, ChatConfig{ServerKey: "sk-server"}, zerolog.Nop())

	_, err := svc.Chat(context.Background(), nil, ports.ChatInput{})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, completer.calls)
}
