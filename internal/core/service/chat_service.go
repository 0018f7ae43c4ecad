package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/codetutor/tutor-api/internal/core/domain"
	"github.com/codetutor/tutor-api/internal/core/ports"
)

// placeholderMarkers identify sample keys shipped in example env files.
var placeholderMarkers = []string{"YOUR-KEY-HERE", "CHANGE_ME"}

type ChatConfig struct {
	ServerKey    string
	DefaultModel string
}

type chatService struct {
	completer ports.ChatCompleter
	cfg       ChatConfig
	log       zerolog.Logger
}

// NewChatService returns a ChatService implementation.
func NewChatService(completer ports.ChatCompleter, cfg ChatConfig, log zerolog.Logger) ports.ChatService {
	return &chatService{completer: completer, cfg: cfg, log: log}
}

func (s *chatService) Chat(ctx context.Context, account *domain.Account, in ports.ChatInput) (string, error) {
	if len(in.Messages) == 0 {
		return "", domain.Invalid("conversation_history must not be empty")
	}

	credential, source := s.credential(account)
	if credential == "" {
		return "", domain.ErrNoCredential
	}

	model := in.Model
	if model == "" {
		model = s.cfg.DefaultModel
	}

	reply, err := s.completer.Complete(ctx, domain.ChatRequest{
		Model:      model,
		Messages:   in.Messages,
		Credential: credential,
	})
	if err != nil {
		evt := s.log.Warn().Err(err).Str("model", model).Str("key_source", source)
		var upstream *domain.UpstreamError
		if errors.As(err, &upstream) {
			evt = evt.Int("upstream_status", upstream.StatusCode)
		}
		evt.Msg("chat completion failed")
		return "", err
	}
	return reply, nil
}

// credential picks the server key when one is configured, otherwise the
// caller's vault key.
func (s *chatService) credential(account *domain.Account) (string, string) {
	if isUsableKey(s.cfg.ServerKey) {
		return s.cfg.ServerKey, "server"
	}
	if account != nil && account.HasVault() {
		return account.Vault, "vault"
	}
	return "", ""
}

func isUsableKey(key string) bool {
	if strings.TrimSpace(key) == "" {
		return false
	}
	for _, marker := range placeholderMarkers {
		if strings.Contains(key, marker) {
			return false
		}
	}
	return true
}
