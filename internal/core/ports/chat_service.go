package ports

import (
	"context"

	"github.com/codetutor/tutor-api/internal/core/domain"
)

type ChatInput struct {
	Model    string
	Messages []domain.ChatMessage
}

// ChatService relays a conversation to the upstream provider. account is nil
// for anonymous callers.
type ChatService interface {
	Chat(ctx context.Context, account *domain.Account, in ChatInput) (string, error)
}

// ChatCompleter performs one completion call upstream. Non-success replies are
// returned as *domain.UpstreamError.
type ChatCompleter interface {
	Complete(ctx context.Context, req domain.ChatRequest) (string, error)
}
