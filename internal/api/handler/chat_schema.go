package handler

import "github.com/codetutor/tutor-api/internal/core/domain"

type chatMessage struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content" validate:"required"`
}

// chatRequest accepts either a full conversation or a single message. When
// both are sent the message is appended as the last user turn.
type chatRequest struct {
	Model               string        `json:"model" validate:"max=128"`
	Message             string        `json:"message"`
	ConversationHistory []chatMessage `json:"conversation_history" validate:"max=200,dive"`
}

func (r chatRequest) messages() []domain.ChatMessage {
	out := make([]domain.ChatMessage, 0, len(r.ConversationHistory)+1)
	for _, m := range r.ConversationHistory {
		out = append(out, domain.ChatMessage{Role: m.Role, Content: m.Content})
	}
	if r.Message != "" {
		out = append(out, domain.ChatMessage{Role: "user", Content: r.Message})
	}
	return out
}

type chatResponse struct {
	Response string `json:"response"`
}
