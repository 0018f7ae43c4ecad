package domain

import (
	"errors"
	"fmt"
)

// ErrNoCredential is returned when neither a server key nor a vault key is
// available for an outbound chat call.
var ErrNoCredential = errors.New("no API key available: set one in the vault first")

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a single completion call to the upstream provider.
type ChatRequest struct {
	Model      string
	Messages   []ChatMessage
	Credential string
}

// UpstreamError carries a non-success reply from the chat provider so it can
// be relayed to the caller unchanged.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Body)
}
