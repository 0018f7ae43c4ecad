// Package llm calls an OpenAI-compatible chat completions endpoint such as
// OpenRouter.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/codetutor/tutor-api/internal/core/domain"
)

const (
	DefaultEndpoint = "https://openrouter.ai/api/v1/chat/completions"
	defaultTimeout  = 45 * time.Second
	maxErrorBody    = 64 << 10
)

type Config struct {
	Endpoint   string
	Referer    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client is a ports.ChatCompleter backed by a single HTTP POST per call.
type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	return &Client{cfg: cfg}
}

type completionRequest struct {
	Model    string               `json:"model"`
	Messages []domain.ChatMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message domain.ChatMessage `json:"message"`
	} `json:"choices"`
}

// Complete posts the conversation and returns the first choice's content.
// Non-2xx replies come back as *domain.UpstreamError with the body intact.
func (c *Client) Complete(ctx context.Context, req domain.ChatRequest) (string, error) {
	body, err := json.Marshal(completionRequest{Model: req.Model, Messages: req.Messages})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	// The credential only ever travels in this header; it is never part of an error.
	httpReq.Header.Set("Authorization", "Bearer "+req.Credential)
	if c.cfg.Referer != "" {
		httpReq.Header.Set("HTTP-Referer", c.cfg.Referer)
	}

	res, err := c.cfg.HTTPClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("completion request timed out after %s", c.cfg.Timeout)
		}
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		raw, err := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		if err != nil {
			return "", fmt.Errorf("read completion error body: %w", err)
		}
		return "", &domain.UpstreamError{StatusCode: res.StatusCode, Body: string(raw)}
	}

	var payload completionResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}
	return payload.Choices[0].Message.Content, nil
}
