package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codetutor/tutor-api/internal/core/domain"
)

var convo = []domain.ChatMessage{
	{Role: "system", Content: "you are a python tutor"},
	{Role: "user", Content: "what is a tuple?"},
}

func TestClient_Complete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "https://tutor.example", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "some/model", body.Model)
		assert.Equal(t, convo, body.Messages)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"an immutable sequence"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, Referer: "https://tutor.example"})
	reply, err := c.Complete(context.Background(), domain.ChatRequest{Model: "some/model", Messages: convo, Credential: "sk-test"})

	require.NoError(t, err)
	assert.Equal(t, "an immutable sequence", reply)
}

func TestClient_Complete_UpstreamErrorVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"insufficient credits"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL})
	_, err := c.Complete(context.Background(), domain.ChatRequest{Model: "m", Messages: convo, Credential: "sk-test"})

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusPaymentRequired, upstream.StatusCode)
	assert.Equal(t, `{"error":{"message":"insufficient credits"}}`, upstream.Body)
	assert.NotContains(t, err.Error(), "sk-test")
}

func TestClient_Complete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewClient(Config{Endpoint: srv.URL}).Complete(context.Background(), domain.ChatRequest{Messages: convo, Credential: "k"})

	require.Error(t, err)
	var upstream *domain.UpstreamError
	assert.False(t, errors.As(err, &upstream))
}

func TestClient_Complete_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(Config{Endpoint: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Complete(context.Background(), domain.ChatRequest{Messages: convo, Credential: "k"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{})
	assert.Equal(t, DefaultEndpoint, c.cfg.Endpoint)
	assert.Equal(t, 45*time.Second, c.cfg.Timeout)
	assert.NotNil(t, c.cfg.HTTPClient)
}
