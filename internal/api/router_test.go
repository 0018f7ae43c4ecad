package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/codetutor/tutor-api/internal/core/domain"
	"github.com/codetutor/tutor-api/internal/core/ports"
)

// sessionAccounts resolves "Bearer good" to a fixed account and rejects the
// rest. Only the methods the router tests reach are implemented.
type sessionAccounts struct {
	ports.AccountService
}

func (sessionAccounts) ResolveSession(_ context.Context, token string) (*domain.Account, error) {
	if token == "good" {
		return &domain.Account{ID: "acc_1", Handle: "alice", Contact: "alice@example.com", Title: domain.DefaultTitle, Level: 1}, nil
	}
	return nil, domain.ErrUnauthenticated
}

type echoChat struct {
	account *domain.Account
}

func (c *echoChat) Chat(_ context.Context, account *domain.Account, in ports.ChatInput) (string, error) {
	c.account = account
	if account == nil {
		return "", domain.ErrNoCredential
	}
	return "hello " + account.Handle, nil
}

func newTestRouter(chat ports.ChatService) *echo.Echo {
	return NewRouter(Deps{
		Accounts:    sessionAccounts{},
		Chat:        chat,
		CORSOrigins: []string{"*"},
		Registry:    prometheus.NewRegistry(),
		Log:         zerolog.Nop(),
	})
}

func serve(e *echo.Echo, method, target, auth, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicRoutes(t *testing.T) {
	e := newTestRouter(&echoChat{})

	for _, path := range []string{"/", "/health", "/health/ready", "/metrics"} {
		if rec := serve(e, http.MethodGet, path, "", ""); rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	e := newTestRouter(&echoChat{})

	routes := []struct{ method, path string }{
		{http.MethodGet, "/users/me"},
		{http.MethodPatch, "/users/me"},
		{http.MethodPost, "/vault"},
		{http.MethodPost, "/sync/push"},
		{http.MethodGet, "/sync/pull"},
		{http.MethodPost, "/arcade/scores"},
		{http.MethodGet, "/arcade/scores"},
	}
	for _, r := range routes {
		for _, auth := range []string{"", "Token good", "Bearer expired"} {
			rec := serve(e, r.method, r.path, auth, "")
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("%s %s with %q: expected 401, got %d", r.method, r.path, auth, rec.Code)
			}
			if rec.Header().Get(echo.HeaderWWWAuthenticate) != "Bearer" {
				t.Fatalf("%s %s: missing WWW-Authenticate challenge", r.method, r.path)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Detail != "Not authenticated" {
				t.Fatalf("%s %s: unexpected body %s", r.method, r.path, rec.Body.String())
			}
		}
	}
}

func TestRouter_MeWithToken(t *testing.T) {
	e := newTestRouter(&echoChat{})

	rec := serve(e, http.MethodGet, "/users/me", "Bearer good", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"username":"alice"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestRouter_ChatOptionalAuth(t *testing.T) {
	chat := &echoChat{}
	e := newTestRouter(chat)

	rec := serve(e, http.MethodPost, "/api/ai/chat", "", `{"message":"hi"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("anonymous without server key: expected 400, got %d", rec.Code)
	}
	if chat.account != nil {
		t.Fatalf("expected anonymous chat")
	}

	rec = serve(e, http.MethodPost, "/api/ai/chat", "Bearer good", `{"message":"hi"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "hello alice") {
		t.Fatalf("signed-in chat: %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(e, http.MethodPost, "/api/ai/chat", "Bearer expired", `{"message":"hi"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token on chat: expected 401, got %d", rec.Code)
	}
}

func TestRouter_OAuthRoutesOnlyWhenConfigured(t *testing.T) {
	e := newTestRouter(&echoChat{})

	if rec := serve(e, http.MethodGet, "/auth/google/login", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without a provider, got %d", rec.Code)
	}
}
