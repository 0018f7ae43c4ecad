package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"

	"github.com/codetutor/tutor-api/internal/api/metrics"
	"github.com/codetutor/tutor-api/internal/core/domain"
	"github.com/codetutor/tutor-api/internal/core/ports"
)

type stubProvider struct {
	identity domain.FederatedIdentity
	err      error
}

func (p *stubProvider) Name() string { return "google" }

func (p *stubProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + url.QueryEscape(state)
}

func (p *stubProvider) Exchange(_ context.Context, code string) (domain.FederatedIdentity, error) {
	if code != "good-code" {
		return domain.FederatedIdentity{}, domain.ErrUnauthenticated
	}
	return p.identity, p.err
}

type stubStateStore struct {
	issued map[string]bool
}

func (s *stubStateStore) Issue(context.Context) (string, error) {
	if s.issued == nil {
		s.issued = map[string]bool{}
	}
	s.issued["state-1"] = true
	return "state-1", nil
}

func (s *stubStateStore) Consume(_ context.Context, state string) error {
	if !s.issued[state] {
		return domain.ErrOAuthState
	}
	delete(s.issued, state)
	return nil
}

func newOAuthHandler(accounts *stubAccountService, states *stubStateStore) *OAuthHandler {
	provider := &stubProvider{identity: domain.FederatedIdentity{
		Provider: "google", Subject: "123", Email: "alice@example.com", EmailVerified: true,
	}}
	return NewOAuthHandler(provider, states, accounts, "http://localhost:5173/login", zerolog.Nop())
}

func TestOAuthHandler_Login_Redirects(t *testing.T) {
	e := newTestEcho()
	states := &stubStateStore{}
	c, rec := newContext(e, http.MethodGet, "/auth/google/login", "", "", nil)

	if err := newOAuthHandler(&stubAccountService{}, states).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://accounts.example.com/auth?state=state-1" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestOAuthHandler_Callback_IssuesToken(t *testing.T) {
	e := newTestEcho()
	states := &stubStateStore{issued: map[string]bool{"state-1": true}}
	accounts := &stubAccountService{
		federatedFn: func(_ context.Context, identity domain.FederatedIdentity) (ports.FederatedSession, error) {
			if identity.Email != "alice@example.com" {
				t.Fatalf("unexpected identity %+v", identity)
			}
			return ports.FederatedSession{Account: alice(), Token: "tok"}, nil
		},
	}
	c, rec := newContext(e, http.MethodGet, "/auth/google/callback?state=state-1&code=good-code", "", "", nil)

	if err := newOAuthHandler(accounts, states).Callback(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "http://localhost:5173/login?token=tok" {
		t.Fatalf("unexpected location %q", loc)
	}
	if states.issued["state-1"] {
		t.Fatalf("state must be single use")
	}
}

func TestOAuthHandler_Callback_RejectsUnknownState(t *testing.T) {
	e := newTestEcho()
	c, _ := newContext(e, http.MethodGet, "/auth/google/callback?state=forged&code=good-code", "", "", nil)

	err := newOAuthHandler(&stubAccountService{}, &stubStateStore{}).Callback(c)
	if !errors.Is(err, domain.ErrOAuthState) {
		t.Fatalf("expected ErrOAuthState, got %v", err)
	}
}

func TestOAuthHandler_Callback_BadCode(t *testing.T) {
	e := newTestEcho()
	states := &stubStateStore{issued: map[string]bool{"state-1": true}}
	c, _ := newContext(e, http.MethodGet, "/auth/google/callback?state=state-1&code=bad", "", "", nil)

	err := newOAuthHandler(&stubAccountService{}, states).Callback(c)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestTokenRedirect_KeepsExistingQuery(t *testing.T) {
	got, err := tokenRedirect("https://app.example.com/cb?from=google", "a b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://app.example.com/cb?from=google&token=a+b" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestOAuthHandler_Callback_CountsNewAccountsOnly(t *testing.T) {
	created := true
	accounts := &stubAccountService{
		federatedFn: func(context.Context, domain.FederatedIdentity) (ports.FederatedSession, error) {
			return ports.FederatedSession{Account: alice(), Token: "tok", Created: created}, nil
		},
	}
	registrations := metrics.RegistrationsTotal.WithLabelValues("google")
	before := counterValue(t, registrations)

	for _, isNew := range []bool{true, false} {
		created = isNew
		e := newTestEcho()
		states := &stubStateStore{issued: map[string]bool{"state-1": true}}
		c, _ := newContext(e, http.MethodGet, "/auth/google/callback?state=state-1&code=good-code", "", "", nil)
		if err := newOAuthHandler(accounts, states).Callback(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
	}

	if got := counterValue(t, registrations) - before; got != 1 {
		t.Fatalf("expected one federated registration counted, got %v", got)
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}
