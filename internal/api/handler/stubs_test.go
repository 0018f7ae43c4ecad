package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/codetutor/tutor-api/internal/api/middleware"
	"github.com/codetutor/tutor-api/internal/core/domain"
	"github.com/codetutor/tutor-api/internal/core/ports"
)

type stubAccountService struct {
	registerFn     func(ctx context.Context, in ports.RegisterInput) (*domain.Account, string, error)
	authenticateFn func(ctx context.Context, handle, secret string) (string, error)
	federatedFn    func(ctx context.Context, identity domain.FederatedIdentity) (ports.FederatedSession, error)
	updateFn       func(ctx context.Context, account *domain.Account, patch domain.ProfilePatch) (*domain.Account, error)
	vaultFn        func(ctx context.Context, account *domain.Account, blob string) error
}

func (s *stubAccountService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, string, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAccountService) Authenticate(ctx context.Context, handle, secret string) (string, error) {
	return s.authenticateFn(ctx, handle, secret)
}

func (s *stubAccountService) FederatedLogin(ctx context.Context, identity domain.FederatedIdentity) (ports.FederatedSession, error) {
	return s.federatedFn(ctx, identity)
}

func (s *stubAccountService) ResolveSession(context.Context, string) (*domain.Account, error) {
	return nil, domain.ErrUnauthenticated
}

func (s *stubAccountService) UpdateProfile(ctx context.Context, account *domain.Account, patch domain.ProfilePatch) (*domain.Account, error) {
	return s.updateFn(ctx, account, patch)
}

func (s *stubAccountService) UpdateVault(ctx context.Context, account *domain.Account, blob string) error {
	return s.vaultFn(ctx, account, blob)
}

type stubProgressService struct {
	pushed  []domain.ProgressUpdate
	pushErr error
	records []domain.Progress
}

func (s *stubProgressService) Push(_ context.Context, _ *domain.Account, updates []domain.ProgressUpdate) (ports.PushResult, error) {
	s.pushed = updates
	return ports.PushResult{Inserted: len(updates)}, s.pushErr
}

func (s *stubProgressService) Pull(context.Context, *domain.Account) ([]domain.Progress, error) {
	if s.records == nil {
		return []domain.Progress{}, nil
	}
	return s.records, nil
}

type stubArcadeService struct {
	best map[string]int
}

func (s *stubArcadeService) RecordScore(_ context.Context, _ *domain.Account, mode string, score int) (domain.ArcadeScore, error) {
	if s.best == nil {
		s.best = map[string]int{}
	}
	if score > s.best[mode] {
		s.best[mode] = score
	}
	return domain.ArcadeScore{Mode: mode, Score: s.best[mode]}, nil
}

func (s *stubArcadeService) ListScores(context.Context, *domain.Account) ([]domain.ArcadeScore, error) {
	out := []domain.ArcadeScore{}
	for mode, score := range s.best {
		out = append(out, domain.ArcadeScore{Mode: mode, Score: score})
	}
	return out, nil
}

type stubChatService struct {
	gotAccount *domain.Account
	gotInput   ports.ChatInput
	reply      string
	err        error
}

func (s *stubChatService) Chat(_ context.Context, account *domain.Account, in ports.ChatInput) (string, error) {
	s.gotAccount = account
	s.gotInput = in
	return s.reply, s.err
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newContext builds a request context. account, when set, is injected the way
// the auth middleware would.
func newContext(e *echo.Echo, method, target, contentType, body string, account *domain.Account) (echo.Context, *httptest.ResponseRecorder) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if account != nil {
		middleware.SetAccount(c, account)
	}
	return c, rec
}

func alice() *domain.Account {
	a := domain.NewAccount("acc_1", "alice", "alice@example.com", "hash", testTime)
	a.Vault = "sk-secret"
	return a
}
