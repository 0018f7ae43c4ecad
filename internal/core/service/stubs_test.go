package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/codetutor/tutor-api/internal/core/domain"
	"github.com/codetutor/tutor-api/internal/core/ports"
)

type stubAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account // by ID
	createFn func(account *domain.Account) error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createFn != nil {
		if err := r.createFn(account); err != nil {
			return err
		}
	}
	for _, a := range r.accounts {
		if a.Handle == account.Handle {
			return domain.ErrHandleTaken
		}
		if a.Contact == account.Contact {
			return domain.ErrContactTaken
		}
	}
	r.accounts[account.ID] = cloneAccount(account)
	return nil
}

func (r *stubAccountRepo) FindByHandle(_ context.Context, handle string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Handle == handle {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByContact(_ context.Context, contact string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Contact == contact {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) SetVault(_ context.Context, accountID, blob string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[accountID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Vault = blob
	a.UpdatedAt = now
	return nil
}

func (r *stubAccountRepo) UpdateProfile(_ context.Context, accountID string, patch domain.ProfilePatch, now time.Time) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	patch.Apply(a)
	a.UpdatedAt = now
	return cloneAccount(a), nil
}

type progressKey struct{ account, lesson string }

// stubProgressRepo applies a unit of work against a copy and swaps it in on
// success, which gives the same all-or-nothing result as a transaction.
type stubProgressRepo struct {
	mu           sync.Mutex
	records      map[progressKey]domain.Progress
	insertHook   func(p domain.Progress) error
	failOnLesson string
}

func newStubProgressRepo() *stubProgressRepo {
	return &stubProgressRepo{records: make(map[progressKey]domain.Progress)}
}

func (r *stubProgressRepo) ListByAccount(_ context.Context, accountID string) ([]domain.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Progress
	for k, p := range r.records {
		if k.account == accountID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LessonID < out[j].LessonID })
	return out, nil
}

func (r *stubProgressRepo) Atomically(ctx context.Context, fn func(ctx context.Context, store ports.ProgressStore) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	work := &stubProgressStore{repo: r, records: make(map[progressKey]domain.Progress, len(r.records))}
	for k, v := range r.records {
		work.records[k] = v
	}
	if err := fn(ctx, work); err != nil {
		return err
	}
	r.records = work.records
	return nil
}

type stubProgressStore struct {
	repo    *stubProgressRepo
	records map[progressKey]domain.Progress
}

func (s *stubProgressStore) Get(_ context.Context, accountID, lessonID string) (*domain.Progress, error) {
	p, ok := s.records[progressKey{accountID, lessonID}]
	if !ok {
		return nil, domain.ErrProgressNotFound
	}
	return &p, nil
}

func (s *stubProgressStore) Insert(_ context.Context, p domain.Progress) error {
	if s.repo.failOnLesson != "" && p.LessonID == s.repo.failOnLesson {
		return context.DeadlineExceeded
	}
	if s.repo.insertHook != nil {
		if err := s.repo.insertHook(p); err != nil {
			return err
		}
	}
	k := progressKey{p.AccountID, p.LessonID}
	if _, ok := s.records[k]; ok {
		return domain.ErrProgressExists
	}
	s.records[k] = p
	return nil
}

func (s *stubProgressStore) Complete(_ context.Context, p domain.Progress) (bool, error) {
	k := progressKey{p.AccountID, p.LessonID}
	cur, ok := s.records[k]
	if !ok || cur.Status == domain.ProgressCompleted {
		return false, nil
	}
	s.records[k] = p
	return true, nil
}

type stubArcadeRepo struct {
	scores map[progressKey]domain.ArcadeScore
}

func newStubArcadeRepo() *stubArcadeRepo {
	return &stubArcadeRepo{scores: make(map[progressKey]domain.ArcadeScore)}
}

func (r *stubArcadeRepo) RecordBest(_ context.Context, score domain.ArcadeScore) (domain.ArcadeScore, error) {
	k := progressKey{score.AccountID, score.Mode}
	if cur, ok := r.scores[k]; ok && cur.Score >= score.Score {
		return cur, nil
	}
	r.scores[k] = score
	return score, nil
}

func (r *stubArcadeRepo) ListByAccount(_ context.Context, accountID string) ([]domain.ArcadeScore, error) {
	var out []domain.ArcadeScore
	for k, s := range r.scores {
		if k.account == accountID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mode < out[j].Mode })
	return out, nil
}

type stubCompleter struct {
	calls []domain.ChatRequest
	reply string
	err   error
}

func (c *stubCompleter) Complete(_ context.Context, req domain.ChatRequest) (string, error) {
	c.calls = append(c.calls, req)
	return c.reply, c.err
}
