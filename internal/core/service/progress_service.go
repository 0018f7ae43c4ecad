package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/codetutor/tutor-api/internal/core/domain"
	"github.com/codetutor/tutor-api/internal/core/ports"
)

type mergeOutcome int

const (
	outcomeUnchanged mergeOutcome = iota
	outcomeInserted
	outcomeCompleted
)

type progressService struct {
	repo ports.ProgressRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewProgressService returns a ProgressService implementation.
func NewProgressService(repo ports.ProgressRepository, log zerolog.Logger) ports.ProgressService {
	return &progressService{
		repo: repo,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Push merges the client's lesson states into the ledger. All items are
// applied in one unit of work.
func (s *progressService) Push(ctx context.Context, account *domain.Account, updates []domain.ProgressUpdate) (ports.PushResult, error) {
	for i, u := range updates {
		if u.LessonID == "" {
			return ports.PushResult{}, domain.Invalid("item %d: lesson_id is required", i)
		}
		if !u.Status.IsValid() {
			return ports.PushResult{}, domain.Invalid("item %d: status must be one of: started completed", i)
		}
	}
	if len(updates) == 0 {
		return ports.PushResult{}, nil
	}

	var res ports.PushResult
	err := s.repo.Atomically(ctx, func(ctx context.Context, store ports.ProgressStore) error {
		// The unit of work may be retried from the start.
		res = ports.PushResult{}
		for _, u := range updates {
			outcome, err := s.apply(ctx, store, account.ID, u)
			if err != nil {
				return err
			}
			switch outcome {
			case outcomeInserted:
				res.Inserted++
			case outcomeCompleted:
				res.Completed++
			default:
				res.Unchanged++
			}
		}
		return nil
	})
	if err != nil {
		return ports.PushResult{}, fmt.Errorf("push progress: %w", err)
	}

	s.log.Debug().
		Str("account_id", account.ID).
		Int("inserted", res.Inserted).
		Int("completed", res.Completed).
		Int("unchanged", res.Unchanged).
		Msg("progress pushed")
	return res, nil
}

func (s *progressService) apply(ctx context.Context, store ports.ProgressStore, accountID string, u domain.ProgressUpdate) (mergeOutcome, error) {
	// Two passes: an insert that loses a race is re-read and merged again.
	for attempt := 0; attempt < 2; attempt++ {
		existing, err := store.Get(ctx, accountID, u.LessonID)
		if errors.Is(err, domain.ErrProgressNotFound) {
			existing = nil
		} else if err != nil {
			return outcomeUnchanged, err
		}

		next, changed := domain.MergeProgress(accountID, existing, u, s.now())
		if !changed {
			return outcomeUnchanged, nil
		}

		if existing == nil {
			err := store.Insert(ctx, next)
			if errors.Is(err, domain.ErrProgressExists) {
				continue
			}
			if err != nil {
				return outcomeUnchanged, err
			}
			return outcomeInserted, nil
		}

		applied, err := store.Complete(ctx, next)
		if err != nil {
			return outcomeUnchanged, err
		}
		if !applied {
			return outcomeUnchanged, nil
		}
		return outcomeCompleted, nil
	}
	return outcomeUnchanged, fmt.Errorf("lesson %q: concurrent insert did not settle", u.LessonID)
}

func (s *progressService) Pull(ctx context.Context, account *domain.Account) ([]domain.Progress, error) {
	records, err := s.repo.ListByAccount(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("pull progress: %w", err)
	}
	if records == nil {
		records = []domain.Progress{}
	}
	return records, nil
}
