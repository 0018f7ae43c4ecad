package ports

import (
	"context"

	"github.com/codetutor/tutor-api/internal/core/domain"
)

// PushResult counts what a push did, for logging and metrics.
type PushResult struct {
	Inserted  int
	Completed int
	Unchanged int
}

type ProgressService interface {
	Push(ctx context.Context, account *domain.Account, updates []domain.ProgressUpdate) (PushResult, error)
	Pull(ctx context.Context, account *domain.Account) ([]domain.Progress, error)
}

type ArcadeService interface {
	RecordScore(ctx context.Context, account *domain.Account, mode string, score int) (domain.ArcadeScore, error)
	ListScores(ctx context.Context, account *domain.Account) ([]domain.ArcadeScore, error)
}
