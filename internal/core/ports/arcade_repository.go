package ports

import (
	"context"

	"github.com/codetutor/tutor-api/internal/core/domain"
)

type ArcadeRepository interface {
	// RecordBest stores score unless a higher one is already kept for the
	// same mode and returns the resulting best.
	RecordBest(ctx context.Context, score domain.ArcadeScore) (domain.ArcadeScore, error)
	ListByAccount(ctx context.Context, accountID string) ([]domain.ArcadeScore, error)
}
