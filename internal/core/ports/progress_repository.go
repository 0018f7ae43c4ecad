package ports

import (
	"context"

	"github.com/codetutor/tutor-api/internal/core/domain"
)

// ProgressRepository persists lesson progress.
type ProgressRepository interface {
	// ListByAccount returns every record of the account ordered by lesson id.
	ListByAccount(ctx context.Context, accountID string) ([]domain.Progress, error)
	// Atomically runs fn in a single unit of work. Writes made through the
	// store are committed together or not at all.
	Atomically(ctx context.Context, fn func(ctx context.Context, store ProgressStore) error) error
}

// ProgressStore is the per-record view used inside Atomically.
type ProgressStore interface {
	// Get returns domain.ErrProgressNotFound when no record exists.
	Get(ctx context.Context, accountID, lessonID string) (*domain.Progress, error)
	// Insert returns domain.ErrProgressExists if the record appeared concurrently.
	Insert(ctx context.Context, p domain.Progress) error
	// Complete writes p only while the stored record is not completed and
	// reports whether the write applied.
	Complete(ctx context.Context, p domain.Progress) (bool, error)
}
