package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/codetutor/tutor-api/internal/core/domain"
	"github.com/codetutor/tutor-api/internal/core/ports"
)

type ProgressRepository struct {
	db *sql.DB
}

func NewProgressRepository(db *sql.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

func (r *ProgressRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.Progress, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT account_id, lesson_id, status, homework_passed, updated_at
		   FROM progress WHERE account_id = $1 ORDER BY lesson_id`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	out := []domain.Progress{}
	for rows.Next() {
		var p domain.Progress
		if err := rows.Scan(&p.AccountID, &p.LessonID, &p.Status, &p.HomeworkPassed, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		p.UpdatedAt = p.UpdatedAt.UTC()
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return out, nil
}

func (r *ProgressRepository) Atomically(ctx context.Context, fn func(ctx context.Context, store ports.ProgressStore) error) error {
	return WithTx(ctx, r.db, nil, func(ctx context.Context, tx DBTX) error {
		return fn(ctx, &progressStore{q: tx})
	})
}

type progressStore struct {
	q DBTX
}

// Get locks the row for the rest of the transaction.
func (s *progressStore) Get(ctx context.Context, accountID, lessonID string) (*domain.Progress, error) {
	var p domain.Progress
	err := s.q.QueryRowContext(ctx,
		`SELECT account_id, lesson_id, status, homework_passed, updated_at
		   FROM progress WHERE account_id = $1 AND lesson_id = $2 FOR UPDATE`,
		accountID, lessonID).Scan(&p.AccountID, &p.LessonID, &p.Status, &p.HomeworkPassed, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProgressNotFound
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

func (s *progressStore) Insert(ctx context.Context, p domain.Progress) error {
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO progress (account_id, lesson_id, status, homework_passed, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (account_id, lesson_id) DO NOTHING`,
		p.AccountID, p.LessonID, string(p.Status), p.HomeworkPassed, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert progress: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert progress: %w", err)
	}
	if n == 0 {
		return domain.ErrProgressExists
	}
	return nil
}

func (s *progressStore) Complete(ctx context.Context, p domain.Progress) (bool, error) {
	res, err := s.q.ExecContext(ctx,
		`UPDATE progress SET status = $3, homework_passed = $4, updated_at = $5
		  WHERE account_id = $1 AND lesson_id = $2 AND status <> 'completed'`,
		p.AccountID, p.LessonID, string(p.Status), p.HomeworkPassed, p.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("complete progress: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("complete progress: %w", err)
	}
	return n > 0, nil
}
