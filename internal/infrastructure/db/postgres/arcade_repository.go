package postgres

import (
	"context"
	"fmt"

	"github.com/codetutor/tutor-api/internal/core/domain"
)

type ArcadeRepository struct {
	db DBTX
}

func NewArcadeRepository(db DBTX) *ArcadeRepository {
	return &ArcadeRepository{db: db}
}

// RecordBest upserts the score and overwrites an existing row only when the
// new score is higher, then reads back the kept best.
func (r *ArcadeRepository) RecordBest(ctx context.Context, s domain.ArcadeScore) (domain.ArcadeScore, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO arcade_scores (account_id, mode, score, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (account_id, mode) DO UPDATE
		    SET score = EXCLUDED.score, updated_at = EXCLUDED.updated_at
		  WHERE arcade_scores.score < EXCLUDED.score`,
		s.AccountID, s.Mode, s.Score, s.UpdatedAt)
	if err != nil {
		return domain.ArcadeScore{}, fmt.Errorf("record score: %w", err)
	}

	var best domain.ArcadeScore
	err = r.db.QueryRowContext(ctx,
		`SELECT account_id, mode, score, updated_at FROM arcade_scores WHERE account_id = $1 AND mode = $2`,
		s.AccountID, s.Mode).Scan(&best.AccountID, &best.Mode, &best.Score, &best.UpdatedAt)
	if err != nil {
		return domain.ArcadeScore{}, fmt.Errorf("read best score: %w", err)
	}
	best.UpdatedAt = best.UpdatedAt.UTC()
	return best, nil
}

func (r *ArcadeRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.ArcadeScore, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT account_id, mode, score, updated_at FROM arcade_scores WHERE account_id = $1 ORDER BY mode`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	out := []domain.ArcadeScore{}
	for rows.Next() {
		var s domain.ArcadeScore
		if err := rows.Scan(&s.AccountID, &s.Mode, &s.Score, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		s.UpdatedAt = s.UpdatedAt.UTC()
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return out, nil
}
