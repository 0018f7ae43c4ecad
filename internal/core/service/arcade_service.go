package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/codetutor/tutor-api/internal/core/domain"
	"github.com/codetutor/tutor-api/internal/core/ports"
)

const (
	maxArcadeModeLen = 64
	// maxArcadeScore is the largest value both stores can hold.
	maxArcadeScore = math.MaxInt32
)

type arcadeService struct {
	repo ports.ArcadeRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewArcadeService returns an ArcadeService implementation.
func NewArcadeService(repo ports.ArcadeRepository, log zerolog.Logger) ports.ArcadeService {
	return &arcadeService{
		repo: repo,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// RecordScore keeps the highest score per mode; lower scores leave the stored
// best untouched.
func (s *arcadeService) RecordScore(ctx context.Context, account *domain.Account, mode string, score int) (domain.ArcadeScore, error) {
	if mode == "" || len(mode) > maxArcadeModeLen {
		return domain.ArcadeScore{}, domain.Invalid("mode must be between 1 and %d characters", maxArcadeModeLen)
	}
	if score < 0 || score > maxArcadeScore {
		return domain.ArcadeScore{}, domain.Invalid("score must be between 0 and %d", maxArcadeScore)
	}

	best, err := s.repo.RecordBest(ctx, domain.ArcadeScore{
		AccountID: account.ID,
		Mode:      mode,
		Score:     score,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return domain.ArcadeScore{}, fmt.Errorf("record score: %w", err)
	}
	return best, nil
}

func (s *arcadeService) ListScores(ctx context.Context, account *domain.Account) ([]domain.ArcadeScore, error) {
	scores, err := s.repo.ListByAccount(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	if scores == nil {
		scores = []domain.ArcadeScore{}
	}
	return scores, nil
}
