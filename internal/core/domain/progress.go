package domain

import (
	"errors"
	"time"
)

var (
	ErrProgressNotFound = errors.New("progress record not found")
	ErrProgressExists   = errors.New("progress record already exists")
)

type ProgressStatus string

const (
	ProgressStarted   ProgressStatus = "started"
	ProgressCompleted ProgressStatus = "completed"
)

func (s ProgressStatus) IsValid() bool {
	return s == ProgressStarted || s == ProgressCompleted
}

// Progress is the state of one lesson for one account. There is at most one
// record per (AccountID, LessonID) and records are never deleted.
type Progress struct {
	AccountID      string         `json:"-"`
	LessonID       string         `json:"lesson_id"`
	Status         ProgressStatus `json:"status"`
	HomeworkPassed bool           `json:"homework_passed"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ProgressUpdate is one client-reported lesson state inside a push.
type ProgressUpdate struct {
	LessonID       string
	Status         ProgressStatus
	HomeworkPassed bool
}

// MergeProgress applies the completion latch. With no existing record the
// update is taken verbatim. An existing record changes only when it is not
// yet completed and the update reports completed; once completed it never
// changes again.
func MergeProgress(accountID string, existing *Progress, in ProgressUpdate, now time.Time) (Progress, bool) {
	if existing == nil {
		return Progress{
			AccountID:      accountID,
			LessonID:       in.LessonID,
			Status:         in.Status,
			HomeworkPassed: in.HomeworkPassed,
			UpdatedAt:      now,
		}, true
	}

	if existing.Status == ProgressCompleted || in.Status != ProgressCompleted {
		return *existing, false
	}

	next := *existing
	next.Status = ProgressCompleted
	next.HomeworkPassed = in.HomeworkPassed
	next.UpdatedAt = now
	return next, true
}
