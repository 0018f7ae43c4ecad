package handler

import "github.com/codetutor/tutor-api/internal/core/domain"

type progressItem struct {
	LessonID       string `json:"lesson_id" validate:"required,max=128"`
	Status         string `json:"status" validate:"required,oneof=started completed"`
	HomeworkPassed bool   `json:"homework_passed"`
}

// pushRequest wraps the bare JSON array sent to /sync/push so the validator
// can walk it.
type pushRequest struct {
	Items []progressItem `json:"items" validate:"max=1000,dive"`
}

func (r pushRequest) toUpdates() []domain.ProgressUpdate {
	out := make([]domain.ProgressUpdate, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, domain.ProgressUpdate{
			LessonID:       it.LessonID,
			Status:         domain.ProgressStatus(it.Status),
			HomeworkPassed: it.HomeworkPassed,
		})
	}
	return out
}

type arcadeScoreRequest struct {
	Mode  string `json:"mode" validate:"required,max=64"`
	Score *int   `json:"score" validate:"required,gte=0,lte=2147483647"`
}
