package domain

import "time"

// ArcadeScore is the best score an account has reached in one arcade mode.
type ArcadeScore struct {
	AccountID string    `json:"-"`
	Mode      string    `json:"mode"`
	Score     int       `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}
