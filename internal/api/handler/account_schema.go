package handler

import "github.com/codetutor/tutor-api/internal/core/domain"

// updateProfileRequest uses pointers so that absent fields are left alone and
// an explicit empty string clears a field.
type updateProfileRequest struct {
	FirstName   *string `json:"first_name" validate:"omitnil,max=100"`
	LastName    *string `json:"last_name" validate:"omitnil,max=100"`
	DateOfBirth *string `json:"dob" validate:"omitnil,max=32"`
	Title       *string `json:"title" validate:"omitnil,max=64"`
	AvatarURL   *string `json:"avatar_url" validate:"omitnil,max=2048"`
}

func (r updateProfileRequest) toPatch() domain.ProfilePatch {
	return domain.ProfilePatch{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		DateOfBirth: r.DateOfBirth,
		Title:       r.Title,
		AvatarURL:   r.AvatarURL,
	}
}

// vaultRequest carries the learner's own provider key. Its content is never
// validated or echoed back.
type vaultRequest struct {
	APIKey string `json:"api_key"`
}
