package handler

type registerRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=64"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	FirstName   string `json:"first_name,omitempty" validate:"max=100"`
	LastName    string `json:"last_name,omitempty" validate:"max=100"`
	DateOfBirth string `json:"dob,omitempty" validate:"max=32"`
}

// tokenRequest accepts both a JSON body and the OAuth2 password-grant form
// encoding used by the web client.
type tokenRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func newTokenResponse(token string) tokenResponse {
	return tokenResponse{AccessToken: token, TokenType: "bearer"}
}
