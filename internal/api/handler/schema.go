package handler

// errorBody documents the envelope written by the API error handler.
type errorBody struct {
	Detail string `json:"detail" example:"Not authenticated"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
