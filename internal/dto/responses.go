package dto

import "github.com/playtube/user-service/internal/domain"

// Response is the standard success envelope.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorResponse is the standard failure envelope. Errors carries
// field-level detail when present; internal failure detail never
// crosses this boundary.
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors,omitempty"`
}

// NewResponse builds a success envelope.
func NewResponse(status int, data any, message string) Response {
	return Response{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	}
}

// LoginResponse is the data payload of a successful login: the
// sanitized user plus both tokens (also set as cookies).
type LoginResponse struct {
	User         domain.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// RefreshResponse is the data payload of a successful token refresh.
type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
