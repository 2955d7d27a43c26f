package response

import (
	"taskflow/internal/core/domain"
)

type UserResponse struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func NewUserResponse(p domain.Profile) UserResponse {
	return UserResponse{
		ID:       p.ID,
		FullName: p.FullName,
		Email:    p.Email,
	}
}

type AuthResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
}

type ProfileResponse struct {
	User     UserResponse `json:"user"`
	Greeting string       `json:"greeting"`
}

type MessageResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse always carries a top-level message so clients can show it verbatim.
type ErrorResponse struct {
	Message  string        `json:"message"`
	Redirect string        `json:"redirect,omitempty"`
	Error    ResponseError `json:"error"`
}
