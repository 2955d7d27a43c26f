package port

import (
	"context"

	"taskflow/internal/core/domain"
	"taskflow/internal/core/model/request"
)

type AuthService interface {
	Registration(ctx context.Context, req *request.SignUpRequest) (*domain.Session, error)
	Authenticate(ctx context.Context, req *request.LoginRequest) (*domain.Session, error)
	Logout(ctx context.Context, userID string) error
}

// TokenIssuer signs and verifies access tokens carrying the user UUID.
type TokenIssuer interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
}
