package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskflow/internal/core/domain"
	"taskflow/internal/core/model/request"
	"taskflow/internal/core/port"
	"taskflow/internal/core/util"
)

type AuthService struct {
	repo   port.UserRepository
	gate   port.SessionGate
	tokens port.TokenIssuer
	logger *zap.Logger
	now    Clock
}

func NewAuthService(repo port.UserRepository, gate port.SessionGate, tokens port.TokenIssuer, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AuthService{
		repo:   repo,
		gate:   gate,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

func (as *AuthService) Registration(ctx context.Context, req *request.SignUpRequest) (*domain.Session, error) {
	_, err := as.repo.GetByEmail(ctx, req.Email)

	if err == nil {
		return nil, domain.ErrUserExists
	}

	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	encrypted, err := util.GenerateEncrypt(req.Password)

	if err != nil {
		return nil, fmt.Errorf("error creating encrypted password: %w", err)
	}

	now := as.now().UTC()

	user, err := as.repo.Create(ctx, domain.User{
		UUID:              uuid.New(),
		FullName:          req.FullName,
		Email:             req.Email,
		EncryptedPassword: encrypted,
		CreatedAt:         now,
		UpdatedAt:         now,
	})

	if err != nil {
		return nil, err
	}

	as.logger.Info("Auth#Registration", zap.String("user_id", user.UUID.String()))

	return as.open(ctx, &user)
}

func (as *AuthService) Authenticate(ctx context.Context, req *request.LoginRequest) (*domain.Session, error) {
	user, err := as.repo.GetByEmail(ctx, req.Email)

	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}

	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := util.ComparePassword(req.Password, user.EncryptedPassword); err != nil {
		as.logger.Info("Auth#Authenticate", zap.String("user_id", user.UUID.String()), zap.Error(err))
		return nil, domain.ErrInvalidCredentials
	}

	return as.open(ctx, &user)
}

func (as *AuthService) Logout(ctx context.Context, userID string) error {
	return as.gate.Close(ctx, userID)
}

func (as *AuthService) open(ctx context.Context, user *domain.User) (*domain.Session, error) {
	token, err := as.tokens.Issue(user.UUID.String())

	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	session := domain.Session{
		Token:     token,
		User:      user.Profile(),
		CreatedAt: as.now().UTC(),
	}

	if err := as.gate.Open(ctx, session); err != nil {
		return nil, err
	}

	return &session, nil
}
