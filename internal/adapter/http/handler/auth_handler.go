package handler

import (
	"errors"
	"net/http"

	. "taskflow/internal/adapter/http/helper"
	"taskflow/internal/adapter/http/middleware"
	. "taskflow/internal/adapter/http/validation"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/model/request"
	"taskflow/internal/core/model/response"
	"taskflow/internal/core/port"
	"taskflow/internal/core/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	svc    port.AuthService
	logger *zap.Logger
}

func NewAuthHandler(svc port.AuthService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

func (a *AuthHandler) SignUp(c *gin.Context) {
	params, err := util.ParamsToMap[request.SignUpRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	session, err := a.svc.Registration(c.Request.Context(), &params)

	if errors.Is(err, domain.ErrUserExists) {
		SendBadRequestError(c, "email", "User already exists")
		return
	}

	if err != nil {
		a.logger.Error("AuthHandler#SignUp", zap.Error(err))
		SendInternalError(c, "Could not create user")
		return
	}

	c.JSON(http.StatusCreated, response.AuthResponse{
		Message: "User created",
		User:    response.NewUserResponse(session.User),
		Token:   session.Token,
	})
}

func (a *AuthHandler) Login(c *gin.Context) {
	params, err := util.ParamsToMap[request.LoginRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	session, err := a.svc.Authenticate(c.Request.Context(), &params)

	if errors.Is(err, domain.ErrInvalidCredentials) {
		SendBadRequestError(c, "credentials", "Invalid credentials")
		return
	}

	if err != nil {
		a.logger.Error("AuthHandler#Login", zap.Error(err))
		SendInternalError(c, "Could not sign in")
		return
	}

	c.JSON(http.StatusOK, response.AuthResponse{
		Message: "Login success",
		User:    response.NewUserResponse(session.User),
		Token:   session.Token,
	})
}

func (a *AuthHandler) Logout(c *gin.Context) {
	userID := middleware.UserID(c)

	if err := a.svc.Logout(c.Request.Context(), userID); err != nil {
		a.logger.Error("AuthHandler#Logout", zap.String("user_id", userID), zap.Error(err))
		SendInternalError(c, "Could not sign out")
		return
	}

	SendMessage(c, http.StatusOK, "Logged out", domain.LoginRedirect)
}

func (a *AuthHandler) Me(c *gin.Context) {
	dashboard, ok := middleware.Dashboard(c)

	if !ok {
		SendUnauthorizedError(c, "Authentication required")
		return
	}

	profile := dashboard.Profile()

	c.JSON(http.StatusOK, response.ProfileResponse{
		User:     response.NewUserResponse(profile),
		Greeting: profile.Greeting(),
	})
}
