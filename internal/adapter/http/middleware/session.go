package middleware

import (
	"errors"
	"strings"

	"taskflow/internal/adapter/http/helper"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/port"
	ct "taskflow/pkg/context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	UserIDKey    = "x-user-id"
	DashboardKey = "dashboard"
)

// SessionMiddleware admits requests carrying a valid bearer token whose user
// still holds a session marker, and exposes that user's dashboard.
func SessionMiddleware(tokens port.TokenIssuer, gate port.SessionGate, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")

		if !found || token == "" {
			helper.SendUnauthorizedError(c, "Authentication required")
			return
		}

		userID, err := tokens.Verify(token)

		if err != nil {
			helper.SendUnauthorizedError(c, "Invalid token")
			return
		}

		dashboard, err := gate.Enter(c.Request.Context(), userID)

		if errors.Is(err, domain.ErrNoSession) {
			helper.SendUnauthorizedError(c, "Session expired")
			return
		}

		if err != nil {
			logger.Error("SessionMiddleware#Enter", zap.String("user_id", userID), zap.Error(err))
			helper.SendInternalError(c, "Could not open dashboard")
			return
		}

		GetCurrent(c).Set(ct.UserIDKey, userID)

		c.Set(UserIDKey, userID)
		c.Set(DashboardKey, dashboard)

		c.Next()
	}
}

func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func Dashboard(c *gin.Context) (port.Dashboard, bool) {
	value, ok := c.Get(DashboardKey)

	if !ok {
		return nil, false
	}

	dashboard, ok := value.(port.Dashboard)
	return dashboard, ok
}
