package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"taskflow/internal/adapter/database/memory"
	"taskflow/internal/adapter/database/sqlite/repository"
	"taskflow/internal/adapter/http/middleware"
	"taskflow/internal/core/service"
	"taskflow/internal/core/util"
	"taskflow/pkg/auth"
	. "taskflow/pkg/test"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// newTestRouter wires the real auth and dashboard stack over an in-memory
// SQLite user table and an in-memory snapshot store.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	util.PasswordCost = bcrypt.MinCost

	users := repository.NewUserRepository(InitTestDB(), nil)
	gate := service.NewSessionGate(service.DashboardOptions{
		Snapshots: memory.NewSnapshotRepository(),
		Clock:     FixedClock(Today),
		Location:  time.UTC,
	})
	tokens := auth.NewJWT("test-secret", time.Hour)

	cache := middleware.NewResponseCache(time.Minute, zap.NewNop(), nil)
	authHandler := NewAuthHandler(service.NewAuthService(users, gate, tokens, nil), nil)
	taskHandler := NewTaskHandler(cache, nil)

	router := gin.New()

	public := router.Group("/api/auth")
	public.POST("/signup", authHandler.SignUp)
	public.POST("/login", authHandler.Login)

	protected := router.Group("/api")
	protected.Use(middleware.SessionMiddleware(tokens, gate, zap.NewNop()))
	protected.Use(cache.CacheMiddleware())
	{
		protected.GET("/me", authHandler.Me)
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/stats", taskHandler.Stats)
		protected.GET("/tasks", taskHandler.List)
		protected.POST("/tasks", taskHandler.Create)
		protected.PUT("/tasks/:id", taskHandler.Update)
		protected.DELETE("/tasks/:id", taskHandler.Delete)
		protected.PATCH("/tasks/:id/status", taskHandler.SetStatus)
		protected.PATCH("/tasks/:id/progress", taskHandler.SetProgress)
		protected.POST("/tasks/:id/toggle", taskHandler.Toggle)
	}

	return router
}

func perform(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var payload bytes.Buffer

	if body != nil {
		if raw, ok := body.(string); ok {
			payload.WriteString(raw)
		} else {
			Expect(json.NewEncoder(&payload).Encode(body)).To(Succeed())
		}
	}

	req, _ := http.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	return rr
}

func decode[T any](rr *httptest.ResponseRecorder) T {
	var out T
	Expect(json.Unmarshal(rr.Body.Bytes(), &out)).To(Succeed())
	return out
}

func signUp(router *gin.Engine, email string) string {
	rr := perform(router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"fullName": "Ada Lovelace",
		"email":    email,
		"password": "password123",
	})

	Expect(rr.Code).To(Equal(http.StatusCreated))

	return decode[map[string]any](rr)["token"].(string)
}
