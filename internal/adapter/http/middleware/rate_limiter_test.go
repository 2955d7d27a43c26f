package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskflow/pkg/config"
	"taskflow/pkg/tracing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

func newRateLimitedRouter(rl *RateLimiter, withUser string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	if withUser != "" {
		router.Use(func(c *gin.Context) {
			c.Set(UserIDKey, withUser)
			c.Next()
		})
	}

	router.Use(rl.RateLimitMiddleware())
	router.POST("/api/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/api/tasks", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/other", func(c *gin.Context) { c.Status(http.StatusOK) })

	return router
}

func hit(router *gin.Engine, method, path, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	req.Header.Set("X-Forwarded-For", ip)
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_MethodRule(t *testing.T) {
	RegisterTestingT(t)

	registry := prometheus.NewRegistry()
	rl := NewRateLimiter(config.GetDefaultConfig().RateLimitConfigs, zap.NewNop(), tracing.NewAppMetrics(registry))
	router := newRateLimitedRouter(rl, "")

	for i := 0; i < 10; i++ {
		w := hit(router, http.MethodPost, "/api/auth/login", "10.0.0.1")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("X-RateLimit-Limit")).To(Equal("10"))
	}

	w := hit(router, http.MethodPost, "/api/auth/login", "10.0.0.1")
	Expect(w.Code).To(Equal(http.StatusTooManyRequests))
	Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal("0"))
	Expect(w.Body.String()).To(ContainSubstring("Too many requests"))

	Expect(hit(router, http.MethodPost, "/api/auth/login", "10.0.0.2").Code).To(Equal(http.StatusOK))
	Expect(testutil.GatherAndCount(registry, "rate_limit_hits_total")).To(Equal(1))
}

func TestRateLimiter_PathAndDefaultRules(t *testing.T) {
	RegisterTestingT(t)

	rl := NewRateLimiter(map[string]config.RateLimitConfig{
		"/api/tasks": {Requests: 2, Window: time.Minute},
	}, zap.NewNop(), nil)
	router := newRateLimitedRouter(rl, "")

	Expect(hit(router, http.MethodGet, "/api/tasks", "1.1.1.1").Header().Get("X-RateLimit-Limit")).To(Equal("2"))
	Expect(hit(router, http.MethodGet, "/other", "1.1.1.1").Header().Get("X-RateLimit-Limit")).To(Equal("60"))
}

func TestRateLimiter_KeysByUser(t *testing.T) {
	RegisterTestingT(t)

	rl := NewRateLimiter(map[string]config.RateLimitConfig{
		"/api/tasks": {Requests: 1, Window: time.Minute},
	}, zap.NewNop(), nil)

	alice := newRateLimitedRouter(rl, "alice")
	bob := newRateLimitedRouter(rl, "bob")

	Expect(hit(alice, http.MethodGet, "/api/tasks", "1.1.1.1").Code).To(Equal(http.StatusOK))
	Expect(hit(alice, http.MethodGet, "/api/tasks", "2.2.2.2").Code).To(Equal(http.StatusTooManyRequests))
	Expect(hit(bob, http.MethodGet, "/api/tasks", "1.1.1.1").Code).To(Equal(http.StatusOK))
}

func TestRateLimiter_WindowResets(t *testing.T) {
	RegisterTestingT(t)

	now := time.Date(2026, time.February, 12, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(map[string]config.RateLimitConfig{
		"default": {Requests: 1, Window: time.Minute},
	}, zap.NewNop(), nil)
	rl.now = func() time.Time { return now }

	router := newRateLimitedRouter(rl, "")

	Expect(hit(router, http.MethodGet, "/other", "1.1.1.1").Code).To(Equal(http.StatusOK))
	Expect(hit(router, http.MethodGet, "/other", "1.1.1.1").Code).To(Equal(http.StatusTooManyRequests))

	now = now.Add(61 * time.Second)
	Expect(hit(router, http.MethodGet, "/other", "1.1.1.1").Code).To(Equal(http.StatusOK))
	Expect(rl.Stats()["configs"]).To(Equal(1))
}
