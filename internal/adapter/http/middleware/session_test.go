package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskflow/internal/adapter/database/memory"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/model/response"
	"taskflow/internal/core/service"
	"taskflow/pkg/auth"
	. "taskflow/pkg/test"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type SessionMiddlewareSuite struct {
	suite.Suite
	Tokens *auth.JWT
	Gate   *service.SessionGate
	Router *gin.Engine
}

func TestSessionMiddlewareSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(SessionMiddlewareSuite))
}

func (s *SessionMiddlewareSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.Tokens = auth.NewJWT("test-secret", time.Hour)
	s.Gate = service.NewSessionGate(service.DashboardOptions{
		Snapshots: memory.NewSnapshotRepository(),
		Clock:     FixedClock(Today),
		Location:  time.UTC,
	})

	s.Router = gin.New()
	s.Router.Use(CurrentMiddleware())
	s.Router.Use(SessionMiddleware(s.Tokens, s.Gate, zap.NewNop()))
	s.Router.GET("/api/me", func(c *gin.Context) {
		dashboard, ok := Dashboard(c)
		Expect(ok).To(BeTrue())

		c.JSON(http.StatusOK, gin.H{"user": UserID(c), "tasks": len(dashboard.View(domain.ViewQuery{}).Tasks)})
	})
}

func (s *SessionMiddlewareSuite) request(token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/me", nil)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	s.Router.ServeHTTP(w, req)
	return w
}

func (s *SessionMiddlewareSuite) decodeError(w *httptest.ResponseRecorder) response.ErrorResponse {
	var body response.ErrorResponse
	Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
	return body
}

func (s *SessionMiddlewareSuite) TestMissingToken() {
	w := s.request("")

	Expect(w.Code).To(Equal(http.StatusUnauthorized))

	body := s.decodeError(w)
	Expect(body.Message).To(Equal("Authentication required"))
	Expect(body.Redirect).To(Equal(domain.LoginRedirect))
}

func (s *SessionMiddlewareSuite) TestInvalidToken() {
	other := auth.NewJWT("another-secret", time.Hour)
	token, _ := other.Issue("user-1")

	w := s.request(token)

	Expect(w.Code).To(Equal(http.StatusUnauthorized))
	Expect(s.decodeError(w).Message).To(Equal("Invalid token"))
}

func (s *SessionMiddlewareSuite) TestValidTokenWithoutSession() {
	token, _ := s.Tokens.Issue("user-1")

	w := s.request(token)

	Expect(w.Code).To(Equal(http.StatusUnauthorized))
	Expect(s.decodeError(w).Message).To(Equal("Session expired"))
}

func (s *SessionMiddlewareSuite) TestOpenSession() {
	token, _ := s.Tokens.Issue("user-1")
	Expect(s.Gate.Open(context.Background(), domain.Session{
		Token: token,
		User:  domain.Profile{ID: "user-1", FullName: "Ada"},
	})).To(Succeed())

	w := s.request(token)

	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(w.Header().Get(RequestIDHeader)).ToNot(BeEmpty())

	var body map[string]any
	Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
	Expect(body["user"]).To(Equal("user-1"))
	Expect(body["tasks"]).To(BeNumerically("==", 3))
}

func (s *SessionMiddlewareSuite) TestClosedSession() {
	token, _ := s.Tokens.Issue("user-1")
	ctx := context.Background()

	Expect(s.Gate.Open(ctx, domain.Session{Token: token, User: domain.Profile{ID: "user-1"}})).To(Succeed())
	Expect(s.Gate.Close(ctx, "user-1")).To(Succeed())

	Expect(s.request(token).Code).To(Equal(http.StatusUnauthorized))
}
