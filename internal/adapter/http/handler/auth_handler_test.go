package handler

import (
	"net/http"
	"testing"

	"taskflow/internal/core/domain"
	"taskflow/internal/core/model/response"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

type AuthHandlerSuite struct {
	suite.Suite
	Router *gin.Engine
}

func (s *AuthHandlerSuite) SetupTest() {
	s.Router = newTestRouter()
}

func TestAuthHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(AuthHandlerSuite))
}

func (s *AuthHandlerSuite) TestSignUpSuccess() {
	rr := perform(s.Router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"fullName": "Ada Lovelace",
		"email":    "ada@example.com",
		"password": "password123",
	})

	Expect(rr.Code).To(Equal(http.StatusCreated))

	body := decode[response.AuthResponse](rr)
	Expect(body.Message).To(Equal("User created"))
	Expect(body.User.Email).To(Equal("ada@example.com"))
	Expect(body.User.FullName).To(Equal("Ada Lovelace"))
	Expect(body.User.ID).To(HaveLen(36))
	Expect(body.Token).ToNot(BeEmpty())
}

func (s *AuthHandlerSuite) TestSignUpValidationError() {
	rr := perform(s.Router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"email":    "invalid-email",
		"password": "123",
	})

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	body := decode[response.ErrorResponse](rr)
	Expect(body.Error.Code).To(Equal("VALIDATION_ERROR"))
	Expect(len(body.Error.Errors)).To(BeNumerically(">=", 3))
	Expect(body.Message).ToNot(BeEmpty())
}

func (s *AuthHandlerSuite) TestSignUpMalformedBody() {
	rr := perform(s.Router, http.MethodPost, "/api/auth/signup", "", `{"email":`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(decode[response.ErrorResponse](rr).Error.Code).To(Equal("BAD_REQUEST"))
}

func (s *AuthHandlerSuite) TestSignUpDuplicate() {
	signUp(s.Router, "ada@example.com")

	rr := perform(s.Router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"fullName": "Someone Else",
		"email":    "ada@example.com",
		"password": "password123",
	})

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(decode[response.ErrorResponse](rr).Message).To(Equal("User already exists"))
}

func (s *AuthHandlerSuite) TestLoginSuccess() {
	signUp(s.Router, "ada@example.com")

	rr := perform(s.Router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "ada@example.com",
		"password": "password123",
	})

	Expect(rr.Code).To(Equal(http.StatusOK))

	body := decode[response.AuthResponse](rr)
	Expect(body.Message).To(Equal("Login success"))
	Expect(body.Token).ToNot(BeEmpty())

	me := perform(s.Router, http.MethodGet, "/api/me", body.Token, nil)
	Expect(me.Code).To(Equal(http.StatusOK))
}

func (s *AuthHandlerSuite) TestLoginInvalidCredentials() {
	signUp(s.Router, "ada@example.com")

	for _, payload := range []gin.H{
		{"email": "ada@example.com", "password": "wrongpassword"},
		{"email": "nobody@example.com", "password": "password123"},
	} {
		rr := perform(s.Router, http.MethodPost, "/api/auth/login", "", payload)

		Expect(rr.Code).To(Equal(http.StatusBadRequest))
		Expect(decode[response.ErrorResponse](rr).Message).To(Equal("Invalid credentials"))
	}
}

func (s *AuthHandlerSuite) TestMe() {
	token := signUp(s.Router, "ada@example.com")

	rr := perform(s.Router, http.MethodGet, "/api/me", token, nil)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body := decode[response.ProfileResponse](rr)
	Expect(body.Greeting).To(Equal("Welcome back, Ada Lovelace!"))
	Expect(body.User.Email).To(Equal("ada@example.com"))
}

func (s *AuthHandlerSuite) TestLogout() {
	token := signUp(s.Router, "ada@example.com")

	rr := perform(s.Router, http.MethodPost, "/api/auth/logout", token, nil)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body := decode[response.MessageResponse](rr)
	Expect(body.Redirect).To(Equal(domain.LoginRedirect))

	after := perform(s.Router, http.MethodGet, "/api/tasks", token, nil)
	Expect(after.Code).To(Equal(http.StatusUnauthorized))
	Expect(decode[response.ErrorResponse](after).Redirect).To(Equal(domain.LoginRedirect))
}

func (s *AuthHandlerSuite) TestMissingToken() {
	rr := perform(s.Router, http.MethodGet, "/api/tasks", "", nil)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
	Expect(decode[response.ErrorResponse](rr).Redirect).To(Equal(domain.LoginRedirect))
}
