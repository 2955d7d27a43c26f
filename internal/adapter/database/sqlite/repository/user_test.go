package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"taskflow/internal/adapter/database/sqlite"
	"taskflow/internal/adapter/database/sqlite/repository"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/port"
	"taskflow/internal/core/telemetry"
	. "taskflow/pkg/test"
	"taskflow/pkg/test/factory"
)

type UserRepositoryTestSuite struct {
	suite.Suite
	db   *sqlite.DB
	repo port.UserRepository
}

func (s *UserRepositoryTestSuite) SetupSuite() {
	s.db = InitTestDB()
	s.repo = repository.NewUserRepository(s.db, telemetry.NewNoOpProbe())
}

func (s *UserRepositoryTestSuite) SetupTest() {
	CleanDB(s.T(), s.db)
}

func (s *UserRepositoryTestSuite) TearDownSuite() {
	s.db.Close()
}

func TestUserRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(UserRepositoryTestSuite))
}

func (s *UserRepositoryTestSuite) newUser(email string) domain.User {
	now := time.Now().UTC().Truncate(time.Second)

	return factory.NewUser[domain.User](map[string]any{
		"ID":        0,
		"UUID":      uuid.New(),
		"FullName":  "Ada Lovelace",
		"Email":     email,
		"CreatedAt": now,
		"UpdatedAt": now,
	})
}

func (s *UserRepositoryTestSuite) TestRepository_CreateUser_Success() {
	user, err := s.repo.Create(context.Background(), s.newUser("ada@example.com"))

	assert.NoError(s.T(), err)
	assert.NotZero(s.T(), user.ID)
	assert.Equal(s.T(), "Ada Lovelace", user.FullName)
	assert.NotEmpty(s.T(), user.EncryptedPassword)
}

func (s *UserRepositoryTestSuite) TestRepository_CreateUser_DuplicateEmail() {
	ctx := context.Background()

	_, err := s.repo.Create(ctx, s.newUser("ada@example.com"))
	assert.NoError(s.T(), err)

	_, err = s.repo.Create(ctx, s.newUser("ada@example.com"))
	assert.Error(s.T(), err)
}

func (s *UserRepositoryTestSuite) TestRepository_GetByEmail() {
	ctx := context.Background()

	created, err := s.repo.Create(ctx, s.newUser("ada@example.com"))
	Expect(err).ToNot(HaveOccurred())

	found, err := s.repo.GetByEmail(ctx, "ada@example.com")

	Expect(err).ToNot(HaveOccurred())
	Expect(found.UUID).To(Equal(created.UUID))
	Expect(found.FullName).To(Equal("Ada Lovelace"))
	Expect(found.EncryptedPassword).To(Equal(created.EncryptedPassword))
	Expect(found.CreatedAt.Equal(created.CreatedAt)).To(BeTrue())
}

func (s *UserRepositoryTestSuite) TestRepository_GetByUUID() {
	ctx := context.Background()

	created, _ := s.repo.Create(ctx, s.newUser("ada@example.com"))

	found, err := s.repo.GetByUUID(ctx, created.UUID.String())

	Expect(err).ToNot(HaveOccurred())
	Expect(found.Email).To(Equal("ada@example.com"))
}

func (s *UserRepositoryTestSuite) TestRepository_GetByEmail_NotFound() {
	_, err := s.repo.GetByEmail(context.Background(), "nobody@example.com")

	Expect(err).To(MatchError(domain.ErrUserNotFound))
}
