package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"taskflow/internal/adapter/database/postgres"
	"taskflow/internal/adapter/database/postgres/repository"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/port"
)

type PostgresRepositoryTestSuite struct {
	suite.Suite
	db        *postgres.DB
	snapshots port.SnapshotRepository
	users     port.UserRepository
}

func (s *PostgresRepositoryTestSuite) SetupSuite() {
	url := os.Getenv("TEST_DATABASE_URL")

	if url == "" {
		s.T().Skip("TEST_DATABASE_URL is not set")
	}

	db, err := postgres.NewDB(context.Background(), url)
	s.Require().NoError(err)

	s.db = db
	s.snapshots = repository.NewSnapshotRepository(db)
	s.users = repository.NewUserRepository(db, nil)
}

func (s *PostgresRepositoryTestSuite) SetupTest() {
	_, err := s.db.Exec(context.Background(), "TRUNCATE snapshots, users")
	s.Require().NoError(err)
}

func (s *PostgresRepositoryTestSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
}

func TestPostgresRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(PostgresRepositoryTestSuite))
}

func (s *PostgresRepositoryTestSuite) TestSnapshot_RoundTrip() {
	ctx := context.Background()
	key := domain.TasksKey("ada")

	value, err := s.snapshots.Get(ctx, key)
	Expect(err).ToNot(HaveOccurred())
	Expect(value).To(BeNil())

	Expect(s.snapshots.Set(ctx, key, []byte(`[1]`))).To(Succeed())
	Expect(s.snapshots.Set(ctx, key, []byte(`[]`))).To(Succeed())

	value, err = s.snapshots.Get(ctx, key)
	Expect(err).ToNot(HaveOccurred())
	Expect(string(value)).To(Equal(`[]`))

	Expect(s.snapshots.Delete(ctx, key)).To(Succeed())

	value, _ = s.snapshots.Get(ctx, key)
	Expect(value).To(BeNil())
}

func (s *PostgresRepositoryTestSuite) TestUser_CreateAndFind() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	created, err := s.users.Create(ctx, domain.User{
		UUID:              uuid.New(),
		FullName:          "Ada Lovelace",
		Email:             "ada@example.com",
		EncryptedPassword: "hash",
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	Expect(err).ToNot(HaveOccurred())
	Expect(created.ID).ToNot(BeZero())

	found, err := s.users.GetByEmail(ctx, "ada@example.com")
	Expect(err).ToNot(HaveOccurred())
	Expect(found.UUID).To(Equal(created.UUID))

	_, err = s.users.GetByUUID(ctx, uuid.NewString())
	Expect(err).To(MatchError(domain.ErrUserNotFound))
}
