package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	database "taskflow/internal/adapter/database/postgres"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/port"
)

var userColumns = []string{"id", "uuid", "full_name", "email", "encrypted_password", "created_at", "updated_at"}

type UserRepository struct {
	db     *database.DB
	logger *zap.Logger
}

func NewUserRepository(db *database.DB, logger *zap.Logger) port.UserRepository {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &UserRepository{db: db, logger: logger}
}

func (ur *UserRepository) GetByUUID(ctx context.Context, uid string) (domain.User, error) {
	return ur.getBy(ctx, sq.Eq{"uuid": uid})
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return ur.getBy(ctx, sq.Eq{"email": email})
}

func (ur *UserRepository) getBy(ctx context.Context, where sq.Eq) (domain.User, error) {
	sql, args, err := ur.db.QueryBuilder.Select(userColumns...).
		From("users").
		Where(where).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	var data domain.User

	err = ur.db.QueryRow(ctx, sql, args...).Scan(
		&data.ID,
		&data.UUID,
		&data.FullName,
		&data.Email,
		&data.EncryptedPassword,
		&data.CreatedAt,
		&data.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}

	if err != nil {
		ur.logger.Error("UserRepository#getBy", zap.Error(err))
		return domain.User{}, err
	}

	return data, nil
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	sql, args, err := ur.db.QueryBuilder.Insert("users").
		Columns("uuid", "full_name", "email", "encrypted_password", "created_at", "updated_at").
		Values(user.UUID, user.FullName, user.Email, user.EncryptedPassword, user.CreatedAt, user.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	if err := ur.db.QueryRow(ctx, sql, args...).Scan(&user.ID); err != nil {
		ur.logger.Error("UserRepository#Create", zap.Error(err))
		return domain.User{}, err
	}

	return user, nil
}
