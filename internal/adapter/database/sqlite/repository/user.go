package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"taskflow/internal/adapter/database/sqlite"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/port"
	tel "taskflow/internal/core/telemetry"
)

var userColumns = []string{"id", "uuid", "full_name", "email", "encrypted_password", "created_at", "updated_at"}

type UserRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewUserRepository(db *sqlite.DB, telemetry port.Telemetry) port.UserRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UserRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func (ur *UserRepository) GetByUUID(ctx context.Context, uid string) (domain.User, error) {
	return ur.getBy(ctx, "get_by_uuid", sq.Eq{"uuid": uid})
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return ur.getBy(ctx, "get_by_email", sq.Eq{"email": email})
}

func (ur *UserRepository) getBy(ctx context.Context, operation string, where sq.Eq) (user domain.User, err error) {
	start := time.Now()
	ctx, span := ur.telemetry.StartRepositorySpan(ctx, operation, "user", nil)

	defer func() {
		ur.telemetry.RecordRepositoryOperation(ctx, operation, "user", time.Since(start), err)
		span.End()
	}()

	query, args, err := ur.db.QueryBuilder.Select(userColumns...).
		From("users").
		Where(where).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	user, err = scanUser(ur.db.QueryRowContext(ctx, query, args...))

	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}

	if err != nil {
		span.RecordError(err)
	}

	return user, err
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (saved domain.User, err error) {
	start := time.Now()
	ctx, span := ur.telemetry.StartRepositorySpan(ctx, "create", "user", map[string]interface{}{
		"user.uuid": user.UUID.String(),
	})

	defer func() {
		ur.telemetry.RecordRepositoryOperation(ctx, "create", "user", time.Since(start), err)
		span.End()
	}()

	query, args, err := ur.db.QueryBuilder.Insert("users").
		Columns("uuid", "full_name", "email", "encrypted_password", "created_at", "updated_at").
		Values(user.UUID.String(), user.FullName, user.Email, user.EncryptedPassword, user.CreatedAt, user.UpdatedAt).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	result, err := ur.db.ExecContext(ctx, query, args...)

	if err != nil {
		span.RecordError(err)
		return domain.User{}, err
	}

	id, err := result.LastInsertId()

	if err != nil {
		return domain.User{}, err
	}

	user.ID = int(id)

	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		user domain.User
		uid  string
	)

	err := row.Scan(&user.ID, &uid, &user.FullName, &user.Email, &user.EncryptedPassword, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return domain.User{}, err
	}

	if user.UUID, err = uuid.Parse(uid); err != nil {
		return domain.User{}, err
	}

	return user, nil
}
