package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	database "taskflow/internal/adapter/database/postgres"
	"taskflow/internal/core/port"
)

type SnapshotRepository struct {
	db *database.DB
}

func NewSnapshotRepository(db *database.DB) port.SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (sr *SnapshotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	sql, args, err := sr.db.QueryBuilder.Select("value").
		From("snapshots").
		Where(sq.Eq{"snapshot_key": key}).
		ToSql()

	if err != nil {
		return nil, err
	}

	var value []byte

	err = sr.db.QueryRow(ctx, sql, args...).Scan(&value)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if value == nil {
		value = []byte{}
	}

	return value, nil
}

func (sr *SnapshotRepository) Set(ctx context.Context, key string, value []byte) error {
	sql, args, err := sr.db.QueryBuilder.Insert("snapshots").
		Columns("snapshot_key", "value", "updated_at").
		Values(key, value, time.Now().UTC()).
		Suffix("ON CONFLICT (snapshot_key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()

	if err != nil {
		return err
	}

	_, err = sr.db.Exec(ctx, sql, args...)

	return err
}

func (sr *SnapshotRepository) Delete(ctx context.Context, key string) error {
	sql, args, err := sr.db.QueryBuilder.Delete("snapshots").
		Where(sq.Eq{"snapshot_key": key}).
		ToSql()

	if err != nil {
		return err
	}

	_, err = sr.db.Exec(ctx, sql, args...)

	return err
}

func (sr *SnapshotRepository) Close() error {
	sr.db.Close()
	return nil
}
