package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"taskflow/internal/adapter/database/sqlite"
	"taskflow/internal/core/port"
	tel "taskflow/internal/core/telemetry"
)

type SnapshotRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewSnapshotRepository(db *sqlite.DB, telemetry port.Telemetry) port.SnapshotRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &SnapshotRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func (sr *SnapshotRepository) Get(ctx context.Context, key string) (value []byte, err error) {
	start := time.Now()
	ctx, span := sr.telemetry.StartRepositorySpan(ctx, "get", "snapshot", map[string]interface{}{"snapshot.key": key})

	defer func() {
		sr.telemetry.RecordRepositoryOperation(ctx, "get", "snapshot", time.Since(start), err)
		span.End()
	}()

	query, args, err := sr.db.QueryBuilder.Select("value").
		From("snapshots").
		Where(sq.Eq{"snapshot_key": key}).
		ToSql()

	if err != nil {
		return nil, err
	}

	err = sr.db.QueryRowContext(ctx, query, args...).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if value == nil {
		value = []byte{}
	}

	return value, nil
}

func (sr *SnapshotRepository) Set(ctx context.Context, key string, value []byte) (err error) {
	start := time.Now()
	ctx, span := sr.telemetry.StartRepositorySpan(ctx, "set", "snapshot", map[string]interface{}{
		"snapshot.key":  key,
		"snapshot.size": len(value),
	})

	defer func() {
		sr.telemetry.RecordRepositoryOperation(ctx, "set", "snapshot", time.Since(start), err)
		span.End()
	}()

	query, args, err := sr.db.QueryBuilder.Insert("snapshots").
		Columns("snapshot_key", "value", "updated_at").
		Values(key, value, time.Now().UTC()).
		Suffix("ON CONFLICT(snapshot_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()

	if err != nil {
		return err
	}

	if _, err = sr.db.ExecContext(ctx, query, args...); err != nil {
		span.RecordError(err)
	}

	return err
}

func (sr *SnapshotRepository) Delete(ctx context.Context, key string) (err error) {
	start := time.Now()
	ctx, span := sr.telemetry.StartRepositorySpan(ctx, "delete", "snapshot", map[string]interface{}{"snapshot.key": key})

	defer func() {
		sr.telemetry.RecordRepositoryOperation(ctx, "delete", "snapshot", time.Since(start), err)
		span.End()
	}()

	query, args, err := sr.db.QueryBuilder.Delete("snapshots").
		Where(sq.Eq{"snapshot_key": key}).
		ToSql()

	if err != nil {
		return err
	}

	_, err = sr.db.ExecContext(ctx, query, args...)

	return err
}

func (sr *SnapshotRepository) Close() error {
	return sr.db.Close()
}
