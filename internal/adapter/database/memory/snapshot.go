package memory

import (
	"context"
	"slices"

	"github.com/patrickmn/go-cache"

	"taskflow/internal/core/port"
)

// snapshotRepository keeps snapshots in process memory. Entries never expire.
type snapshotRepository struct {
	cache *cache.Cache
}

func NewSnapshotRepository() port.SnapshotRepository {
	return &snapshotRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *snapshotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, found := r.cache.Get(key)

	if !found {
		return nil, nil
	}

	return slices.Clone(value.([]byte)), nil
}

func (r *snapshotRepository) Set(ctx context.Context, key string, value []byte) error {
	r.cache.Set(key, slices.Clone(value), cache.NoExpiration)
	return nil
}

func (r *snapshotRepository) Delete(ctx context.Context, key string) error {
	r.cache.Delete(key)
	return nil
}

func (r *snapshotRepository) Close() error {
	r.cache.Flush()
	return nil
}
