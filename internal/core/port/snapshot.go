package port

import "context"

// SnapshotRepository stores opaque snapshots by key. Get returns nil, nil
// for a missing key.
type SnapshotRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
