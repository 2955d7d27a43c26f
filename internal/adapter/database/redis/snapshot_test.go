package redis

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/core/domain"
)

func TestSnapshotRepository(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")

	if url == "" {
		t.Skip("TEST_REDIS_URL is not set")
	}

	ctx := context.Background()
	repo, err := NewSnapshotRepository(ctx, url)
	require.NoError(t, err)
	defer repo.Close()

	key := domain.TasksKey(uuid.NewString())
	defer repo.Delete(ctx, key)

	value, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, repo.Set(ctx, key, []byte(`[]`)))

	value, err = repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(value))

	require.NoError(t, repo.Delete(ctx, key))

	value, err = repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestNewSnapshotRepository_BadURL(t *testing.T) {
	_, err := NewSnapshotRepository(context.Background(), "not a url")
	assert.Error(t, err)
}
