package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/core/domain"
)

func TestTasks_RoundTrip(t *testing.T) {
	tasks := domain.DefaultTasks(time.Date(2026, time.February, 10, 8, 0, 0, 0, time.UTC))

	data, err := EncodeTasks(tasks)
	require.NoError(t, err)

	decoded, err := DecodeTasks(data)
	require.NoError(t, err)
	require.Len(t, decoded, len(tasks))

	for i := range tasks {
		assert.Equal(t, tasks[i].ID, decoded[i].ID)
		assert.Equal(t, tasks[i].Title, decoded[i].Title)
		assert.Equal(t, tasks[i].Status, decoded[i].Status)
		assert.Equal(t, tasks[i].Priority, decoded[i].Priority)
		assert.Equal(t, tasks[i].Progress, decoded[i].Progress)
		assert.True(t, tasks[i].Deadline.Equal(decoded[i].Deadline))
		assert.True(t, tasks[i].CreatedAt.Equal(decoded[i].CreatedAt))
	}
}

func TestEncodeTasks_Empty(t *testing.T) {
	data, err := EncodeTasks(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	decoded, err := DecodeTasks(data)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecodeTasks_Invalid(t *testing.T) {
	cases := map[string]string{
		"not json":         `{{`,
		"not an array":     `{"id":1}`,
		"unknown status":   `[{"id":1,"title":"a","priority":"Low","deadline":"2026-01-01","status":"Done","progress":0}]`,
		"progress too big": `[{"id":1,"title":"a","priority":"Low","deadline":"2026-01-01","status":"Pending","progress":120}]`,
		"missing title":    `[{"id":1,"priority":"Low","deadline":"2026-01-01","status":"Pending","progress":0}]`,
		"bad deadline":     `[{"id":1,"title":"a","priority":"Low","deadline":"tomorrow","status":"Pending","progress":0}]`,
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeTasks([]byte(input))
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}
}

func TestSession_RoundTrip(t *testing.T) {
	session := domain.Session{
		Token:     "token",
		User:      domain.Profile{ID: "8d0c", FullName: "Ada Lovelace", Email: "ada@example.com"},
		CreatedAt: time.Date(2026, time.February, 10, 8, 0, 0, 0, time.UTC),
	}

	data, err := EncodeSession(session)
	require.NoError(t, err)

	decoded, err := DecodeSession(data)
	require.NoError(t, err)
	assert.Equal(t, session.User, decoded.User)
	assert.Equal(t, session.Token, decoded.Token)

	_, err = DecodeSession([]byte(`{"token":"x","user":{}}`))
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
}
