package context

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrent(t *testing.T) {
	t.Run("should store and read values", func(t *testing.T) {
		current := NewCurrent()
		current.Set(RequestIDKey, "req-1")
		current.Set("count", 3)

		id, ok := current.GetString(RequestIDKey)
		assert.True(t, ok)
		assert.Equal(t, "req-1", id)

		_, ok = current.GetString("count")
		assert.False(t, ok)

		all := current.All()
		all["count"] = 4
		assert.Equal(t, 3, current.Get("count"))
	})

	t.Run("should be safe for concurrent writers", func(t *testing.T) {
		current := NewCurrent()
		var wg sync.WaitGroup

		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				current.Set("k", i)
				current.Get("k")
			}(i)
		}

		wg.Wait()
		assert.Len(t, current.All(), 1)
	})

	t.Run("should travel through context", func(t *testing.T) {
		assert.Equal(t, "", RequestID(context.Background()))

		current := NewCurrent()
		current.Set(RequestIDKey, "abc")

		ctx := WithCurrent(context.Background(), current)
		assert.Equal(t, "abc", RequestID(ctx))

		found, ok := FromContext(ctx)
		assert.True(t, ok)
		assert.Same(t, current, found)
	})
}
