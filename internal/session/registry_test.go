package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("connect yields a known id", func(t *testing.T) {
		r := NewRegistry()
		id := r.Connect()
		require.NotEmpty(t, id)
		assert.True(t, r.Known(id))
	})

	t.Run("two connects yield distinct ids", func(t *testing.T) {
		r := NewRegistry()
		a := r.Connect()
		b := r.Connect()
		assert.NotEqual(t, a, b)
		assert.Equal(t, 2, r.Count())
	})

	t.Run("unknown id is rejected", func(t *testing.T) {
		r := NewRegistry()
		assert.False(t, r.Known("never-connected"))
	})

	t.Run("concurrent connects never collide", func(t *testing.T) {
		r := NewRegistry()
		const n = 200
		ids := make([]string, n)
		var wg sync.WaitGroup
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func(i int) {
				defer wg.Done()
				ids[i] = r.Connect()
			}(i)
		}
		wg.Wait()

		seen := make(map[string]struct{}, n)
		for _, id := range ids {
			_, dup := seen[id]
			assert.False(t, dup)
			seen[id] = struct{}{}
		}
		assert.Equal(t, n, r.Count())
	})
}
