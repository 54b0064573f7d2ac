package presets

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheGetOrLoad(t *testing.T) {
	cache := NewCache[int]()
	calls := 0
	load := func() (int, error) {
		calls++
		return 42, nil
	}

	v, err := cache.GetOrLoad("a", load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = cache.GetOrLoad("a", load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)

	assert.True(t, cache.Invalidate("a"))
	_, err = cache.GetOrLoad("a", load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCacheFailedLoadIsNotCached(t *testing.T) {
	cache := NewCache[string]()
	boom := errors.New("boom")

	_, err := cache.GetOrLoad("a", func() (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, cache.Len())

	_, ok := cache.Get("a")
	assert.False(t, ok)
}

func TestCacheKeysAndClear(t *testing.T) {
	cache := NewCache[string]()
	cache.Set("b", "2")
	cache.Set("a", "1")

	assert.Equal(t, []string{"a", "b"}, cache.Keys())
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, cache.Snapshot())

	cache.Clear()
	assert.Empty(t, cache.Keys())
	assert.Equal(t, 0, cache.Len())
}

func TestCacheConcurrentAccess(t *testing.T) {
	cache := NewCache[int]()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _ = cache.GetOrLoad("shared", func() (int, error) { return 7, nil })
			if n%5 == 0 {
				cache.Invalidate("shared")
			}
		}(i)
	}
	wg.Wait()

	v, err := cache.GetOrLoad("shared", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}
