package cache_test

import (
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/letterpress/pkg/cache"
)

func TestLRU_Eviction(t *testing.T) {
	t.Parallel()

	var evicted []string
	c := cache.New(2, cache.WithEvictCallback(func(key string, _ int) {
		evicted = append(evicted, key)
	}))

	c.Set("a", 1)
	c.Set("b", 2)
	_, ok := c.Get("a") // a becomes most recent
	require.True(t, ok)
	c.Set("c", 3)

	_, ok = c.Get("b")
	require.False(t, ok)
	require.Equal(t, []string{"b"}, evicted)
	require.Equal(t, 2, c.Len())

	c.Set("a", 10)
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 10, v)

	c.Delete("a")
	_, ok = c.Get("a")
	require.False(t, ok)
	require.Equal(t, 1, c.Len())
}

func TestLRU_Unbounded(t *testing.T) {
	t.Parallel()

	c := cache.New[int](0)
	for i := range 1000 {
		c.Set(strconv.Itoa(i), i)
	}
	require.Equal(t, 1000, c.Len())
}

func TestLRU_GetOrLoad(t *testing.T) {
	t.Parallel()

	c := cache.New[string](10)
	var calls atomic.Int32
	load := func() (string, error) {
		calls.Add(1)
		return "parsed", nil
	}

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrLoad("templates/chips/letter.html", load)
			require.NoError(t, err)
			require.Equal(t, "parsed", v)
		}()
	}
	wg.Wait()
	require.EqualValues(t, 1, calls.Load())
}

func TestLRU_GetOrLoadError(t *testing.T) {
	t.Parallel()

	c := cache.New[string](10)
	boom := errors.New("boom")

	_, err := c.GetOrLoad("k", func() (string, error) { return "", boom })
	require.ErrorIs(t, err, boom)
	require.Zero(t, c.Len())

	v, err := c.GetOrLoad("k", func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	require.Equal(t, "ok", v)
}
