package refcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrSetCachesLookups(t *testing.T) {
	c := New(time.Minute)
	calls := 0
	lookup := func(context.Context) (any, error) {
		calls++
		return "person-1", nil
	}

	v, err := c.GetOrSet(context.Background(), "player:row-1", lookup)
	require.NoError(t, err)
	assert.Equal(t, "person-1", v)

	v, err = c.GetOrSet(context.Background(), "player:row-1", lookup)
	require.NoError(t, err)
	assert.Equal(t, "person-1", v)
	assert.Equal(t, 1, calls)
}

func TestGetOrSetDoesNotCacheErrors(t *testing.T) {
	c := New(time.Minute)
	calls := 0
	lookup := func(context.Context) (any, error) {
		calls++
		return nil, errors.New("boom")
	}

	_, err := c.GetOrSet(context.Background(), "k", lookup)
	require.Error(t, err)
	_, err = c.GetOrSet(context.Background(), "k", lookup)
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestEntriesExpire(t *testing.T) {
	c := New(100 * time.Millisecond)
	current := time.Now()
	c.now = func() time.Time { return current }

	c.Set("k", "v")
	_, ok := c.Get("k")
	assert.True(t, ok)

	current = current.Add(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestInvalidate(t *testing.T) {
	c := New(time.Minute)
	c.Set("k", "v")
	c.Invalidate("k")
	_, ok := c.Get("k")
	assert.False(t, ok)
}
