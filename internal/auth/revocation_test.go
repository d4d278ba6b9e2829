package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevocationStore_RecordIsIdempotent(t *testing.T) {
	store := NewMemoryRevocationStore()
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Record(ctx, "tok", "u1", exp))
		}()
	}
	wg.Wait()

	ok, err := store.Contains(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, store.Len())

	ok, err = store.Contains(ctx, "other")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryRevocationStore_DeleteExpired(t *testing.T) {
	store := NewMemoryRevocationStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Record(ctx, "old", "u1", now.Add(-time.Minute)))
	require.NoError(t, store.Record(ctx, "live", "u1", now.Add(time.Hour)))

	deleted, err := store.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	ok, _ := store.Contains(ctx, "live")
	assert.True(t, ok)
	ok, _ = store.Contains(ctx, "old")
	assert.False(t, ok)
}

func TestHashCredential(t *testing.T) {
	assert.Equal(t, HashCredential("a"), HashCredential("a"))
	assert.NotEqual(t, HashCredential("a"), HashCredential("b"))
	assert.Len(t, HashCredential("a"), 64)
}
