package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() (*MemoryStore, *time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(0)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestMemoryStoreCountsUpToLimit(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	lastRemaining := 5
	for i := 1; i <= 5; i++ {
		result, err := s.Check(ctx, "key", 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed, "call %d should be allowed", i)
		assert.Equal(t, 5, result.Limit)
		assert.Less(t, result.Remaining, lastRemaining, "remaining must decrease")
		lastRemaining = result.Remaining
	}
	assert.Equal(t, 0, lastRemaining)

	for i := 0; i < 3; i++ {
		result, err := s.Check(ctx, "key", 5, time.Minute)
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.Equal(t, 0, result.Remaining, "remaining stays at 0 once exhausted")
	}
}

func TestMemoryStoreWindowReset(t *testing.T) {
	s, now := newTestStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		s.Check(ctx, "key", 2, time.Second)
	}
	result, err := s.Peek(ctx, "key", 2)
	require.NoError(t, err)
	assert.False(t, result.Allowed)

	// After the window elapses the key behaves as new.
	*now = now.Add(1100 * time.Millisecond)
	result, err = s.Check(ctx, "key", 2, time.Second)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 1, result.Remaining)
	assert.Equal(t, now.Add(time.Second), result.ResetAt)
}

func TestMemoryStoreKeyIsolation(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		s.Check(ctx, "keyA", 3, time.Minute)
	}
	resultA, _ := s.Peek(ctx, "keyA", 3)
	assert.Equal(t, 0, resultA.Remaining)

	resultB, err := s.Check(ctx, "keyB", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, resultB.Allowed)
	assert.Equal(t, 2, resultB.Remaining, "keyB counter must not be influenced by keyA")
}

func TestMemoryStorePeekIsNonMutating(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	first, _ := s.Check(ctx, "key", 10, time.Minute)
	for i := 0; i < 20; i++ {
		s.Peek(ctx, "key", 10)
	}
	second, _ := s.Check(ctx, "key", 10, time.Minute)

	assert.Equal(t, first.Remaining-1, second.Remaining, "peeks between two checks must not consume requests")
}

func TestMemoryStorePeekUnknownKey(t *testing.T) {
	s, _ := newTestStore()

	result, err := s.Peek(context.Background(), "never-seen", 7)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 7, result.Remaining)
}

func TestMemoryStoreReset(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		s.Check(ctx, "key", 2, time.Minute)
	}
	require.NoError(t, s.Reset(ctx, "key"))

	result, _ := s.Check(ctx, "key", 2, time.Minute)
	assert.True(t, result.Allowed)
	assert.Equal(t, 1, result.Remaining)
}

func TestMemoryStoreClear(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	s.Check(ctx, "a", 1, time.Minute)
	s.Check(ctx, "b", 1, time.Minute)
	require.NoError(t, s.Clear(ctx))

	for _, key := range []string{"a", "b"} {
		result, _ := s.Peek(ctx, key, 1)
		assert.Equal(t, 1, result.Remaining, "key %s should be gone", key)
	}
}

func TestMemoryStoreFixedWindowBoundaryBurst(t *testing.T) {
	s, now := newTestStore()
	ctx := context.Background()

	// Fixed window allows up to 2x max across a boundary: max requests at
	// the end of one window plus max at the start of the next.
	allowed := 0
	for i := 0; i < 3; i++ {
		if result, _ := s.Check(ctx, "key", 3, time.Second); result.Allowed {
			allowed++
		}
	}
	*now = now.Add(1001 * time.Millisecond)
	for i := 0; i < 3; i++ {
		if result, _ := s.Check(ctx, "key", 3, time.Second); result.Allowed {
			allowed++
		}
	}
	assert.Equal(t, 6, allowed)
}

func TestMemoryStoreSweepEvictsExpired(t *testing.T) {
	s := NewMemoryStore(0)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	current := base
	s.now = func() time.Time { return current }

	s.Check(context.Background(), "old", 1, time.Second)
	current = base.Add(time.Minute)

	// Run one sweep iteration by hand.
	s.mu.Lock()
	for key, entry := range s.entries {
		if current.After(entry.resetAt) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()

	s.mu.Lock()
	_, ok := s.entries["old"]
	s.mu.Unlock()
	assert.False(t, ok)
}
