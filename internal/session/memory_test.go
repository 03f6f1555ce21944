package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	require.Equal(t, DefaultKey, NormalizeKey(""))
	require.Equal(t, DefaultKey, NormalizeKey("  "))
	require.Equal(t, "abc", NormalizeKey(" abc "))
}

func TestMemoryStore_GetBeforePut(t *testing.T) {
	s := NewMemoryStore(0)
	_, err := s.Get(context.Background(), "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	require.NoError(t, s.Put(ctx, "", Entry{Text: "first"}))
	require.NoError(t, s.Put(ctx, DefaultKey, Entry{Text: "second"}))
	require.NoError(t, s.Put(ctx, "other", Entry{Text: "isolated"}))

	e, err := s.Get(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "second", e.Text)
	require.False(t, e.UpdatedAt.IsZero())

	e, err = s.Get(ctx, "other")
	require.NoError(t, err)
	require.Equal(t, "isolated", e.Text)
	require.Equal(t, 2, s.Len())
	require.Equal(t, "memory", s.Kind())
}

func TestMemoryStore_TTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }
	require.NoError(t, s.Put(ctx, "k", Entry{Text: "x"}))

	now = now.Add(30 * time.Second)
	_, err := s.Get(ctx, "k")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = s.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, 0, s.Len())
}

// Concurrent writers to one key: the stored value is one of the writes, the
// winner is not asserted.
func TestMemoryStore_ConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	var wg sync.WaitGroup
	written := make(map[string]bool)
	for i := 0; i < 16; i++ {
		text := fmt.Sprintf("prompt-%d", i)
		written[text] = true
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Put(ctx, "", Entry{Text: text})
			_, _ = s.Get(ctx, "")
		}()
	}
	wg.Wait()
	e, err := s.Get(ctx, "")
	require.NoError(t, err)
	require.True(t, written[e.Text], "unexpected winner %q", e.Text)
}
