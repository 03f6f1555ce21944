package session

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("miniredis unavailable: %v", err)
	}
	t.Cleanup(srv.Close)
	return srv
}

func TestRedisStorePutGet(t *testing.T) {
	srv := newMiniRedis(t)
	store, err := NewRedisStore("redis://"+srv.Addr(), 0)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	_, err = store.Get(ctx, "s1")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "s1", Entry{Text: "@startuml\n@enduml", Source: "model", Prompt: "p"}))
	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "@startuml\n@enduml", got.Text)
	require.Equal(t, "model", got.Source)
	require.False(t, got.UpdatedAt.IsZero())
	require.True(t, srv.Exists("diagramd:session:s1"))
	require.Equal(t, "redis", store.Kind())
}

func TestRedisStoreDefaultKey(t *testing.T) {
	srv := newMiniRedis(t)
	store, err := NewRedisStore("redis://"+srv.Addr(), 0)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "", Entry{Text: "a"}))
	require.NoError(t, store.Put(ctx, " ", Entry{Text: "b"}))
	got, err := store.Get(ctx, DefaultKey)
	require.NoError(t, err)
	require.Equal(t, "b", got.Text)
}

func TestRedisStoreTTL(t *testing.T) {
	srv := newMiniRedis(t)
	store, err := NewRedisStore("redis://"+srv.Addr(), time.Minute)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "k", Entry{Text: "x"}))
	require.Equal(t, time.Minute, srv.TTL("diagramd:session:k"))
	srv.FastForward(2 * time.Minute)
	_, err = store.Get(ctx, "k")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreCorruptEntry(t *testing.T) {
	srv := newMiniRedis(t)
	store, err := NewRedisStore("redis://"+srv.Addr(), 0)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, srv.Set("diagramd:session:bad", "not-json"))
	_, err = store.Get(context.Background(), "bad")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestNewRedisStoreErrors(t *testing.T) {
	_, err := NewRedisStore("not a url", 0)
	require.Error(t, err)

	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("miniredis unavailable: %v", err)
	}
	addr := srv.Addr()
	srv.Close()
	_, err = NewRedisStore("redis://"+addr, 0)
	require.Error(t, err)
}

func TestRedisStoreNilSafe(t *testing.T) {
	var s *RedisStore
	require.NoError(t, s.Close())
	require.Error(t, s.Put(context.Background(), "k", Entry{}))
	_, err := s.Get(context.Background(), "k")
	require.Error(t, err)
}

func TestRedisStorePing(t *testing.T) {
	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("miniredis unavailable: %v", err)
	}
	store, err := NewRedisStore("redis://"+srv.Addr(), 0)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Ping(context.Background()))

	srv.Close()
	require.Error(t, store.Ping(context.Background()))

	var nilStore *RedisStore
	require.Error(t, nilStore.Ping(context.Background()))
}
