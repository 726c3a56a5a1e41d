package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"leadbot/internal/flow"
	"leadbot/pkg/redis"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.New(mr.Addr(), "", 0, time.Hour)
	t.Cleanup(client.Close)

	return NewRedisStore(client, 30*time.Minute), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	_, found, err := store.Get(ctx, 7)
	require.NoError(t, err)
	require.False(t, found)

	want := flow.Session{AwaitingKeyword: true, LastKeyword: "n8n"}
	require.NoError(t, store.Save(ctx, 7, want))

	got, found, err := store.Get(ctx, 7)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, want, got)

	require.True(t, mr.Exists("leadbot:session:7"))
	require.Equal(t, 30*time.Minute, mr.TTL("leadbot:session:7"))
}

func TestRedisStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	require.NoError(t, store.Save(ctx, 7, flow.Session{AwaitingKeyword: true}))
	mr.FastForward(31 * time.Minute)

	_, found, err := store.Get(ctx, 7)
	require.NoError(t, err)
	require.False(t, found)
}

func TestRedisStoreCorruptValue(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	require.NoError(t, mr.Set("leadbot:session:9", "{not json"))

	_, _, err := store.Get(ctx, 9)
	require.Error(t, err)
}

func TestRedisStoreUnavailable(t *testing.T) {
	ctx := context.Background()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	client := redis.New(addr, "", 0, time.Hour)
	t.Cleanup(client.Close)
	store := NewRedisStore(client, time.Minute)

	_, _, err = store.Get(ctx, 1)
	require.Error(t, err)
	require.Error(t, store.Save(ctx, 1, flow.Session{}))
}
