package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"leadbot/internal/flow"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, found, err := store.Get(ctx, 1)
	require.NoError(t, err)
	require.False(t, found)

	want := flow.Session{AwaitingKeyword: true, LastKeyword: "n8n"}
	require.NoError(t, store.Save(ctx, 1, want))

	got, found, err := store.Get(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, want, got)

	_, found, err = store.Get(ctx, 2)
	require.NoError(t, err)
	require.False(t, found)
}

func TestMemoryStoreConcurrentUse(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_ = store.Save(ctx, id, flow.Session{AwaitingKeyword: true})
			_, _, _ = store.Get(ctx, id)
		}(i)
	}
	wg.Wait()

	require.Equal(t, 50, store.Len())
}
