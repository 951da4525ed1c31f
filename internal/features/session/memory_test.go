package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	state, err := store.Get(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, state)

	require.NoError(t, store.Set(ctx, 1, &State{Name: "create_giveaway:name", Data: map[string]string{"step": "name"}}))

	state, err = store.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "create_giveaway:name", state.Name)
	require.Equal(t, "name", state.Data["step"])

	require.NoError(t, store.Clear(ctx, 1))
	state, err = store.Get(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, state)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, 1, &State{Name: "s", Data: map[string]string{"k": "v"}}))

	state, err := store.Get(ctx, 1)
	require.NoError(t, err)
	state.Data["k"] = "mutated"

	fresh, err := store.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "v", fresh.Data["k"])
}

func TestMemoryStoreClearUnknownIsNoop(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Clear(context.Background(), 999))
}
