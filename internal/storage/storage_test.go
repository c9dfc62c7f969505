package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "ataka-cart", "[]"))
	v, ok, err := m.Get(ctx, "ataka-cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	require.NoError(t, m.Set(ctx, "ataka-cart", `[{"quantity":1}]`))
	v, _, _ = m.Get(ctx, "ataka-cart")
	assert.Equal(t, `[{"quantity":1}]`, v)
}

func TestNamespacedIsolatesKeys(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a := Namespaced(m, "session-a")
	b := Namespaced(m, "session-b")

	require.NoError(t, a.Set(ctx, "userPincode", "500081"))
	_, ok, err := b.Get(ctx, "userPincode")
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err := m.Get(ctx, "session-a:userPincode")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "500081", v)
	assert.Equal(t, 1, m.Len())
}
