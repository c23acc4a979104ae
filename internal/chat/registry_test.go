// internal/chat/registry_test.go
package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAddAndGet(t *testing.T) {
	r := NewRegistry()

	c := NewClient(nil, nil, "user-1", "client")
	prev := r.Add(c)
	assert.Nil(t, prev)

	got, ok := r.Get("user-1")
	require.True(t, ok)
	assert.Same(t, c, got)
	assert.Equal(t, 1, r.Count())
}

func TestRegistryLastWriteWins(t *testing.T) {
	r := NewRegistry()

	first := NewClient(nil, nil, "user-1", "client")
	second := NewClient(nil, nil, "user-1", "client")

	r.Add(first)
	prev := r.Add(second)

	require.Same(t, first, prev)

	got, ok := r.Get("user-1")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, r.Count())
}

func TestRegistryReAddSameConnection(t *testing.T) {
	r := NewRegistry()

	c := NewClient(nil, nil, "user-1", "client")
	r.Add(c)

	assert.Nil(t, r.Add(c))
	assert.Equal(t, 1, r.Count())
}

func TestRegistryStaleRemoveKeepsReplacement(t *testing.T) {
	r := NewRegistry()

	stale := NewClient(nil, nil, "user-1", "client")
	fresh := NewClient(nil, nil, "user-1", "client")

	r.Add(stale)
	r.Add(fresh)

	// The displaced connection's cleanup must not evict its replacement.
	assert.False(t, r.Remove(stale))

	got, ok := r.Get("user-1")
	require.True(t, ok)
	assert.Same(t, fresh, got)

	assert.True(t, r.Remove(fresh))
	_, ok = r.Get("user-1")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Count())
}
