package enginecache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	c, err := New(4)
	require.NoError(t, err)

	key := Key{Field: "content", Term: "alpha"}
	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Put(key, []uint64{1, 2, 3})
	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, []uint64{1, 2, 3}, got)
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	c.Put(Key{Field: "f", Term: "a"}, []uint64{1})
	c.Put(Key{Field: "f", Term: "b"}, []uint64{2})
	c.Put(Key{Field: "f", Term: "c"}, []uint64{3})

	_, ok := c.Get(Key{Field: "f", Term: "a"})
	assert.False(t, ok, "oldest entry should have been evicted")

	_, ok = c.Get(Key{Field: "f", Term: "c"})
	assert.True(t, ok)
}

func TestZeroSizeDisablesCaching(t *testing.T) {
	c, err := New(0)
	require.NoError(t, err)
	c.Put(Key{Field: "f", Term: "a"}, []uint64{1})
	_, ok := c.Get(Key{Field: "f", Term: "a"})
	assert.False(t, ok)
}
