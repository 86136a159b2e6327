package bits

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushGetRoundTripFixed(t *testing.T) {
	w := NewWriter()
	w.Push(0x05, 3)  // 101
	w.Push(0x00, 1)  // 0
	w.PushU32(0xABCD, 16)

	r := NewReader(w.Bytes())
	require.True(t, r.Get(0))
	require.False(t, r.Get(1))
	require.True(t, r.Get(2))
	require.False(t, r.Get(3))
	assert.Equal(t, uint32(0xABCD), r.GetU32(4, 16))
}

func TestPushU32RoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	type entry struct {
		value uint32
		width int
	}

	w := NewWriter()
	var entries []entry
	for i := 0; i < 2000; i++ {
		width := 1 + rng.Intn(32)
		var max uint64 = 1 << uint(width)
		value := uint32(rng.Int63n(int64(max)))
		w.PushU32(value, width)
		entries = append(entries, entry{value: value, width: width})
	}

	r := NewReader(w.Bytes())
	offset := 0
	for _, e := range entries {
		got := r.GetU32(offset, e.width)
		assert.Equal(t, e.value, got)
		offset += e.width
	}
}

func TestLenTracksBitsUsed(t *testing.T) {
	w := NewWriter()
	assert.Equal(t, 0, w.Len())
	w.Push(1, 1)
	assert.Equal(t, 1, w.Len())
	w.Push(1, 7)
	assert.Equal(t, 8, w.Len())
	w.Push(1, 1)
	assert.Equal(t, 9, w.Len())
}
