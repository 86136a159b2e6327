package for32

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortedUnique(rng *rand.Rand, n int, maxStep uint32) []uint32 {
	out := make([]uint32, n)
	var cur uint32
	for i := 0; i < n; i++ {
		cur += 1 + uint32(rng.Int63n(int64(maxStep)))
		out[i] = cur
	}
	return out
}

func TestRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(500)
		seq := sortedUnique(rng, n, 5000)
		encoded := Encode(seq)
		decoded, err := Decode(encoded)
		require.NoError(t, err)
		if n == 0 {
			assert.Empty(t, decoded)
		} else {
			assert.Equal(t, seq, decoded)
		}
	}
}

func TestBoundaryOneFullBlockPlusSingleton(t *testing.T) {
	seq := make([]uint32, 129)
	for i := 0; i < 128; i++ {
		seq[i] = uint32(i + 1)
	}
	seq[128] = 130

	enc := EncodeBlockSize(seq, 128)

	// first header byte: num_bits for deltas all == 1 -> numBits=1, MORE set, SIZED unset
	require.NotEmpty(t, enc)
	firstHeader := enc[0]
	assert.Equal(t, byte(0x80), firstHeader&0x80, "MORE flag must be set on first block")
	assert.Equal(t, byte(0), firstHeader&0x40, "first (full) block must not be SIZED")

	decoded, err := Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, seq, decoded)
}

func TestEmptySequenceRoundTrips(t *testing.T) {
	enc := Encode(nil)
	decoded, err := Decode(enc)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestTruncatedStreamIsError(t *testing.T) {
	seq := sortedUnique(rand.New(rand.NewSource(2)), 300, 10)
	enc := Encode(seq)
	_, err := Decode(enc[:len(enc)-1])
	assert.Error(t, err)
}

func TestAllZeroDeltasFloorsToOneBit(t *testing.T) {
	// A single-element block has delta == seq[0], so the block [0] has
	// all-zero deltas: the OR of its deltas is 0 and num_bits must be
	// floored to 1 rather than 0.
	enc := Encode([]uint32{0})
	require.NotEmpty(t, enc)
	assert.Equal(t, byte(1), enc[0]&0x3f, "num_bits must be floored to 1")
	decoded, err := Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0}, decoded)
}
