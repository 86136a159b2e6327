package varint

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestU32RoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 5000; i++ {
		v := rng.Uint32()
		buf := PutU32(nil, v)
		got, n, err := GetU32(buf)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, len(buf), n)
	}
}

func TestU64RoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	for i := 0; i < 5000; i++ {
		v := rng.Uint64()
		buf := PutU64(nil, v)
		got, n, err := GetU64(buf)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, len(buf), n)
	}
}

func TestU32EdgeValues(t *testing.T) {
	for _, v := range []uint32{0, 1, 127, 128, 16383, 16384, 1<<32 - 1} {
		buf := PutU32(nil, v)
		got, _, err := GetU32(buf)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestU32MissingTerminatorIsInvalidEncoding(t *testing.T) {
	// five bytes, all continuation-flagged, never terminates
	buf := []byte{0x80, 0x80, 0x80, 0x80, 0x80}
	_, _, err := GetU32(buf)
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestU64MissingTerminatorIsInvalidEncoding(t *testing.T) {
	buf := bytes.Repeat([]byte{0x80}, 10)
	_, _, err := GetU64(buf)
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestStreamReadWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	vals := []uint32{0, 1, 300, 1 << 20, 1<<32 - 1}
	for _, v := range vals {
		require.NoError(t, WriteU32(&buf, v))
	}
	br := bytes.NewReader(buf.Bytes())
	for _, want := range vals {
		got, err := ReadU32(br)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
