package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteOpenFindRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fields := []FieldPostings{
		{
			FieldID: 0,
			Terms:   []string{"alpha", "beta", "gamma"},
			IDs:     [][]uint32{{0, 2}, {1}, {3, 4, 5}},
		},
		{
			FieldID: 1,
			Terms:   []string{"only"},
			IDs:     [][]uint32{{0}},
		},
	}

	path, err := Write(dir, 7, fields)
	require.NoError(t, err)
	assert.Equal(t, "_segment_00000007.index", FileName(7))

	seg, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), seg.ID)

	ids, ok := seg.Find(0, []byte("alpha"))
	require.True(t, ok)
	assert.Equal(t, []uint64{DocID(7, 0), DocID(7, 2)}, ids)

	ids, ok = seg.Find(0, []byte("gamma"))
	require.True(t, ok)
	assert.Equal(t, []uint64{DocID(7, 3), DocID(7, 4), DocID(7, 5)}, ids)

	_, ok = seg.Find(0, []byte("missing"))
	assert.False(t, ok)

	_, ok = seg.Find(99, []byte("alpha"))
	assert.False(t, ok)
}

func TestDocIDSplitRoundTrip(t *testing.T) {
	id := DocID(12, 34)
	seg, local := SplitDocID(id)
	assert.Equal(t, uint32(12), seg)
	assert.Equal(t, uint32(34), local)
}

func TestWriteEmptySegmentStillOpens(t *testing.T) {
	dir := t.TempDir()
	path, err := Write(dir, 0, nil)
	require.NoError(t, err)

	seg, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), seg.ID)
	_, ok := seg.Find(0, []byte("anything"))
	assert.False(t, ok)
}
