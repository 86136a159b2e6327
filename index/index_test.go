package index

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nnev/lexidex/analysis"
	"github.com/nnev/lexidex/docmodel"
	"github.com/nnev/lexidex/segment"
)

func defaultPipeline() analysis.Pipeline {
	return analysis.Pipeline{Tokenizer: analysis.DefaultTokenizer{}}
}

func localsOf(t *testing.T, ids []uint64) []uint32 {
	t.Helper()
	out := make([]uint32, len(ids))
	for i, id := range ids {
		_, local := segment.SplitDocID(id)
		out[i] = local
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func pushDoc(t *testing.T, w *Writer, field, value string, tokenized bool) {
	t.Helper()
	var flags docmodel.FieldFlags
	if tokenized {
		flags = docmodel.Tokenized
	}
	doc := docmodel.NewBuilder().AddField(field, docmodel.Text(value), flags).Build()
	require.NoError(t, w.Push(doc))
}

// S1: exact term, untokenized.
func TestExactTermScenario(t *testing.T) {
	dir := t.TempDir()
	w, err := OpenWriter(dir, defaultPipeline(), nil)
	require.NoError(t, err)

	pushDoc(t, w, "content", "alpha", false)
	pushDoc(t, w, "content", "beta", false)
	pushDoc(t, w, "content", "alpha", false)
	require.NoError(t, w.Flush())
	require.NoError(t, w.Close())

	r, err := OpenReader(dir, 16)
	require.NoError(t, err)
	defer r.Close()

	ids, err := r.Find("content", []byte("alpha"))
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 2}, localsOf(t, ids))

	ids, err = r.Find("content", []byte("gamma"))
	require.NoError(t, err)
	assert.Empty(t, ids)
}

// S2: tokenized Chinese, mixed-granularity bigram tokenizer.
func TestTokenizedChineseScenario(t *testing.T) {
	dir := t.TempDir()
	w, err := OpenWriter(dir, defaultPipeline(), nil)
	require.NoError(t, err)

	pushDoc(t, w, "content", "我爱北京天安门", true)
	pushDoc(t, w, "content", "上海是我们的家", true)
	pushDoc(t, w, "content", "我们中出了个叛徒", true)
	pushDoc(t, w, "content", "北京有长城", true)
	require.NoError(t, w.Flush())
	require.NoError(t, w.Close())

	r, err := OpenReader(dir, 16)
	require.NoError(t, err)
	defer r.Close()

	beijing, err := r.Find("content", []byte("北京"))
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 3}, localsOf(t, beijing))

	wall, err := r.Find("content", []byte("长城"))
	require.NoError(t, err)
	assert.Equal(t, []uint32{3}, localsOf(t, wall))

	shanghai, err := r.Find("content", []byte("上海"))
	require.NoError(t, err)
	assert.Equal(t, []uint32{1}, localsOf(t, shanghai))
}

// S7: the segment boundary is invisible to query answers, regardless
// of how pushes are partitioned across flushes.
func TestSegmentedIndexCorrectnessAcrossFlushes(t *testing.T) {
	dir := t.TempDir()
	w, err := OpenWriter(dir, defaultPipeline(), nil)
	require.NoError(t, err)

	pushDoc(t, w, "content", "alpha", false)
	pushDoc(t, w, "content", "beta", false)
	require.NoError(t, w.Flush())

	pushDoc(t, w, "content", "alpha", false)
	pushDoc(t, w, "content", "gamma", false)
	require.NoError(t, w.Flush())
	require.NoError(t, w.Close())

	r, err := OpenReader(dir, 16)
	require.NoError(t, err)
	defer r.Close()

	ids, err := r.Find("content", []byte("alpha"))
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	ids, err = r.Find("content", []byte("beta"))
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestDocumentHydratesStoredFields(t *testing.T) {
	dir := t.TempDir()
	w, err := OpenWriter(dir, defaultPipeline(), nil)
	require.NoError(t, err)

	doc := docmodel.NewBuilder().
		AddField("title", docmodel.Text("hello"), 0).
		AddField("secret", docmodel.Text("shh"), docmodel.NotStored).
		Build()
	require.NoError(t, w.Push(doc))
	require.NoError(t, w.Flush())
	require.NoError(t, w.Close())

	r, err := OpenReader(dir, 16)
	require.NoError(t, err)
	defer r.Close()

	ids, err := r.Find("title", []byte("hello"))
	require.NoError(t, err)
	require.Len(t, ids, 1)

	got, ok, err := r.Document(ids[0])
	require.NoError(t, err)
	require.True(t, ok)

	title, ok := got.Get("title")
	require.True(t, ok)
	assert.Equal(t, "hello", title.Value.String())

	_, ok = got.Get("secret")
	assert.False(t, ok, "NOT_STORED field must not be hydrated")
}

func TestOpenReaderFailsWithoutStore(t *testing.T) {
	dir := t.TempDir()
	_, err := OpenReader(dir, 16)
	assert.Error(t, err)
}
