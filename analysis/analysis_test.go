package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTokenizerSplitsLatinWords(t *testing.T) {
	tok := DefaultTokenizer{}
	got := tok.Tokenize("hello, world! 42")
	assert.Equal(t, []string{"hello", "world", "42"}, got)
}

func TestDefaultTokenizerBigramsCJK(t *testing.T) {
	tok := DefaultTokenizer{}
	got := tok.Tokenize("北京")
	assert.Equal(t, []string{"北京"}, got)

	got = tok.Tokenize("我爱北京天安门")
	assert.Contains(t, got, "北京")
	assert.Contains(t, got, "天安")
}

func TestStopWordFilterDropsConfiguredWords(t *testing.T) {
	f := NewStopWordFilter([]string{"the", "a"})
	got := f.Filter([]string{"the", "quick", "a", "fox"})
	assert.Equal(t, []string{"quick", "fox"}, got)
}

func TestStemFilterReducesVariants(t *testing.T) {
	f := NewStemFilter()
	got := f.Filter([]string{"running", "runs"})
	assert.Equal(t, []string{"run", "run"}, got)
}

func TestPipelineRunsTokenizerThenFilters(t *testing.T) {
	p := Pipeline{
		Tokenizer: DefaultTokenizer{},
		Filters:   []TokenFilter{NewStopWordFilter([]string{"is"})},
	}
	got := p.Run("this is a test")
	assert.NotContains(t, got, "is")
	assert.Contains(t, got, "test")
}
