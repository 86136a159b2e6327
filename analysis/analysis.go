// Package analysis turns raw field text into the terms an index puts
// into its FSTs: a Tokenizer splits text into token views, optional
// TokenFilters drop or transform tokens along the way (spec.md §6
// tokenizer/stop-word contracts).
package analysis

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"github.com/blevesearch/segment"
	"github.com/blevesearch/snowballstem"
	"github.com/blevesearch/snowballstem/english"
)

// Tokenizer splits s into a sequence of token views suitable for
// indexing. Any stable, pure implementation satisfies the contract.
type Tokenizer interface {
	Tokenize(s string) []string
}

// TokenFilter transforms or drops tokens produced by a Tokenizer.
type TokenFilter interface {
	Filter(tokens []string) []string
}

// DefaultTokenizer mixes CJK overlapping-bigram segmentation (every
// adjacent pair of CJK runes is its own token, giving Jieba-like
// mixed-granularity recall without a dictionary) with
// blevesearch/segment's Unicode word-boundary scanner for everything
// else, matching spec.md §8's S2 scenario.
type DefaultTokenizer struct{}

// Tokenize implements Tokenizer.
func (DefaultTokenizer) Tokenize(s string) []string {
	var tokens []string
	var run []byte
	seg := segment.NewWordSegmenter(bytes.NewReader([]byte(s)))

	for seg.Segment() {
		word := seg.Bytes()
		if seg.Type() == segment.Ideo || seg.Type() == segment.Kana {
			run = append(run, word...)
			continue
		}
		if len(run) > 0 {
			tokens = append(tokens, cjkBigrams(run)...)
			run = run[:0]
		}
		if !isWordLike(word) {
			continue
		}
		tokens = append(tokens, string(word))
	}
	if len(run) > 0 {
		tokens = append(tokens, cjkBigrams(run)...)
	}
	return tokens
}

func isWordLike(word []byte) bool {
	r, _ := utf8.DecodeRune(word)
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// cjkBigrams splits an ideographic/kana run into overlapping two-rune
// tokens, falling back to the whole run when it's a single rune.
func cjkBigrams(run []byte) []string {
	runes := []rune(string(run))
	if len(runes) <= 1 {
		return []string{string(run)}
	}
	out := make([]string, 0, len(runes)-1)
	for i := 0; i < len(runes)-1; i++ {
		out = append(out, string(runes[i:i+2]))
	}
	return out
}

// StopWordFilter drops tokens present in a stop-word set (spec.md §6).
type StopWordFilter struct {
	set map[string]struct{}
}

// NewStopWordFilter builds a filter over the given stop words.
func NewStopWordFilter(words []string) *StopWordFilter {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return &StopWordFilter{set: set}
}

// Contains reports whether word is a configured stop word.
func (f *StopWordFilter) Contains(word string) bool {
	_, ok := f.set[word]
	return ok
}

// Filter drops stop words from tokens.
func (f *StopWordFilter) Filter(tokens []string) []string {
	out := tokens[:0]
	for _, t := range tokens {
		if !f.Contains(t) {
			out = append(out, t)
		}
	}
	return out
}

// StemFilter stems English tokens with the Snowball Porter2 algorithm.
// It's the engine's one optional filter for reducing morphological
// variants to a shared indexing term (e.g. "running" and "run").
type StemFilter struct {
	env *snowballstem.Env
}

// NewStemFilter returns an English Snowball stemmer filter.
func NewStemFilter() *StemFilter {
	return &StemFilter{env: snowballstem.NewEnv("")}
}

// Filter stems each token in place.
func (f *StemFilter) Filter(tokens []string) []string {
	for i, t := range tokens {
		f.env.SetCurrent(t)
		english.Stem(f.env)
		tokens[i] = f.env.Current()
	}
	return tokens
}

// Pipeline runs a Tokenizer followed by zero or more TokenFilters.
type Pipeline struct {
	Tokenizer Tokenizer
	Filters   []TokenFilter
}

// Run tokenizes s and applies every filter in order.
func (p Pipeline) Run(s string) []string {
	tokens := p.Tokenizer.Tokenize(s)
	for _, f := range p.Filters {
		tokens = f.Filter(tokens)
	}
	return tokens
}
