package index

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nnev/lexidex/catalog"
	"github.com/nnev/lexidex/docmodel"
	"github.com/nnev/lexidex/enginecache"
	"github.com/nnev/lexidex/segment"
	"github.com/nnev/lexidex/store/kv"
)

// Reader is a read-only, open index: the catalog plus every flushed
// segment plus the stored-value store. A Reader has no mutating
// operations and is safe to share across goroutines for Find and
// Document (spec.md §4.9, §5).
type Reader struct {
	cat      *catalog.Catalog
	segments []*segment.Segment
	kv       *kv.Store
	cache    *enginecache.TermCache
}

// OpenReader reads dir's catalog, enumerates and opens every
// _segment_*.index file, and opens the stored-value store at
// <dir>/data. Fails if <dir>/data is absent.
func OpenReader(dir string, cacheSize int) (*Reader, error) {
	cat, err := catalog.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("index: open catalog: %w", err)
	}

	storePath := filepath.Join(dir, "data")
	if _, err := os.Stat(storePath); err != nil {
		return nil, fmt.Errorf("index: stored-value store missing at %s: %w", storePath, err)
	}
	store, err := kv.Open(storePath)
	if err != nil {
		return nil, fmt.Errorf("index: open stored-value store: %w", err)
	}

	names, err := segmentFileNames(dir)
	if err != nil {
		store.Close()
		return nil, err
	}

	segments := make([]*segment.Segment, 0, len(names))
	for _, name := range names {
		seg, err := segment.Open(filepath.Join(dir, name))
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("index: open segment %s: %w", name, err)
		}
		segments = append(segments, seg)
	}

	cache, err := enginecache.New(cacheSize)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &Reader{cat: cat, segments: segments, kv: store, cache: cache}, nil
}

func segmentFileNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		if strings.HasPrefix(n, "_segment_") && strings.HasSuffix(n, ".index") {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Find resolves fieldName to a field-id via the catalog, queries every
// segment for value, and concatenates the results. Duplicates across
// segments are impossible (segment ids are disjoint).
func (r *Reader) Find(fieldName string, value []byte) ([]uint64, error) {
	fields := r.cat.Fields()
	var fieldID uint32
	found := false
	for _, fi := range fields {
		if fi.Name == fieldName {
			fieldID = fi.ID
			found = true
			break
		}
	}
	if !found {
		return nil, nil
	}

	key := enginecache.Key{Field: fieldName, Term: string(value)}
	if cached, ok := r.cache.Get(key); ok {
		return cached, nil
	}

	var out []uint64
	for _, seg := range r.segments {
		if ids, ok := seg.Find(fieldID, value); ok {
			out = append(out, ids...)
		}
	}
	r.cache.Put(key, out)
	return out, nil
}

// Document hydrates every known field's stored value for docID. Returns
// ok=false if no field had a stored value.
func (r *Reader) Document(docID uint64) (docmodel.Document, bool, error) {
	fields, err := r.kv.FieldsForDoc(docID)
	if err != nil {
		return docmodel.Document{}, false, err
	}
	if len(fields) == 0 {
		return docmodel.Document{}, false, nil
	}

	b := docmodel.NewBuilder()
	for _, fi := range r.cat.Fields() {
		raw, ok := fields[fi.ID]
		if !ok {
			continue
		}
		b.AddField(fi.Name, docmodel.Text(string(raw)), 0)
	}
	return b.Build(), true, nil
}

// Close releases the reader's stored-value store handle.
func (r *Reader) Close() error {
	return r.kv.Close()
}
