// Package index implements the writer/reader halves of the segmented
// index lifecycle (spec.md §4.7, §4.9): the writer buffers pushed
// documents in memory and turns them into immutable segment files on
// flush; the reader opens the catalog and every segment file and
// answers term and document-id lookups.
package index

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/nnev/lexidex/analysis"
	"github.com/nnev/lexidex/catalog"
	"github.com/nnev/lexidex/docmodel"
	"github.com/nnev/lexidex/segment"
	"github.com/nnev/lexidex/store/kv"
)

type bufferedValue struct {
	localID uint32
	value   docmodel.DocValue
	flags   docmodel.FieldFlags
}

// Writer accumulates pushed documents and turns them into immutable
// segments on Flush. A Writer is owned exclusively by one caller at a
// time; Push and Flush are not reentrant (spec.md §5).
type Writer struct {
	dir       string
	cat       *catalog.Catalog
	kv        *kv.Store
	tokenizer analysis.Pipeline
	localSeq  *atomic.Uint32
	buffer    map[uint32][]bufferedValue
	log       *zap.Logger
}

// OpenWriter creates or attaches to an on-disk index at dir, using
// tokenizer to split TOKENIZED text fields at flush time.
func OpenWriter(dir string, tokenizer analysis.Pipeline, log *zap.Logger) (w *Writer, err error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	cat, err := catalog.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("index: open catalog: %w", err)
	}

	store, err := kv.Open(filepath.Join(dir, "data"))
	if err != nil {
		return nil, fmt.Errorf("index: open stored-value store: %w", err)
	}

	return &Writer{
		dir:       dir,
		cat:       cat,
		kv:        store,
		tokenizer: tokenizer,
		localSeq:  atomic.NewUint32(0),
		buffer:    map[uint32][]bufferedValue{},
		log:       log.With(zap.String("component", "index.writer"), zap.String("dir", dir)),
	}, nil
}

// Push buffers doc's fields for the next Flush, resolving each field's
// name to a catalog id (type-checked) and assigning the next local id
// from this Writer's counter, which starts at 0 when the Writer is
// opened (spec.md §4.7). A field name that is empty or not valid UTF-8
// rejects the whole document before anything is buffered.
func (w *Writer) Push(doc docmodel.Document) error {
	for _, f := range doc.Fields() {
		if f.Name == "" || !utf8.ValidString(f.Name) {
			return fmt.Errorf("index: push: field name %q must be non-empty UTF-8", f.Name)
		}
	}

	localID := w.localSeq.Inc() - 1

	for _, f := range doc.Fields() {
		fieldID, err := w.cat.FieldID(f.Name, f.Value.Kind())
		if err != nil {
			return err
		}
		w.buffer[fieldID] = append(w.buffer[fieldID], bufferedValue{
			localID: localID,
			value:   f.Value,
			flags:   f.Flags,
		})
	}
	return nil
}

// Flush is a no-op on an empty buffer. Otherwise it allocates a segment
// id, persists stored values, builds one FST per field over sorted
// term->local-id postings, writes the segment file, and persists the
// catalog (spec.md §4.7 steps 1-5).
func (w *Writer) Flush() (err error) {
	if len(w.buffer) == 0 {
		return nil
	}

	segID := w.cat.NextSegment()
	w.log.Info("flush starting", zap.Uint32("segment_id", segID))

	if err = w.persistStoredValues(segID); err != nil {
		return multierr.Append(err, fmt.Errorf("index: flush %d: persist stored values", segID))
	}

	var fields []segment.FieldPostings
	for fieldID, values := range w.buffer {
		fields = append(fields, w.buildFieldPostings(fieldID, values))
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].FieldID < fields[j].FieldID })

	if _, err = segment.Write(w.dir, segID, fields); err != nil {
		return fmt.Errorf("index: flush %d: write segment: %w", segID, err)
	}

	if err = w.cat.Flush(); err != nil {
		return fmt.Errorf("index: flush %d: persist catalog: %w", segID, err)
	}

	w.buffer = map[uint32][]bufferedValue{}
	w.log.Info("flush complete", zap.Uint32("segment_id", segID))
	return nil
}

func (w *Writer) persistStoredValues(segID uint32) error {
	var errs error
	for fieldID, values := range w.buffer {
		for _, v := range values {
			if v.flags.Has(docmodel.NotStored) {
				continue
			}
			docID := segment.DocID(segID, v.localID)
			if err := w.kv.Put(docID, fieldID, v.value.Bytes()); err != nil {
				errs = multierr.Append(errs, err)
			}
		}
	}
	return errs
}

// buildFieldPostings tokenizes (if TOKENIZED) or uses the raw value as
// a single term, sorts (term, local-id) pairs by term, and collapses
// runs of identical terms into sorted-unique id lists.
func (w *Writer) buildFieldPostings(fieldID uint32, values []bufferedValue) segment.FieldPostings {
	type pair struct {
		term string
		id   uint32
	}
	var pairs []pair

	for _, v := range values {
		if v.flags.Has(docmodel.Tokenized) && v.value.Kind() == docmodel.KindText {
			for _, term := range w.tokenizer.Run(v.value.String()) {
				pairs = append(pairs, pair{term: term, id: v.localID})
			}
		} else {
			pairs = append(pairs, pair{term: string(v.value.Bytes()), id: v.localID})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].term != pairs[j].term {
			return pairs[i].term < pairs[j].term
		}
		return pairs[i].id < pairs[j].id
	})

	fp := segment.FieldPostings{FieldID: fieldID}
	for i := 0; i < len(pairs); {
		j := i
		for j < len(pairs) && pairs[j].term == pairs[i].term {
			j++
		}
		ids := make([]uint32, 0, j-i)
		for k := i; k < j; k++ {
			if len(ids) == 0 || ids[len(ids)-1] != pairs[k].id {
				ids = append(ids, pairs[k].id)
			}
		}
		fp.Terms = append(fp.Terms, pairs[i].term)
		fp.IDs = append(fp.IDs, ids)
		i = j
	}
	return fp
}

// Close releases the writer's stored-value store handle.
func (w *Writer) Close() error {
	return w.kv.Close()
}
