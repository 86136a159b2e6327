// Package segment implements one immutable per-flush unit of an index:
// a file of (field-id -> FST) pairs keyed by a leading segment id,
// where each FST maps a term to a sorted posting list of local doc ids
// (spec.md §4.7, §4.8, §6).
package segment

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/uuid"

	"github.com/nnev/lexidex/internal/fst"
	"github.com/nnev/lexidex/store/mmapfile"
)

// FieldPostings is one field's sorted (term -> local ids) table, ready
// to be built into an FST and written into a segment.
type FieldPostings struct {
	FieldID uint32
	Terms   []string
	IDs     [][]uint32 // IDs[i] is the sorted-unique local-id list for Terms[i]
}

// filePrefix and fileSuffix compose the on-disk segment filename
// template `_segment_{id:08}.index` (spec.md §6).
const (
	filePrefix = "_segment_"
	fileSuffix = ".index"
)

// FileName returns the canonical filename for segment id.
func FileName(id uint32) string {
	return fmt.Sprintf("%s%08d%s", filePrefix, id, fileSuffix)
}

// Write builds one FST per field (via internal/fst, over the
// PostingsCodec Vec<u32>-over-FOR wire format) and writes the complete
// segment file to <dir>/_segment_{id:08}.index, via a temp file renamed
// into place so a crash mid-write never leaves a partially-named
// segment that segment discovery would pick up.
func Write(dir string, id uint32, fields []FieldPostings) (path string, err error) {
	final := filepath.Join(dir, FileName(id))

	tmpName, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	tmpPath := filepath.Join(dir, ".tmp-"+tmpName.String())

	f, err := os.Create(tmpPath)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	if err = writeSegment(f, id, fields); err != nil {
		f.Close()
		return "", err
	}
	if err = f.Sync(); err != nil {
		f.Close()
		return "", err
	}
	if err = f.Close(); err != nil {
		return "", err
	}
	if err = os.Rename(tmpPath, final); err != nil {
		return "", err
	}
	return final, nil
}

func writeSegment(w io.Writer, id uint32, fields []FieldPostings) error {
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], id)
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	for _, fp := range fields {
		b := fst.NewBuilder[[]uint32](fst.Uint32SliceMonoid{})
		for i, term := range fp.Terms {
			if err := b.Insert([]byte(term), fp.IDs[i]); err != nil {
				return err
			}
		}
		built := b.Finish()

		var fhdr [4]byte
		binary.BigEndian.PutUint32(fhdr[:], fp.FieldID)
		if _, err := w.Write(fhdr[:]); err != nil {
			return err
		}
		if err := fst.Write[[]uint32](built, fst.PostingsCodec{}, w); err != nil {
			return err
		}
	}
	return nil
}

// Segment is an opened, read-only segment file.
type Segment struct {
	ID     uint32
	fields map[uint32]*fst.FST[[]uint32]
}

// Open reads id and every (field-id, FST) pair from path. The file is
// mapped read-only via mmapfile (blevesearch/mmap-go, falling back to a
// plain read under LEXIDEX_NO_MMAP or when mmap is unavailable); every
// decoded FST and posting list is copied into freshly-allocated memory
// during the parse below, so the mapping is unneeded past Open and is
// unmapped before it returns.
func Open(path string) (*Segment, error) {
	mf, err := mmapfile.Open(path)
	if err != nil {
		return nil, err
	}
	defer mf.Close()
	return read(bytes.NewReader(mf.Bytes()))
}

func read(r io.Reader) (*Segment, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	s := &Segment{ID: binary.BigEndian.Uint32(hdr[:]), fields: map[uint32]*fst.FST[[]uint32]{}}

	for {
		var fhdr [4]byte
		_, err := io.ReadFull(r, fhdr[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			if err == io.ErrUnexpectedEOF {
				return nil, fmt.Errorf("segment: truncated field header: %w", err)
			}
			return nil, err
		}
		fieldID := binary.BigEndian.Uint32(fhdr[:])

		built, err := fst.Read[[]uint32](fst.Uint32SliceMonoid{}, fst.PostingsCodec{}, r)
		if err != nil {
			return nil, fmt.Errorf("segment: field %d: %w", fieldID, err)
		}
		s.fields[fieldID] = built
	}
	return s, nil
}

// Find looks up key in fieldID's FST, re-namespacing each local id into
// a full doc-id `(segment_id << 32) | local_id`. Returns ok=false if
// the field or the key is absent.
func (s *Segment) Find(fieldID uint32, key []byte) ([]uint64, bool) {
	f, ok := s.fields[fieldID]
	if !ok {
		return nil, false
	}
	locals, ok := f.Get(key)
	if !ok {
		return nil, false
	}
	out := make([]uint64, len(locals))
	for i, l := range locals {
		out[i] = DocID(s.ID, l)
	}
	return out, true
}

// DocID composes a segment id and a local id into a global doc id.
func DocID(segmentID uint32, localID uint32) uint64 {
	return uint64(segmentID)<<32 | uint64(localID)
}

// SplitDocID decomposes a global doc id back into its segment and local parts.
func SplitDocID(docID uint64) (segmentID, localID uint32) {
	return uint32(docID >> 32), uint32(docID)
}
