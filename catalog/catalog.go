// Package catalog persists the index-wide metadata every segment needs
// to agree on: the field-name-to-id mapping, each field's declared
// Kind, and the next segment id to hand out (spec.md §4.6).
package catalog

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/atomic"

	"github.com/nnev/lexidex/docmodel"
)

const (
	magic        = 0x4c584443 // "LXDC"
	metadataFile = "METADATA"
)

// FieldInfo is a field's persistent identity: its catalog-assigned id,
// its declared value kind, and its name.
type FieldInfo struct {
	ID   uint32
	Kind docmodel.Kind
	Name string
}

// ConflictingFieldKind is returned by FieldID when a field name is
// reused with a different Kind than it was first declared with
// (spec.md §4.6 invariant).
type ConflictingFieldKind struct {
	Name string
	Have docmodel.Kind
	Want docmodel.Kind
}

func (e *ConflictingFieldKind) Error() string {
	return fmt.Sprintf("catalog: field %q already declared with kind %d, got %d", e.Name, e.Have, e.Want)
}

// Catalog tracks field metadata and the segment counter for one index
// directory. All exported methods are safe for concurrent readers; the
// writer is expected to be the sole mutator (spec.md Non-goals exclude
// concurrent writers).
type Catalog struct {
	mu       sync.RWMutex
	path     string
	byName   map[string]*FieldInfo
	byID     []*FieldInfo
	segments *atomic.Uint32
}

// Open loads dir/METADATA, creating an empty catalog if it doesn't exist.
func Open(dir string) (*Catalog, error) {
	c := &Catalog{
		path:     filepath.Join(dir, metadataFile),
		byName:   map[string]*FieldInfo{},
		segments: atomic.NewUint32(0),
	}

	f, err := os.Open(c.path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := c.decode(f); err != nil {
		return nil, fmt.Errorf("catalog: decode %s: %w", c.path, err)
	}
	return c, nil
}

// FieldID returns the id for name, declaring it with kind if it hasn't
// been seen before. Reusing a name with a different kind is an error.
func (c *Catalog) FieldID(name string, kind docmodel.Kind) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if fi, ok := c.byName[name]; ok {
		if fi.Kind != kind {
			return 0, &ConflictingFieldKind{Name: name, Have: fi.Kind, Want: kind}
		}
		return fi.ID, nil
	}

	fi := &FieldInfo{ID: uint32(len(c.byID)), Kind: kind, Name: name}
	c.byID = append(c.byID, fi)
	c.byName[name] = fi
	return fi.ID, nil
}

// Field returns the FieldInfo for id, if declared.
func (c *Catalog) Field(id uint32) (FieldInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if int(id) >= len(c.byID) {
		return FieldInfo{}, false
	}
	return *c.byID[id], true
}

// Fields returns a snapshot of every declared field, ordered by id.
func (c *Catalog) Fields() []FieldInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]FieldInfo, len(c.byID))
	for i, fi := range c.byID {
		out[i] = *fi
	}
	return out
}

// NextSegment atomically allocates and returns the next segment id.
func (c *Catalog) NextSegment() uint32 {
	return c.segments.Inc() - 1
}

// Flush persists the catalog's current state to dir/METADATA.
func (c *Catalog) Flush() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tmp := c.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := c.encode(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}

func (c *Catalog) encode(w io.Writer) error {
	var hdr [12]byte
	binary.BigEndian.PutUint32(hdr[0:4], magic)
	binary.BigEndian.PutUint32(hdr[4:8], c.segments.Load())
	binary.BigEndian.PutUint32(hdr[8:12], uint32(len(c.byID)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	for _, fi := range c.byID {
		var fhdr [5]byte
		fhdr[0] = byte(fi.Kind)
		binary.BigEndian.PutUint32(fhdr[1:5], uint32(len(fi.Name)))
		if _, err := w.Write(fhdr[:]); err != nil {
			return err
		}
		if _, err := w.Write([]byte(fi.Name)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) decode(r io.Reader) error {
	var hdr [12]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return err
	}
	if got := binary.BigEndian.Uint32(hdr[0:4]); got != magic {
		return fmt.Errorf("bad magic %08x", got)
	}
	c.segments.Store(binary.BigEndian.Uint32(hdr[4:8]))
	fieldCount := binary.BigEndian.Uint32(hdr[8:12])

	c.byID = make([]*FieldInfo, 0, fieldCount)
	for i := uint32(0); i < fieldCount; i++ {
		var fhdr [5]byte
		if _, err := io.ReadFull(r, fhdr[:]); err != nil {
			return err
		}
		kind := docmodel.Kind(fhdr[0])
		nameLen := binary.BigEndian.Uint32(fhdr[1:5])
		nameBuf := make([]byte, nameLen)
		if _, err := io.ReadFull(r, nameBuf); err != nil {
			return err
		}
		fi := &FieldInfo{ID: i, Kind: kind, Name: string(nameBuf)}
		c.byID = append(c.byID, fi)
		c.byName[fi.Name] = fi
	}
	return nil
}
