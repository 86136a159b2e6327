// Package kv is the stored-value side of an index: a small
// boltdb-backed table, shared by every segment of the index directory
// and keyed by (doc_id, field_id), holding the raw
// bytes of fields that weren't marked docmodel.NotStored (spec.md §4.5).
//
// The row key is 12 bytes, doc_id (8 bytes) followed by field_id
// (4 bytes), BOTH LITTLE-ENDIAN — a deliberate asymmetry against the
// big-endian layout used by the FST and segment file headers elsewhere
// in this module (spec.md §4.5 note).
package kv

import (
	"encoding/binary"

	bolt "github.com/boltdb/bolt"
)

const rowKeySize = 12

var bucketName = []byte("values")

// Store is an open stored-value table backed by one boltdb file.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if necessary) the boltdb file at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying boltdb file.
func (s *Store) Close() error {
	return s.db.Close()
}

// rowKey builds the 12-byte (doc_id, field_id) row key.
func rowKey(docID uint64, fieldID uint32) []byte {
	buf := make([]byte, rowKeySize)
	binary.LittleEndian.PutUint64(buf[0:8], docID)
	binary.LittleEndian.PutUint32(buf[8:12], fieldID)
	return buf
}

// Put stores value under (docID, fieldID), overwriting any prior value.
func (s *Store) Put(docID uint64, fieldID uint32, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		return b.Put(rowKey(docID, fieldID), value)
	})
}

// Get returns the stored bytes for (docID, fieldID), if any.
func (s *Store) Get(docID uint64, fieldID uint32) ([]byte, bool, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		v := b.Get(rowKey(docID, fieldID))
		if v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, out != nil, nil
}

// FieldsForDoc returns every field id stored for docID, along with its
// bytes, by scanning the 8-byte doc-id prefix of the row key space.
func (s *Store) FieldsForDoc(docID uint64) (map[uint32][]byte, error) {
	out := map[uint32][]byte{}
	prefix := make([]byte, 8)
	binary.LittleEndian.PutUint64(prefix, docID)

	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		for k, v := c.Seek(prefix); k != nil && len(k) == rowKeySize; k, v = c.Next() {
			if string(k[0:8]) != string(prefix) {
				break
			}
			fieldID := binary.LittleEndian.Uint32(k[8:12])
			out[fieldID] = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
