package fst

import (
	"encoding/binary"
	"io"

	"github.com/nnev/lexidex/internal/for32"
	"github.com/nnev/lexidex/internal/varint"
)

// Codec serializes and deserializes an FST output value. Codec choice
// is fixed by a field's position inside the segment file (spec.md
// §4.3): the engine never mixes codecs within one FST.
type Codec[T any] interface {
	Write(v T, w io.Writer) error
	Read(r io.Reader) (T, error)
}

// byteWriter adapts an io.Writer to io.ByteWriter when it doesn't
// already implement it, for the streaming varint helpers.
type byteWriter struct{ io.Writer }

func (b byteWriter) WriteByte(c byte) error {
	_, err := b.Write([]byte{c})
	return err
}

func asByteWriter(w io.Writer) interface {
	io.Writer
	io.ByteWriter
} {
	if bw, ok := w.(interface {
		io.Writer
		io.ByteWriter
	}); ok {
		return bw
	}
	return byteWriter{w}
}

type byteReader struct{ io.Reader }

func (b byteReader) ReadByte() (byte, error) {
	var buf [1]byte
	_, err := io.ReadFull(b.Reader, buf[:])
	return buf[0], err
}

func asByteReader(r io.Reader) interface {
	io.Reader
	io.ByteReader
} {
	if br, ok := r.(interface {
		io.Reader
		io.ByteReader
	}); ok {
		return br
	}
	return byteReader{r}
}

// Uint32Codec writes the FST output value as a plain varint (v32).
type Uint32Codec struct{}

func (Uint32Codec) Write(v uint32, w io.Writer) error {
	return varint.WriteU32(asByteWriter(w), v)
}

func (Uint32Codec) Read(r io.Reader) (uint32, error) {
	return varint.ReadU32(asByteReader(r))
}

// PostingsCodec writes a []uint32 posting list as a varint length
// prefix followed by the FOR-encoded payload (spec.md §6 "Vec<u32>-via-FOR").
type PostingsCodec struct{}

func (PostingsCodec) Write(v []uint32, w io.Writer) error {
	encoded := for32.Encode(v)
	if err := varint.WriteU32(asByteWriter(w), uint32(len(encoded))); err != nil {
		return err
	}
	_, err := w.Write(encoded)
	return err
}

func (PostingsCodec) Read(r io.Reader) ([]uint32, error) {
	br := asByteReader(r)
	n, err := varint.ReadU32(br)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, varint.ErrInvalidEncoding
	}
	return for32.Decode(buf)
}

// Uint64SliceCodec writes a []uint64 as a varint count followed by that
// many fixed-width big-endian uint64s (spec.md §4.3: "length-prefixed
// fixed-width").
type Uint64SliceCodec struct{}

func (Uint64SliceCodec) Write(v []uint64, w io.Writer) error {
	if err := varint.WriteU32(asByteWriter(w), uint32(len(v))); err != nil {
		return err
	}
	var buf [8]byte
	for _, x := range v {
		binary.BigEndian.PutUint64(buf[:], x)
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	return nil
}

func (Uint64SliceCodec) Read(r io.Reader) ([]uint64, error) {
	n, err := varint.ReadU32(asByteReader(r))
	if err != nil {
		return nil, err
	}
	out := make([]uint64, n)
	var buf [8]byte
	for i := range out {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, varint.ErrInvalidEncoding
		}
		out[i] = binary.BigEndian.Uint64(buf[:])
	}
	return out, nil
}
