package varint

import "io"

// ReadU32 decodes a v32 from r, one byte at a time.
func ReadU32(r io.ByteReader) (uint32, error) {
	var v uint32
	for i := 0; i < maxV32Bytes; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, ErrInvalidEncoding
		}
		v |= uint32(b&0x7f) << uint(7*i)
		if b&0x80 == 0 {
			return v, nil
		}
	}
	return 0, ErrInvalidEncoding
}

// ReadU64 decodes a v64 from r, one byte at a time.
func ReadU64(r io.ByteReader) (uint64, error) {
	var v uint64
	for i := 0; i < maxV64Bytes; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, ErrInvalidEncoding
		}
		v |= uint64(b&0x7f) << uint(7*i)
		if b&0x80 == 0 {
			return v, nil
		}
	}
	return 0, ErrInvalidEncoding
}

// WriteU32 encodes v as v32 directly to w.
func WriteU32(w io.ByteWriter, v uint32) error {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			if err := w.WriteByte(b | 0x80); err != nil {
				return err
			}
		} else {
			return w.WriteByte(b)
		}
	}
}

// WriteU64 encodes v as v64 directly to w.
func WriteU64(w io.ByteWriter, v uint64) error {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			if err := w.WriteByte(b | 0x80); err != nil {
				return err
			}
		} else {
			return w.WriteByte(b)
		}
	}
}
