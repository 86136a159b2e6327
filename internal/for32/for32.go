// Package for32 implements the Frame-Of-Reference block codec used to
// store sorted, duplicate-free uint32 posting lists: each block of up
// to BlockSize values is delta-encoded against its predecessor (the
// first value of a block is its own delta) and bit-packed at the
// minimum width that fits the block's largest delta.
package for32

import (
	mathbits "math/bits"

	bitstream "github.com/nnev/lexidex/internal/bits"
	"github.com/nnev/lexidex/internal/varint"
)

// BlockSize is the default number of values per FOR block.
const BlockSize = 128

const (
	numBitsMask = 0x3f
	flagSized   = 0x40
	flagMore    = 0x80
)

// Encode encodes a sorted, strictly increasing sequence of uint32 values
// into the FOR block format described by spec.md §4.2 / §6.
func Encode(seq []uint32) []byte {
	return EncodeBlockSize(seq, BlockSize)
}

// EncodeBlockSize is Encode with an explicit block size, exposed for
// testing the block-boundary behavior (spec.md S5).
func EncodeBlockSize(seq []uint32, blockSize int) []byte {
	var out []byte
	for start := 0; start < len(seq); start += blockSize {
		end := start + blockSize
		if end > len(seq) {
			end = len(seq)
		}
		block := seq[start:end]
		out = appendBlock(out, block, blockSize, end < len(seq))
	}
	if len(seq) == 0 {
		// An empty sequence still needs a terminal (no-MORE) block so
		// that Decode on it yields an empty, non-error result.
		out = appendBlock(out, nil, blockSize, false)
	}
	return out
}

func appendBlock(out []byte, block []uint32, nominalSize int, more bool) []byte {
	deltas := make([]uint32, len(block))
	var prev uint32
	var orAll uint32
	for i, v := range block {
		if i == 0 {
			deltas[i] = v
		} else {
			deltas[i] = v - prev
		}
		prev = v
		orAll |= deltas[i]
	}

	numBits := 32 - mathbits.LeadingZeros32(orAll)
	if numBits == 0 {
		numBits = 1
	}

	header := byte(numBits) & numBitsMask
	sized := len(block) != nominalSize
	if sized {
		header |= flagSized
	}
	if more {
		header |= flagMore
	}
	out = append(out, header)
	if sized {
		out = varint.PutU32(out, uint32(len(block)))
	}

	w := bitstream.NewWriter()
	for _, d := range deltas {
		w.PushU32(d, numBits)
	}
	out = append(out, w.Bytes()...)
	return out
}

// Decode decodes a FOR-encoded byte stream back into the original
// sorted uint32 sequence.
func Decode(buf []byte) ([]uint32, error) {
	var out []uint32
	pos := 0
	for {
		if pos >= len(buf) {
			return nil, errTruncated
		}
		header := buf[pos]
		pos++

		numBits := int(header & numBitsMask)
		sized := header&flagSized != 0
		more := header&flagMore != 0

		count := BlockSize
		if sized {
			v, n, err := varint.GetU32(buf[pos:])
			if err != nil {
				return nil, err
			}
			count = int(v)
			pos += n
		}

		if count > 0 {
			payloadBits := numBits * count
			payloadBytes := (payloadBits + 7) / 8
			if pos+payloadBytes > len(buf) {
				return nil, errTruncated
			}
			r := bitstream.NewReader(buf[pos : pos+payloadBytes])
			var prev uint32
			for i := 0; i < count; i++ {
				d := r.GetU32(i*numBits, numBits)
				if i == 0 {
					prev = d
				} else {
					prev += d
				}
				out = append(out, prev)
			}
			pos += payloadBytes
		}

		if !more {
			break
		}
	}
	return out, nil
}
