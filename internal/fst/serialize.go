package fst

import (
	"encoding/binary"
	"io"

	"github.com/nnev/lexidex/internal/varint"
)

const (
	flagFinal          = 0x01
	flagHasValue       = 0x02
	flagHasFinalValue  = 0x04
	childCountOverflow = 31
)

// Write serializes f in pre-order (spec.md §4.3/§6). The traversal uses
// an explicit stack rather than recursion (spec.md §9 design note) so
// arbitrarily deep/wide FSTs don't risk the native call stack.
func Write[T any](f *FST[T], codec Codec[T], w io.Writer) error {
	count := countNodes(f.root)

	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(count))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	type frame struct {
		siblings []*node[T]
		idx      int
	}

	if count == 0 {
		return nil
	}

	stack := []*frame{{siblings: f.root.children}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.idx >= len(top.siblings) {
			stack = stack[:len(stack)-1]
			continue
		}
		n := top.siblings[top.idx]
		top.idx++

		if err := writeNode(n, codec, w); err != nil {
			return err
		}
		if len(n.children) > 0 {
			stack = append(stack, &frame{siblings: n.children})
		}
	}
	return nil
}

func writeNode[T any](n *node[T], codec Codec[T], w io.Writer) error {
	if _, err := w.Write([]byte{n.label}); err != nil {
		return err
	}

	childCount := len(n.children)
	flag := byte(0)
	if n.final {
		flag |= flagFinal
	}
	if n.hasValue {
		flag |= flagHasValue
	}
	if n.hasFinalValue {
		flag |= flagHasFinalValue
	}

	countField := childCount
	if countField > childCountOverflow {
		countField = childCountOverflow
	}
	flag |= byte(countField) << 3

	if _, err := w.Write([]byte{flag}); err != nil {
		return err
	}

	if childCount >= childCountOverflow {
		buf := varint.PutU32(nil, uint32(childCount))
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}

	if n.hasValue {
		if err := codec.Write(n.value, w); err != nil {
			return err
		}
	}
	if n.hasFinalValue {
		if err := codec.Write(n.finalValue, w); err != nil {
			return err
		}
	}
	return nil
}

func countNodes[T any](root *node[T]) int {
	total := 0
	stack := [][]*node[T]{root.children}
	for len(stack) > 0 {
		n := len(stack) - 1
		siblings := stack[n]
		if len(siblings) == 0 {
			stack = stack[:n]
			continue
		}
		head := siblings[0]
		stack[n] = siblings[1:]
		total++
		if len(head.children) > 0 {
			stack = append(stack, head.children)
		}
	}
	return total
}

// Read deserializes an FST previously written by Write, using an
// explicit child-count stack (spec.md §4.3/§9) rather than recursion.
func Read[T any](monoid Monoid[T], codec Codec[T], r io.Reader) (*FST[T], error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, varint.ErrInvalidEncoding
	}
	count := binary.BigEndian.Uint32(hdr[:])

	root := &node[T]{}
	if count == 0 {
		return &FST[T]{root: root, monoid: monoid}, nil
	}

	type frame struct {
		n         *node[T]
		remaining int
	}
	var stack []*frame

	attach := func(n *node[T]) {
		cur := n
		for {
			if len(stack) == 0 {
				root.children = append(root.children, cur)
				return
			}
			top := stack[len(stack)-1]
			top.n.children = append(top.n.children, cur)
			top.remaining--
			if top.remaining > 0 {
				return
			}
			stack = stack[:len(stack)-1]
			cur = top.n
		}
	}

	for i := uint32(0); i < count; i++ {
		n, childCount, err := readNode(monoid, codec, r)
		if err != nil {
			return nil, err
		}
		if childCount > 0 {
			stack = append(stack, &frame{n: n, remaining: childCount})
			continue
		}
		attach(n)
	}

	if len(stack) != 0 {
		return nil, varint.ErrInvalidEncoding
	}

	return &FST[T]{root: root, monoid: monoid}, nil
}

func readNode[T any](monoid Monoid[T], codec Codec[T], r io.Reader) (*node[T], int, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, 0, varint.ErrInvalidEncoding
	}
	label := hdr[0]
	flag := hdr[1]

	n := &node[T]{label: label}
	n.final = flag&flagFinal != 0
	n.hasValue = flag&flagHasValue != 0
	n.hasFinalValue = flag&flagHasFinalValue != 0

	childCount := int(flag >> 3)
	if childCount == childCountOverflow {
		v, _, err := readVarintFromReader(r)
		if err != nil {
			return nil, 0, err
		}
		childCount = int(v)
	}

	if n.hasValue {
		v, err := codec.Read(r)
		if err != nil {
			return nil, 0, err
		}
		n.value = v
	}
	if n.hasFinalValue {
		v, err := codec.Read(r)
		if err != nil {
			return nil, 0, err
		}
		n.finalValue = v
	}

	_ = monoid // monoid is not needed for reconstruction itself, only for FST.Get's Add/Zero semantics
	return n, childCount, nil
}

func readVarintFromReader(r io.Reader) (uint32, int, error) {
	br := asByteReader(r)
	v, err := varint.ReadU32(br)
	return v, 0, err
}
