package fst

import "sort"

// node is one byte-labeled transition target. Children are kept sorted
// by label so descent can binary-search (spec.md §9: lookup is on the
// hot path and keys arrive pre-sorted, so a sorted array beats a linked
// list here).
type node[T any] struct {
	label    byte
	children []*node[T]

	value    T
	hasValue bool

	final         bool
	finalValue    T
	hasFinalValue bool
}

// child returns the existing child labeled b, or nil.
func (n *node[T]) child(b byte) *node[T] {
	i := sort.Search(len(n.children), func(i int) bool {
		return n.children[i].label >= b
	})
	if i < len(n.children) && n.children[i].label == b {
		return n.children[i]
	}
	return nil
}

// insertChildSorted inserts c keeping n.children sorted by label. Since
// keys arrive in ascending lexicographic order, new labels at a given
// node are always >= the last one, but we still search for strict
// correctness against degenerate callers.
func (n *node[T]) insertChildSorted(c *node[T]) {
	i := sort.Search(len(n.children), func(i int) bool {
		return n.children[i].label >= c.label
	})
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = c
}
