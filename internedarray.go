package abc

import "github.com/samber/lo"

// Ops is the capability set a value kind supplies to an InternedArray:
// hashing, structural equality, and cloning. This is the Go mapping of
// the original C pool's per-kind type_t{dup, hash, equals, free}
// function-pointer table (see pool.c), re-architected as a table of
// closures rather than a vtable on an inheritance hierarchy.
type Ops[T any] struct {
	Hash   func(T) uint32
	Equals func(a, b T) bool
	Clone  func(T) T
}

// InternedArray is a kind-parametric deduplicating store. Index 0 is a
// reserved sentinel ("absent/any") and is never compared for equality.
// All real entries live at indices >= 1.
type InternedArray[T any] struct {
	ops     Ops[T]
	entries []T
	byHash  map[uint32][]int
}

// NewInternedArray creates an array pre-populated with the sentinel
// entry at index 0.
func NewInternedArray[T any](ops Ops[T]) *InternedArray[T] {
	var zero T
	return &InternedArray[T]{
		ops:     ops,
		entries: []T{zero},
		byHash:  make(map[uint32][]int),
	}
}

// Len returns the total entry count, including the sentinel.
func (a *InternedArray[T]) Len() int {
	return len(a.entries)
}

// Get returns the entry stored at index, or the zero value if index is
// out of range (including the sentinel at 0).
func (a *InternedArray[T]) Get(index int) T {
	if index <= 0 || index >= len(a.entries) {
		var zero T
		return zero
	}
	return a.entries[index]
}

// Append unconditionally appends a clone of value and returns its
// 1-based index. Used by the codec's Read path, where the on-disk pool
// may legitimately contain duplicates whose original index assignment
// must be preserved.
func (a *InternedArray[T]) Append(value T) int {
	a.entries = append(a.entries, a.ops.Clone(value))
	index := len(a.entries) - 1
	h := a.ops.Hash(value)
	a.byHash[h] = append(a.byHash[h], index)
	return index
}

// findIndex returns the 1-based index of an existing entry structurally
// equal to value, or 0 if none exists.
func (a *InternedArray[T]) findIndex(value T) int {
	h := a.ops.Hash(value)
	candidates := a.byHash[h]
	_, pos, ok := lo.FindIndexOf(candidates, func(idx int) bool {
		return a.ops.Equals(a.entries[idx], value)
	})
	if !ok {
		return 0
	}
	return candidates[pos]
}

// Find returns the existing index for value, or 0 if absent.
func (a *InternedArray[T]) Find(value T) int {
	return a.findIndex(value)
}

// AppendIfNew returns the index of an existing structurally-equal entry,
// or clones and appends value and returns its new index.
func (a *InternedArray[T]) AppendIfNew(value T) int {
	if idx := a.findIndex(value); idx != 0 {
		return idx
	}
	return a.Append(value)
}

// Clone deep-copies the whole array, including its hash index.
func (a *InternedArray[T]) Clone() *InternedArray[T] {
	out := &InternedArray[T]{
		ops:     a.ops,
		entries: make([]T, len(a.entries)),
		byHash:  make(map[uint32][]int, len(a.byHash)),
	}
	for i, v := range a.entries {
		out.entries[i] = a.ops.Clone(v)
	}
	for h, idxs := range a.byHash {
		cp := make([]int, len(idxs))
		copy(cp, idxs)
		out.byHash[h] = cp
	}
	return out
}
