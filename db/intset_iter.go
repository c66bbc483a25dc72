package db

import (
	"iter"

	"golang.org/x/exp/constraints"
)

// endIndex is the slot index of the end cursor.
const endIndex = -1

// Iterator is a forward cursor over the live keys of a set in slot order.
// Any insert, erase or clear on the set invalidates outstanding cursors,
// the end cursor included.
type Iterator[K constraints.Unsigned] struct {
	set   *IntSet[K]
	index int
}

// nextLive returns the first live slot after from, or endIndex.
func (s *IntSet[K]) nextLive(from int) int {
	for i := from + 1; i < len(s.keys); i++ {
		if s.isLive(i) {
			return i
		}
	}
	return endIndex
}

// Begin returns a cursor at the lowest slot holding a key, or End when the
// set is empty.
func (s *IntSet[K]) Begin() Iterator[K] {
	return Iterator[K]{set: s, index: s.nextLive(endIndex)}
}

// End returns the end cursor of the set.
func (s *IntSet[K]) End() Iterator[K] {
	return Iterator[K]{set: s, index: endIndex}
}

// Find returns a cursor at key, or End when key is absent.
func (s *IntSet[K]) Find(key K) Iterator[K] {
	idx, found := s.locate(key)
	if !found {
		return s.End()
	}
	return Iterator[K]{set: s, index: idx}
}

// Next advances the cursor to the next live slot. Advancing the end cursor
// leaves it at the end.
func (it *Iterator[K]) Next() {
	if it.index == endIndex {
		return
	}
	it.index = it.set.nextLive(it.index)
}

// Key returns the key under the cursor. It panics on the end cursor.
func (it Iterator[K]) Key() K {
	if it.index == endIndex {
		panic("intset: Key called on end iterator")
	}
	return it.set.keys[it.index]
}

// Index returns the slot the cursor points at, -1 for the end cursor.
func (it Iterator[K]) Index() int {
	return it.index
}

// IsEnd reports whether the cursor is past the last key.
func (it Iterator[K]) IsEnd() bool {
	return it.index == endIndex
}

// Equal reports whether both cursors point at the same slot of the same set.
func (it Iterator[K]) Equal(other Iterator[K]) bool {
	return it.set == other.set && it.index == other.index
}

// Range calls fn for every key in slot order until fn returns false. fn must
// not modify the set.
func (s *IntSet[K]) Range(fn func(key K) bool) {
	for i := s.nextLive(endIndex); i != endIndex; i = s.nextLive(i) {
		if !fn(s.keys[i]) {
			return
		}
	}
}

// All returns an iterator over the keys in slot order.
func (s *IntSet[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		s.Range(yield)
	}
}

// Keys returns the keys in slot order.
func (s *IntSet[K]) Keys() []K {
	keys := make([]K, 0, s.count)
	s.Range(func(key K) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}
