package db

import (
	"github.com/fzft/go-intset/log"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/exp/constraints"
)

const (
	// maintenance fires once live entries plus tombstones reach this share
	// of the capacity
	growthLoadFactor = 0.8
	// a maintenance event compacts instead of growing once tombstones reach
	// this share of the live entries
	compactRatio = 0.8
)

// ErrFull is returned by Insert when a set saturated at MaxCapacity has no
// free slot left.
var ErrFull = errors.New("set is full")

type slotState uint8

const (
	slotEmpty slotState = iota
	slotDeleted
	slotOccupied
)

// IntSet is an open addressing hash set of unsigned integers.
//
// Keys live in one flat array whose length is taken from the prime table.
// A key hashes to key mod capacity and collisions probe linearly. Removed
// keys leave a tombstone behind so that probe chains running through the
// slot stay intact; tombstones are purged by the next rebuild.
//
// In the default sentinel mode the zero value marks an empty slot and the
// maximum value of K marks a tombstone, so neither can be stored. A tagged
// set (NewTaggedIntSet) keeps a state byte per slot instead and accepts
// every key.
//
// The zero value is an empty sentinel-mode set ready to use. An IntSet is
// not safe for concurrent use.
type IntSet[K constraints.Unsigned] struct {
	keys    []K
	tags    []slotState // per slot state, only in tagged mode
	tagged  bool
	count   int // live keys
	deleted int // tombstones

	growths     uint64
	compactions uint64
}

// NewIntSet creates an empty sentinel-mode set. No storage is allocated
// until the first insert. Call Clear before dropping a set that holds keys,
// otherwise its array stays counted in UsedMemory.
func NewIntSet[K constraints.Unsigned]() *IntSet[K] {
	return &IntSet[K]{}
}

// NewTaggedIntSet creates an empty set that tags slot states explicitly and
// therefore accepts zero and the maximum value of K as keys.
func NewTaggedIntSet[K constraints.Unsigned]() *IntSet[K] {
	return &IntSet[K]{tagged: true}
}

func emptyKey[K constraints.Unsigned]() K {
	return 0
}

func deletedKey[K constraints.Unsigned]() K {
	return ^K(0)
}

/* ============================ slot primitives ============================ */

func (s *IntSet[K]) hash(key K) int {
	return int(uint64(key) % uint64(len(s.keys)))
}

func (s *IntSet[K]) isEmpty(i int) bool {
	if s.tagged {
		return s.tags[i] == slotEmpty
	}
	return s.keys[i] == emptyKey[K]()
}

func (s *IntSet[K]) isDeleted(i int) bool {
	if s.tagged {
		return s.tags[i] == slotDeleted
	}
	return s.keys[i] == deletedKey[K]()
}

func (s *IntSet[K]) isLive(i int) bool {
	return !s.isEmpty(i) && !s.isDeleted(i)
}

func (s *IntSet[K]) place(i int, key K) {
	s.keys[i] = key
	if s.tagged {
		s.tags[i] = slotOccupied
	}
}

func (s *IntSet[K]) markDeleted(i int) {
	if s.tagged {
		s.tags[i] = slotDeleted
		s.keys[i] = emptyKey[K]()
		return
	}
	s.keys[i] = deletedKey[K]()
}

// locate walks the probe sequence of key, passing over tombstones, until it
// meets key or an empty slot. It returns the index of key and true when key
// is present. Otherwise it returns the slot an insert of key must use: the
// first tombstone passed, or failing that the empty slot that ended the
// walk. The walk is bounded by the capacity, so on an array without empty
// slots an absent key with no tombstone on its way yields endIndex.
func (s *IntSet[K]) locate(key K) (int, bool) {
	capacity := len(s.keys)
	if capacity == 0 {
		return endIndex, false
	}

	free := endIndex
	idx := s.hash(key)
	for n := 0; n < capacity; n++ {
		switch {
		case s.isEmpty(idx):
			if free == endIndex {
				free = idx
			}
			return free, false
		case s.isDeleted(idx):
			if free == endIndex {
				free = idx
			}
		case s.keys[idx] == key:
			return idx, true
		}
		if idx++; idx == capacity {
			idx = 0
		}
	}
	return free, false
}

// locateEmpty returns the first empty slot on the probe sequence of key.
// It is only used to fill a freshly allocated array, which holds no
// tombstones and no duplicate of key, and always has room.
func (s *IntSet[K]) locateEmpty(key K) int {
	capacity := len(s.keys)
	idx := s.hash(key)
	for !s.isEmpty(idx) {
		if idx++; idx == capacity {
			idx = 0
		}
	}
	return idx
}

/* ============================ resize / rehash ============================ */

// maintain runs before every insert. When live entries plus tombstones
// reach the load factor it either compacts into the smallest prime above
// the live count, if tombstones dominate, or grows to the next prime.
func (s *IntSet[K]) maintain() {
	capacity := len(s.keys)
	if s.count+s.deleted < int(float64(capacity)*growthLoadFactor) {
		return
	}

	if s.deleted != 0 && s.deleted >= int(float64(s.count)*compactRatio) {
		s.rebuild(NextPrime(uint64(s.count)), "compact")
		s.compactions++
		return
	}

	s.rebuild(NextPrime(uint64(capacity)), "grow")
	s.growths++
}

// rebuild re-places every live key into a fresh array of newCapacity slots
// and drops the old array together with its tombstones.
func (s *IntSet[K]) rebuild(newCapacity uint64, reason string) {
	fresh := IntSet[K]{
		keys:   make([]K, newCapacity),
		tagged: s.tagged,
	}
	if s.tagged {
		fresh.tags = make([]slotState, newCapacity)
	}

	for i := range s.keys {
		if !s.isLive(i) {
			continue
		}
		fresh.place(fresh.locateEmpty(s.keys[i]), s.keys[i])
	}

	log.Logger.Debug("intset rebuild",
		zap.String("reason", reason),
		zap.Int("from", len(s.keys)),
		zap.Uint64("to", newCapacity),
		zap.Int("count", s.count),
		zap.Int("deleted", s.deleted))

	updateZmallocStatFree(estimateArrayUsage[K](len(s.keys), s.tagged))
	updateZmallocStatAlloc(estimateArrayUsage[K](len(fresh.keys), s.tagged))

	s.keys, s.tags = fresh.keys, fresh.tags
	s.deleted = 0
}

/* ============================ public operations ========================== */

// Insert adds key to the set. Inserting a key that is already present is a
// no-op. A sentinel-mode set rejects the zero value and the maximum value of
// K with ErrInvalidKey.
func (s *IntSet[K]) Insert(key K) error {
	if !s.tagged {
		if key == emptyKey[K]() {
			return invalidKey(uint64(key), "empty")
		}
		if key == deletedKey[K]() {
			return invalidKey(uint64(key), "deleted")
		}
	}

	s.maintain()

	idx, found := s.locate(key)
	if found {
		return nil
	}
	if idx == endIndex {
		return errors.Wrapf(ErrFull, "inserting %d at capacity %d", uint64(key), len(s.keys))
	}
	if s.isDeleted(idx) {
		s.deleted--
	}
	s.place(idx, key)
	s.count++
	return nil
}

// InsertMany inserts every key in order. Invalid keys are skipped and
// reported together in a MultiError once the rest are in.
func (s *IntSet[K]) InsertMany(keys ...K) error {
	var errs MultiError
	for _, key := range keys {
		if err := s.Insert(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errs.errOrNil()
}

// InsertSet inserts every live key of other, visiting other in slot order.
// Keys other holds that this set cannot store (a tagged source feeding a
// sentinel-mode set) are reported in a MultiError. A nil other is an empty
// set.
func (s *IntSet[K]) InsertSet(other *IntSet[K]) error {
	if other == nil || other == s {
		return nil
	}
	var errs MultiError
	other.Range(func(key K) bool {
		if err := s.Insert(key); err != nil {
			errs = append(errs, err)
		}
		return true
	})
	return errs.errOrNil()
}

// Erase removes key and reports whether it was present. When tombstones
// come to outnumber live keys the set is compacted right away.
func (s *IntSet[K]) Erase(key K) bool {
	if len(s.keys) == 0 {
		return false
	}

	idx, found := s.locate(key)
	if !found {
		return false
	}

	s.markDeleted(idx)
	s.count--
	s.deleted++

	if s.deleted > s.count {
		s.rebuild(NextPrime(uint64(s.count)), "erase-compact")
		s.compactions++
	}
	return true
}

// Exists reports whether key is in the set.
func (s *IntSet[K]) Exists(key K) bool {
	_, found := s.locate(key)
	return found
}

// Clear removes every key and releases the backing array, returning its
// bytes to UsedMemory. Clearing an empty set is a no-op.
func (s *IntSet[K]) Clear() {
	updateZmallocStatFree(estimateArrayUsage[K](len(s.keys), s.tagged))
	s.keys = nil
	s.tags = nil
	s.count = 0
	s.deleted = 0
}

// Size returns the number of keys in the set.
func (s *IntSet[K]) Size() int {
	return s.count
}

// Capacity returns the number of slots in the backing array.
func (s *IntSet[K]) Capacity() int {
	return len(s.keys)
}

// Deleted returns the number of tombstones awaiting the next rebuild.
func (s *IntSet[K]) Deleted() int {
	return s.deleted
}

// Tagged reports whether the set tags slot states instead of reserving
// sentinel keys.
func (s *IntSet[K]) Tagged() bool {
	return s.tagged
}

// Equal reports whether s and other hold exactly the same keys. Every key
// of other must exist in s and other must hold as many keys as s. A nil
// other is an empty set.
func (s *IntSet[K]) Equal(other *IntSet[K]) bool {
	if other == nil {
		return s.count == 0
	}
	n := 0
	for i := range other.keys {
		if !other.isLive(i) {
			continue
		}
		if !s.Exists(other.keys[i]) {
			return false
		}
		n++
	}
	return n == s.count
}

// Stats is a point in time summary of a set.
type Stats struct {
	Size        int
	Capacity    int
	Deleted     int
	Growths     uint64 // rebuilds into a larger array
	Compactions uint64 // rebuilds that purged tombstones
	Bytes       int64  // backing array footprint
}

// Stats returns the current counters of the set.
func (s *IntSet[K]) Stats() Stats {
	return Stats{
		Size:        s.count,
		Capacity:    len(s.keys),
		Deleted:     s.deleted,
		Growths:     s.growths,
		Compactions: s.compactions,
		Bytes:       estimateArrayUsage[K](len(s.keys), s.tagged),
	}
}
