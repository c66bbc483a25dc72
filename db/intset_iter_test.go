package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIteratorEmpty(t *testing.T) {
	s := NewIntSet[uint32]()
	assert.True(t, s.Begin().Equal(s.End()))
	assert.True(t, s.Find(7).Equal(s.End()), "find on an unallocated set is end")

	it := s.End()
	it.Next()
	assert.True(t, it.IsEnd())
	assert.Equal(t, -1, it.Index())
}

func TestIteratorWalksSlotOrder(t *testing.T) {
	s := NewIntSet[uint32]()
	require.NoError(t, s.InsertMany(12, 3, 8, 1))
	require.Equal(t, 7, s.Capacity())
	s.Erase(8)

	var got []uint32
	lastIndex := -1
	for it := s.Begin(); !it.Equal(s.End()); it.Next() {
		assert.Greater(t, it.Index(), lastIndex)
		lastIndex = it.Index()
		got = append(got, it.Key())
	}
	// 8 sits in slot 1, so 1 probed on to slot 2; 12 mod 7 is slot 5
	assert.Equal(t, []uint32{1, 3, 12}, got)
	assert.Equal(t, got, s.Keys())
}

func TestIteratorFind(t *testing.T) {
	s := NewIntSet[uint32]()
	require.NoError(t, s.InsertMany(4, 5, 6))

	it := s.Find(5)
	require.False(t, it.IsEnd())
	assert.Equal(t, uint32(5), it.Key())

	assert.True(t, s.Find(9).IsEnd())
	s.Erase(5)
	assert.True(t, s.Find(5).IsEnd())
}

func TestIteratorEquality(t *testing.T) {
	a := NewIntSet[uint32]()
	b := NewIntSet[uint32]()
	require.NoError(t, a.Insert(1))
	require.NoError(t, b.Insert(1))

	assert.True(t, a.Begin().Equal(a.Find(1)))
	assert.False(t, a.Begin().Equal(b.Begin()), "cursors of different sets differ")
	assert.False(t, a.End().Equal(b.End()))
}

func TestIteratorKeyOnEndPanics(t *testing.T) {
	s := NewIntSet[uint32]()
	assert.Panics(t, func() { s.End().Key() })
}

func TestRangeStops(t *testing.T) {
	s := NewIntSet[uint32]()
	require.NoError(t, s.InsertMany(1, 2, 3, 4, 5))

	n := 0
	s.Range(func(uint32) bool {
		n++
		return n < 2
	})
	assert.Equal(t, 2, n)

	var all []uint32
	for k := range s.All() {
		all = append(all, k)
		if len(all) == 3 {
			break
		}
	}
	assert.Equal(t, s.Keys()[:3], all)
}
