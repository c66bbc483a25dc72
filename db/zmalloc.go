package db

import (
	"sync/atomic"
	"unsafe"
)

// usedMemory counts the bytes held by the backing arrays of every live set
// in the process.
var usedMemory int64 = 0

// UsedMemory returns the bytes currently held by set backing arrays. A set
// gives its bytes back in Clear; one dropped without Clear stays counted.
func UsedMemory() int64 {
	return atomic.LoadInt64(&usedMemory)
}

func updateZmallocStatAlloc(n int64) {
	atomic.AddInt64(&usedMemory, n)
}

func updateZmallocStatFree(n int64) {
	atomic.AddInt64(&usedMemory, -n)
}

// estimateArrayUsage returns the bytes of a key array of the given length,
// plus one tag byte per slot when the set keeps tags.
func estimateArrayUsage[K any](slots int, tagged bool) int64 {
	var k K
	n := int64(slots) * int64(unsafe.Sizeof(k))
	if tagged {
		n += int64(slots) * int64(unsafe.Sizeof(slotEmpty))
	}
	return n
}
