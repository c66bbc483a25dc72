package db

// primeTable drives every capacity choice. It roughly doubles per step and
// ends at the largest 32-bit value. The leading 0 is the capacity of a set
// that has never allocated.
var primeTable = [...]uint64{
	0, 3, 7, 11,
	23, 47, 97, 197,
	397, 797, 1597, 3191,
	6379, 12757, 25471, 50929,
	101839, 203669, 407321, 814643,
	1629281, 3258551, 6517097, 13034191,
	26068369, 52136729, 104273459, 208546913,
	312820367, 469230529, 703845773, 1055768627,
	1583652929, 2375479373, 3563219059, 4294967295,
}

// MaxCapacity is the largest capacity a set can grow to.
const MaxCapacity = 4294967295

// NextPrime returns the smallest tabulated prime strictly greater than n.
// Once n reaches the end of the table growth saturates and MaxCapacity is
// returned.
func NextPrime(n uint64) uint64 {
	last := len(primeTable) - 1
	if n >= primeTable[last] {
		return primeTable[last]
	}

	// binary search for the first entry > n
	lo, hi := 0, last
	for lo < hi {
		mid := (lo + hi) / 2
		if primeTable[mid] <= n {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return primeTable[lo]
}
