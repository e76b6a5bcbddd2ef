package charpool

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// isPowerOfTwo reports whether v is a non-zero power of two.
func isPowerOfTwo[T constraints.Unsigned](v T) bool {
	return v != 0 && v&(v-1) == 0
}

// floorLog2 returns log2(v) rounded down, i.e. the index of the highest set
// bit. floorLog2(0) is 0.
func floorLog2[T constraints.Unsigned](v T) uint {
	if v == 0 {
		return 0
	}
	return uint(bits.Len64(uint64(v))) - 1
}

// ceilLog2 returns log2(v) rounded up. ceilLog2(0) and ceilLog2(1) are 0.
func ceilLog2[T constraints.Unsigned](v T) uint {
	if v <= 1 {
		return 0
	}
	return uint(bits.Len64(uint64(v) - 1))
}
