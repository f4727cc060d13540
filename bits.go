package phamt

import "math/bits"

// popcount counts the set bits of a table's occupancy bitmap.
func popcount(x uint32) int {
	return bits.OnesCount32(x)
}
