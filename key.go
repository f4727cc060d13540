package phamt

// Key is the hashable-key capability pair the trie relies on: a total-order
// free equivalence (Equal) and a stable integer hash (HashCode). The engine
// never orders keys, and never caches the native hashcode — it is
// recomputed from HashCode whenever the engine needs it, exactly as the
// hashcode of a value is never assumed stable across an edit.
//
// Equal and HashCode must be pure and terminating. A panicking
// implementation is recovered at the nearest public Map/Mutation boundary.
// Map.Delete and the Mutation methods return it as ErrUserCallbackFailure.
// Map.Get, GetOr, Contains, MustGet and Equal do not report it: the key is
// treated as absent. Map.Set does not report it either: it returns the
// receiver unchanged.
type Key[K any] interface {
	// Equal reports whether the receiver and other denote the same key.
	Equal(other K) bool
	// HashCode returns a stable, full-width hashcode for the key.
	HashCode() uint64
}

// nbits is the number of hash bits consumed per trie level. 2^nbits == 32,
// the number of logical slots in a table.
const nbits = 5

// maxShift bounds the depth of the trie: a 32-bit mixed hash has 7 full or
// partial nbits-wide slices (0, 5, 10, ..., 30).
const maxShift = 30

// mixHash folds a key's full-width native hashcode into the 32-bit value
// used for all trie indexing, per spec §4.1: fold the upper half into the
// lower half with XOR. This guarantees a bounded, known-width index
// regardless of the host hashcode's native width.
func mixHash(h uint64) uint32 {
	return uint32(h) ^ uint32(h>>32)
}

// slot extracts the nbits-wide logical slot a mixed hash occupies at shift.
func slot(h uint32, shift uint) uint32 {
	return (h >> shift) & 0x1f
}

// bitFor returns the single-bit mask identifying slot(h, shift) within a
// table's occupancy bitmap.
func bitFor(h uint32, shift uint) uint32 {
	return 1 << slot(h, shift)
}

// denseIndex returns the position within a compact (bitmap-indexed) node's
// entries slice that corresponds to bit, given the node's full occupancy
// bitmap.
func denseIndex(bitmap, bit uint32) int {
	return popcount(bitmap & (bit - 1))
}
