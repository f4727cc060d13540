// Package phamt implements a persistent (immutable) associative container
// backed by a Hash Array Mapped Trie (HAMT).
//
// Every mutating operation — Set, Delete, Update — returns a new Map that
// shares the bulk of its structure with its predecessor instead of copying
// it. A Map is safe to read concurrently from many goroutines once
// published; it is never mutated in place.
//
// For batch edits, open a transient editor with Map.Mutate, apply a
// sequence of edits, and call Finish to obtain the resulting Map. A
// transient amortizes the allocation cost of a long edit sequence by
// mutating nodes it created itself in place, instead of allocating a new
// node per change.
package phamt
