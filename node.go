package phamt

import "github.com/google/uuid"

// ownerToken identifies the transient that currently holds exclusive
// in-place-mutation rights over a node. The zero value means the node is
// persistent (shared, never mutated in place). Modeled as a uuid.UUID,
// with a fresh one issued per Mutate call.
type ownerToken uuid.UUID

var noOwner ownerToken

func newOwnerToken() ownerToken {
	return ownerToken(uuid.New())
}

// trieNode is the closed sum type of the three core node variants (bitmap,
// array, collision), plus leafNode — a dedicated leaf-entry type described
// in SPEC_FULL.md's REDESIGN FLAGS. Every method
// is shift/hash-driven and purely recursive: a call either returns the
// receiver unchanged (no structural change occurred) or a freshly built
// replacement, with no separate copy-up/path-stack bookkeeping required of
// callers.
type trieNode[K Key[K], V any] interface {
	// associate inserts or overwrites key/val starting at shift, owned by
	// own (noOwner for persistent editing). Returns the (possibly
	// identical, possibly in-place-mutated, possibly freshly built)
	// resulting node and whether a new entry was added (false means an
	// existing key's value was overwritten or was already identical).
	associate(shift uint, h uint32, key K, val V, own ownerToken) (trieNode[K, V], bool)

	// find looks up key starting at shift.
	find(shift uint, h uint32, key K) (V, bool)

	// without removes key starting at shift, owned by own. ok reports
	// whether the key was present. If the receiver becomes empty as a
	// result, the returned node is nil (callers collapse a nil result from
	// the root into a fresh canonical empty bitmap node).
	without(shift uint, h uint32, key K, own ownerToken) (result trieNode[K, V], ok bool)

	// eachEntry performs a depth-first walk of every leaf entry reachable
	// from the receiver, in ascending slot order at every level. It stops
	// early and returns false if fn returns false.
	eachEntry(fn func(K, V) bool) bool

	// owner reports the owner token under which this node was built, or
	// noOwner if the node is persistent.
	owner() ownerToken
}
