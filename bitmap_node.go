package phamt

import "sync/atomic"

// promoteThreshold/demoteThreshold are the configurable density thresholds
// that decide when a bitmapNode grows into an arrayNode and when an
// arrayNode shrinks back. They are process-wide tunables rather than being
// threaded through every call.
var (
	promoteThreshold int32 = 16
	demoteThreshold  int32 = 8
)

// SetDensityThresholds configures when a bitmapNode is promoted to an
// arrayNode (at promote occupied slots) and when an arrayNode is demoted
// back (below demote occupied slots). It affects every later Set/Delete
// on any Map or Mutation, process-wide, including Maps that already
// existed before the call. A non-positive argument leaves
// that threshold unchanged.
func SetDensityThresholds(promote, demote int) {
	if promote > 0 {
		atomic.StoreInt32(&promoteThreshold, int32(promote))
	}
	if demote > 0 {
		atomic.StoreInt32(&demoteThreshold, int32(demote))
	}
}

func currentPromoteThreshold() int { return int(atomic.LoadInt32(&promoteThreshold)) }
func currentDemoteThreshold() int  { return int(atomic.LoadInt32(&demoteThreshold)) }

// bitmapNode is the compact, popcount-indexed node variant. children holds
// exactly popcount(bitmap) entries, in ascending slot order; each entry is
// either a *leafNode or a nested trieNode (bitmapNode, arrayNode, or
// collisionNode) — there is no separate "is this slot a leaf" sentinel,
// since leafNode itself carries that distinction as a type.
type bitmapNode[K Key[K], V any] struct {
	own      ownerToken
	bitmap   uint32
	children []trieNode[K, V]
}

func newBitmapNode[K Key[K], V any](own ownerToken) *bitmapNode[K, V] {
	return &bitmapNode[K, V]{own: own}
}

func emptyBitmapNode[K Key[K], V any]() *bitmapNode[K, V] {
	return &bitmapNode[K, V]{}
}

func (t *bitmapNode[K, V]) owner() ownerToken { return t.own }

func (t *bitmapNode[K, V]) occupied() int { return popcount(t.bitmap) }

func (t *bitmapNode[K, V]) find(shift uint, h uint32, key K) (V, bool) {
	b := bitFor(h, shift)
	if t.bitmap&b == 0 {
		var zero V
		return zero, false
	}
	i := denseIndex(t.bitmap, b)
	return t.children[i].find(shift+nbits, h, key)
}

func (t *bitmapNode[K, V]) eachEntry(fn func(K, V) bool) bool {
	for _, c := range t.children {
		if !c.eachEntry(fn) {
			return false
		}
	}
	return true
}

// associate inserts or overwrites key/val, growing, cloning, or mutating
// nodes as the ownership rules below require.
func (t *bitmapNode[K, V]) associate(shift uint, h uint32, key K, val V, own ownerToken) (trieNode[K, V], bool) {
	b := bitFor(h, shift)
	i := denseIndex(t.bitmap, b)

	if t.bitmap&b == 0 {
		nt := t.cloneFor(own)
		nt.bitmap = t.bitmap | b
		nt.children = insertAt(t.children, i, trieNode[K, V](newLeaf[K, V](h, key, val)))

		if nt.occupied() >= currentPromoteThreshold() {
			return promoteToArray[K, V](nt, own), true
		}
		return nt, true
	}

	child := t.children[i]
	newChild, added := child.associate(shift+nbits, h, key, val, own)
	if sameNode[K, V](newChild, child) {
		return t, added
	}

	nt := t.cloneFor(own)
	nt.children[i] = newChild
	return nt, added
}

// associateChild inserts an already-built child node at the slot h occupies
// at shift, where that slot is known to currently be empty. Used when a
// collisionNode at a shallower level must be wrapped into a fresh bitmap
// parent.
func (t *bitmapNode[K, V]) associateChild(shift uint, h uint32, child trieNode[K, V], own ownerToken) (*bitmapNode[K, V], bool) {
	b := bitFor(h, shift)
	i := denseIndex(t.bitmap, b)
	nt := t.cloneFor(own)
	nt.bitmap = t.bitmap | b
	nt.children = insertAt(t.children, i, child)
	return nt, true
}

// without removes key, including the inline-promotion collapse rule (a
// child that collapsed to a lone leaf is inlined directly into this
// node's slot).
func (t *bitmapNode[K, V]) without(shift uint, h uint32, key K, own ownerToken) (trieNode[K, V], bool) {
	b := bitFor(h, shift)
	if t.bitmap&b == 0 {
		return t, false
	}
	i := denseIndex(t.bitmap, b)
	child := t.children[i]

	newChild, removed := child.without(shift+nbits, h, key, own)
	if !removed {
		return t, false
	}

	if newChild == nil {
		// The child became empty: drop the slot entirely.
		if t.occupied() == 1 {
			return nil, true
		}
		nt := t.cloneFor(own)
		nt.bitmap = t.bitmap &^ b
		nt.children = removeAt(nt.children, i)
		return nt, true
	}

	if leaf, ok := asInlinableLeaf[K, V](newChild); ok && !isLeafSlot(child) {
		nt := t.cloneFor(own)
		nt.children[i] = leaf
		return nt, true
	}

	nt := t.cloneFor(own)
	nt.children[i] = newChild
	return nt, true
}

// isLeafSlot reports whether the slot already directly held a leaf (so no
// further inlining action is required — the leaf's own without() already
// produced the right shape).
func isLeafSlot[K Key[K], V any](n trieNode[K, V]) bool {
	_, ok := n.(*leafNode[K, V])
	return ok
}

// asInlinableLeaf reports whether a freshly-returned child is, or reduces
// to, a lone leaf that should be inlined into the parent's slot directly,
// promoting the single entry into the parent slot rather than keeping it
// wrapped in its own one-entry node. A child can arrive here already a bare
// leaf (the collision-demote-to-leaf case), or as a bitmapNode/arrayNode
// that itself collapsed down to exactly one child which is a leaf.
func asInlinableLeaf[K Key[K], V any](n trieNode[K, V]) (*leafNode[K, V], bool) {
	switch t := n.(type) {
	case *leafNode[K, V]:
		return t, true
	case *bitmapNode[K, V]:
		if t.occupied() == 1 {
			if leaf, ok := t.children[0].(*leafNode[K, V]); ok {
				return leaf, true
			}
		}
	case *arrayNode[K, V]:
		if t.count == 1 {
			for _, c := range t.children {
				if c == nil {
					continue
				}
				if leaf, ok := c.(*leafNode[K, V]); ok {
					return leaf, true
				}
				break
			}
		}
	}
	return nil, false
}

// cloneFor returns t itself (for in-place editing) if t is already owned by
// own and own is not noOwner; otherwise it returns a fresh shallow clone
// owned by own, with its own independent children slice safe to mutate.
// This is the transient ownership protocol: a node may only be mutated in
// place by the Mutation that already owns it.
func (t *bitmapNode[K, V]) cloneFor(own ownerToken) *bitmapNode[K, V] {
	if own != noOwner && t.own == own {
		return t
	}
	nt := &bitmapNode[K, V]{own: own, bitmap: t.bitmap}
	nt.children = make([]trieNode[K, V], len(t.children))
	copy(nt.children, t.children)
	return nt
}

func sameNode[K Key[K], V any](a, b trieNode[K, V]) bool {
	la, aIsLeaf := a.(*leafNode[K, V])
	lb, bIsLeaf := b.(*leafNode[K, V])
	if aIsLeaf && bIsLeaf {
		return la == lb
	}
	return a == b
}

func insertAt[K Key[K], V any](s []trieNode[K, V], i int, n trieNode[K, V]) []trieNode[K, V] {
	out := make([]trieNode[K, V], len(s)+1)
	copy(out, s[:i])
	out[i] = n
	copy(out[i+1:], s[i:])
	return out
}

func removeAt[K Key[K], V any](s []trieNode[K, V], i int) []trieNode[K, V] {
	out := make([]trieNode[K, V], len(s)-1)
	copy(out, s[:i])
	copy(out[i:], s[i+1:])
	return out
}
