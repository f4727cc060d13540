package phamt

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

// Entry is an ordinary key/value pair, used by FromEntries and as the
// element type of EntrySlice.
type Entry[K Key[K], V any] struct {
	Key K
	Val V
}

// Map is a persistent (immutable) associative container. Every
// Set/Delete/Update call returns a new Map sharing structure with its
// predecessor; the receiver is never modified. The zero Map is not valid —
// always obtain one from Empty, FromEntries, or FromMap.
type Map[K Key[K], V any] struct {
	root   trieNode[K, V]
	count  int
	hashed *atomic.Int64
}

// Empty returns the canonical empty Map: an empty bitmap root and a count
// of zero.
func Empty[K Key[K], V any](opts ...Option) Map[K, V] {
	applyOptions(opts)
	return newMap[K, V](emptyBitmapNode[K, V](), 0)
}

func newMap[K Key[K], V any](root trieNode[K, V], count int) Map[K, V] {
	h := new(atomic.Int64)
	h.Store(uncomputedHash)
	return Map[K, V]{root: root, count: count, hashed: h}
}

// FromEntries builds a Map from a sequence of key/value pairs, last write
// wins on duplicate keys.
func FromEntries[K Key[K], V any](entries ...Entry[K, V]) (Map[K, V], error) {
	mm := Empty[K, V]().Mutate()
	for _, e := range entries {
		if err := mm.Set(e.Key, e.Val); err != nil {
			return Map[K, V]{}, err
		}
	}
	return mm.Finish(), nil
}

// FromMap builds a Map from a plain Go map, using hash to supply each
// key's hashcode. A comparable K has no Equal/HashCode pair of its own, so
// each key is wrapped in a HashedKey[K] (using K's native == for equality)
// to satisfy Key[K]. This is a convenience constructor built on top of
// FromEntries.
func FromMap[K comparable, V any](src map[K]V, hash func(K) uint64) (Map[HashedKey[K], V], error) {
	entries := make([]Entry[HashedKey[K], V], 0, len(src))
	for k, v := range src {
		entries = append(entries, Entry[HashedKey[K], V]{Key: HashedKey[K]{val: k, hash: hash(k)}, Val: v})
	}
	return FromEntries(entries...)
}

// HashedKey adapts a comparable K plus an explicit hashcode function into
// phamt's Key[K] capability pair, for use with FromMap.
type HashedKey[K comparable] struct {
	val  K
	hash uint64
}

// NewHashedKey wraps val with an explicit hashcode for use with FromMap.
func NewHashedKey[K comparable](val K, hash uint64) HashedKey[K] {
	return HashedKey[K]{val: val, hash: hash}
}

// Value returns the wrapped comparable key.
func (h HashedKey[K]) Value() K { return h.val }

func (h HashedKey[K]) Equal(other HashedKey[K]) bool { return h.val == other.val }
func (h HashedKey[K]) HashCode() uint64              { return h.hash }

// Len returns the number of live entries in m.
func (m Map[K, V]) Len() int { return m.count }

// Get retrieves the value for key.
func (m Map[K, V]) Get(key K) (val V, found bool) {
	_ = safeCall(func() error {
		val, found = m.root.find(0, mixHash(key.HashCode()), key)
		return nil
	})
	return val, found
}

// GetOr retrieves the value for key, or def if key is absent.
func (m Map[K, V]) GetOr(key K, def V) V {
	if v, ok := m.Get(key); ok {
		return v
	}
	return def
}

// Contains reports whether key is present in m.
func (m Map[K, V]) Contains(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// MustGet retrieves the value for key, or a *NotFoundError if absent.
func (m Map[K, V]) MustGet(key K) (V, error) {
	if v, ok := m.Get(key); ok {
		return v, nil
	}
	var zero V
	return zero, &NotFoundError[K]{Key: key}
}

// Set returns a new Map with key bound to val. If the result would be
// structurally identical to m (key already bound to an equal value), Set
// returns m itself rather than allocating a structurally identical copy.
func (m Map[K, V]) Set(key K, val V) Map[K, V] {
	var (
		newRoot trieNode[K, V]
		added   bool
	)
	err := safeCall(func() error {
		h := mixHash(key.HashCode())
		newRoot, added = m.root.associate(0, h, key, val, noOwner)
		return nil
	})
	if err != nil || newRoot == m.root {
		return m
	}
	count := m.count
	if added {
		count++
	}
	return newMap[K, V](newRoot, count)
}

// Delete returns a new Map with key removed, or a *NotFoundError if key is
// absent.
func (m Map[K, V]) Delete(key K) (Map[K, V], error) {
	var result trieNode[K, V]
	var removed bool
	err := safeCall(func() error {
		h := mixHash(key.HashCode())
		result, removed = m.root.without(0, h, key, noOwner)
		return nil
	})
	if err != nil {
		return Map[K, V]{}, err
	}
	if !removed {
		return Map[K, V]{}, &NotFoundError[K]{Key: key}
	}
	if result == nil {
		result = emptyBitmapNode[K, V]()
	}
	return newMap[K, V](result, m.count-1), nil
}

// Source is anything Update can absorb: another Map, a live Mutation
// snapshot, or a plain slice of entries.
type Source[K Key[K], V any] interface {
	forEach(func(K, V) bool)
}

func (m Map[K, V]) forEach(fn func(K, V) bool) { m.root.eachEntry(fn) }

// EntrySlice adapts a plain []Entry into a Source for Update.
type EntrySlice[K Key[K], V any] []Entry[K, V]

func (s EntrySlice[K, V]) forEach(fn func(K, V) bool) {
	for _, e := range s {
		if !fn(e.Key, e.Val) {
			return
		}
	}
}

// Update applies every pair of source to m, last write wins, and returns
// the resulting Map. It is equivalent to opening a transient, applying
// each pair in iteration order, and finishing.
func (m Map[K, V]) Update(source Source[K, V]) (Map[K, V], error) {
	mm := m.Mutate()
	var setErr error
	source.forEach(func(k K, v V) bool {
		if err := mm.Set(k, v); err != nil {
			setErr = err
			return false
		}
		return true
	})
	if setErr != nil {
		return Map[K, V]{}, setErr
	}
	return mm.Finish(), nil
}

// Equal reports whether m and other contain the same (key, value) set:
// equal counts, and every (k, v) of m present in other with an equal
// value. Value equality is structural (reflect.DeepEqual) — see
// equality.go.
func (m Map[K, V]) Equal(other Map[K, V]) (eq bool, err error) {
	if m.count != other.count {
		return false, nil
	}
	err = safeCall(func() error {
		eq = true
		m.root.eachEntry(func(k K, v V) bool {
			ov, ok := other.Get(k)
			if !ok || !valuesEqual(v, ov) {
				eq = false
				return false
			}
			return true
		})
		return nil
	})
	if err != nil {
		return false, err
	}
	return eq, nil
}

// StructuralHash returns m's order-independent structural hash, computing
// and caching it on first call.
func (m Map[K, V]) StructuralHash() int64 {
	if cached := m.hashed.Load(); cached != uncomputedHash {
		return cached
	}
	h := structuralHash[K, V](m.count, m.root)
	m.hashed.Store(h)
	return h
}

// Mutate opens a transient editor over m's contents, scoped to the
// caller. The returned Mutation does not affect m.
func (m Map[K, V]) Mutate() *Mutation[K, V] {
	return &Mutation[K, V]{root: m.root, count: m.count, own: newOwnerToken()}
}

// Range calls fn for every (key, value) in m in trie order (no
// particular order is promised), stopping early if fn returns false.
func (m Map[K, V]) Range(fn func(K, V) bool) {
	m.root.eachEntry(fn)
}

// Iter returns a cursor-based iterator over m's entries.
func (m Map[K, V]) Iter() *Iterator[K, V] {
	return newIterator[K, V](m.root)
}

// Dump writes a diagnostic rendering of m's trie structure to w. The
// format is unspecified and intended for debugging only.
func (m Map[K, V]) Dump(w io.Writer) {
	fmt.Fprintf(w, "Map{count:%d, root:\n", m.count)
	dumpNode[K, V](w, m.root, "  ")
	fmt.Fprintln(w, "}")
}

func dumpNode[K Key[K], V any](w io.Writer, n trieNode[K, V], indent string) {
	switch t := n.(type) {
	case *leafNode[K, V]:
		fmt.Fprintf(w, "%sleaf{hash:%#08x, key:%v, val:%v}\n", indent, t.hash, t.key, t.val)
	case *collisionNode[K, V]:
		fmt.Fprintf(w, "%scollision{hash:%#08x, n:%d}\n", indent, t.hash, len(t.entries))
	case *bitmapNode[K, V]:
		fmt.Fprintf(w, "%sbitmap{bitmap:%032b, n:%d}\n", indent, t.bitmap, len(t.children))
		for _, c := range t.children {
			dumpNode[K, V](w, c, indent+"  ")
		}
	case *arrayNode[K, V]:
		fmt.Fprintf(w, "%sarray{count:%d}\n", indent, t.count)
		for _, c := range t.children {
			if c != nil {
				dumpNode[K, V](w, c, indent+"  ")
			}
		}
	}
}

func (m Map[K, V]) String() string {
	var sb strings.Builder
	m.Dump(&sb)
	return sb.String()
}
