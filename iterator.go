package phamt

// Iterator is a resumable, depth-first cursor over a Map's entries.
// A zero Iterator is not valid; obtain one from Map.Iter.
// Iterators are snapshot-stable: because the Map they were built from is
// immutable, further Set/Delete calls on that Map never affect an
// in-progress Iterator.
type Iterator[K Key[K], V any] struct {
	stack []frame[K, V]
	key   K
	val   V
	ok    bool
}

// frame tracks a pending sibling walk: the node being descended and the
// next child index within it still to visit.
type frame[K Key[K], V any] struct {
	node trieNode[K, V]
	next int
}

func newIterator[K Key[K], V any](root trieNode[K, V]) *Iterator[K, V] {
	return &Iterator[K, V]{stack: []frame[K, V]{{node: root}}}
}

// Next advances the cursor to the following entry, returning false once
// iteration is exhausted.
func (it *Iterator[K, V]) Next() bool {
	return it.advance()
}

// Key returns the current entry's key. Valid only after a call to Next
// has returned true.
func (it *Iterator[K, V]) Key() K { return it.key }

// Value returns the current entry's value. Valid only after a call to
// Next has returned true.
func (it *Iterator[K, V]) Value() V { return it.val }

// advance walks the stack until it lands on the next leaf entry, in
// ascending slot order at every level — the same order bitmapNode and
// arrayNode's eachEntry visit children in.
func (it *Iterator[K, V]) advance() bool {
	for len(it.stack) > 0 {
		top := len(it.stack) - 1
		f := &it.stack[top]

		switch n := f.node.(type) {
		case *leafNode[K, V]:
			it.stack = it.stack[:top]
			it.key, it.val, it.ok = n.key, n.val, true
			return true

		case *collisionNode[K, V]:
			if f.next >= len(n.entries) {
				it.stack = it.stack[:top]
				continue
			}
			e := n.entries[f.next]
			f.next++
			it.key, it.val, it.ok = e.key, e.val, true
			return true

		case *bitmapNode[K, V]:
			if f.next >= len(n.children) {
				it.stack = it.stack[:top]
				continue
			}
			child := n.children[f.next]
			f.next++
			it.stack = append(it.stack, frame[K, V]{node: child})

		case *arrayNode[K, V]:
			advanced := false
			for f.next < len(n.children) {
				child := n.children[f.next]
				f.next++
				if child != nil {
					it.stack = append(it.stack, frame[K, V]{node: child})
					advanced = true
					break
				}
			}
			if !advanced && f.next >= len(n.children) {
				it.stack = it.stack[:top]
			}
		}
	}
	it.ok = false
	return false
}
