package phamt

// Mutation is a transient, owner-scoped editor over a Map's contents.
// It amortizes a batch of edits by mutating freshly-owned
// nodes in place, and yields a new persistent Map via Finish. A Mutation
// must not be shared across goroutines and must not be used after Finish.
type Mutation[K Key[K], V any] struct {
	root     trieNode[K, V]
	count    int
	own      ownerToken
	finished bool
}

// Len returns the number of live entries currently held by the mutation.
func (mm *Mutation[K, V]) Len() int { return mm.count }

// forEach lets a live Mutation itself serve as an Update source, walking
// its current contents. It does not require Finish first.
func (mm *Mutation[K, V]) forEach(fn func(K, V) bool) {
	mm.root.eachEntry(fn)
}

// Get retrieves the value bound to key.
func (mm *Mutation[K, V]) Get(key K) (val V, found bool, err error) {
	if mm.finished {
		return val, false, ErrUseAfterFinish
	}
	err = safeCall(func() error {
		val, found = mm.root.find(0, mixHash(key.HashCode()), key)
		return nil
	})
	return val, found, err
}

// Contains reports whether key is bound in the mutation.
func (mm *Mutation[K, V]) Contains(key K) (bool, error) {
	_, found, err := mm.Get(key)
	return found, err
}

// Set binds key to val in place, reusing nodes already owned by this
// mutation and cloning-on-write any it does not yet own.
func (mm *Mutation[K, V]) Set(key K, val V) error {
	if mm.finished {
		return ErrUseAfterFinish
	}
	return safeCall(func() error {
		h := mixHash(key.HashCode())
		newRoot, added := mm.root.associate(0, h, key, val, mm.own)
		mm.root = newRoot
		if added {
			mm.count++
		}
		return nil
	})
}

// Delete removes key from the mutation in place. It returns a
// *NotFoundError if key is absent, matching Map.Delete's contract.
func (mm *Mutation[K, V]) Delete(key K) error {
	if mm.finished {
		return ErrUseAfterFinish
	}
	var result trieNode[K, V]
	var removed bool
	err := safeCall(func() error {
		h := mixHash(key.HashCode())
		result, removed = mm.root.without(0, h, key, mm.own)
		return nil
	})
	if err != nil {
		return err
	}
	if !removed {
		return &NotFoundError[K]{Key: key}
	}
	if result == nil {
		result = newBitmapNode[K, V](mm.own)
	}
	mm.root = result
	mm.count--
	return nil
}

// Pop removes key and returns its prior value, or a *NotFoundError if
// key is absent.
func (mm *Mutation[K, V]) Pop(key K) (V, error) {
	val, found, err := mm.Get(key)
	if err != nil {
		var zero V
		return zero, err
	}
	if !found {
		var zero V
		return zero, &NotFoundError[K]{Key: key}
	}
	if err := mm.Delete(key); err != nil {
		var zero V
		return zero, err
	}
	return val, nil
}

// Update applies every pair of source to the mutation in place, last
// write wins.
func (mm *Mutation[K, V]) Update(source Source[K, V]) (err error) {
	if mm.finished {
		return ErrUseAfterFinish
	}
	err = safeCall(func() error {
		var setErr error
		source.forEach(func(k K, v V) bool {
			if e := mm.Set(k, v); e != nil {
				setErr = e
				return false
			}
			return true
		})
		return setErr
	})
	return err
}

// StructuralHash always fails on a Mutation — transients are intentionally
// not hashable.
func (mm *Mutation[K, V]) StructuralHash() (int64, error) {
	return 0, ErrUnhashable
}

// Range always fails on a Mutation — transients are intentionally not
// iterable; iterate the Map produced by Finish instead.
func (mm *Mutation[K, V]) Range(func(K, V) bool) error {
	return ErrNotIterable
}

// Finish seals the mutation and returns the resulting persistent Map.
// The mutation must not be used again afterwards: the finished flag
// blocks further Set/Delete/Update calls, and the Map it returns will
// never again be associated with this mutation's owner token, so no
// later edit can land on a node this Map still shares structure with.
func (mm *Mutation[K, V]) Finish() Map[K, V] {
	if mm.finished {
		return Empty[K, V]()
	}
	mm.finished = true
	return newMap[K, V](mm.root, mm.count)
}
