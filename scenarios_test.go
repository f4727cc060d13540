package phamt_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	phamt "github.com/gopherkit/phamt"
)

// panickyKey panics from HashCode once armed, exercising the
// safeCall panic-to-error boundary.
type panickyKey struct {
	val   string
	panic bool
}

func (k panickyKey) Equal(other panickyKey) bool { return k.val == other.val }

func (k panickyKey) HashCode() uint64 {
	if k.panic {
		panic("boom")
	}
	return phamt.StringKey(k.val).HashCode()
}

func TestUserCallbackPanicOnGetIsRecoveredAsNotFound(t *testing.T) {
	r := require.New(t)
	m := phamt.Empty[panickyKey, int]().Set(panickyKey{val: "a"}, 1)

	before := m.Len()

	_, ok := m.Get(panickyKey{val: "a", panic: true})
	r.False(ok, "a panicking lookup must surface as not-found, not propagate the panic")

	r.Equal(before, m.Len(), "the receiver map is untouched by a callback panic (hash-failure atomicity)")
}

func TestMutationCallbackPanicSurfacesAsError(t *testing.T) {
	r := require.New(t)
	mm := phamt.Empty[panickyKey, int]().Mutate()

	err := mm.Set(panickyKey{val: "a", panic: true}, 1)
	r.Error(err)
	r.ErrorIs(err, phamt.ErrUserCallbackFailure)
}

func TestSetThenDeleteIsInverse(t *testing.T) {
	r := require.New(t)
	m := phamt.Empty[phamt.StringKey, int]().Set("a", 1).Set("b", 2)

	m2, err := m.Set("c", 3).Delete("c")
	r.NoError(err)

	eq, err := m.Equal(m2)
	r.NoError(err)
	r.True(eq)
}

func TestRepeatedSetIsIdempotent(t *testing.T) {
	r := require.New(t)
	m := phamt.Empty[phamt.StringKey, int]()
	for i := 0; i < 10; i++ {
		m = m.Set("k", 7)
	}
	r.Equal(1, m.Len())
	v, ok := m.Get("k")
	r.True(ok)
	r.Equal(7, v)
}

func TestLargeScaleInsertDeleteConvergesToEmpty(t *testing.T) {
	r := require.New(t)
	m := phamt.Empty[phamt.IntKey, int]()
	const n = 2000

	for i := 0; i < n; i++ {
		m = m.Set(phamt.IntKey(i), i)
	}
	for i := 0; i < n; i++ {
		var err error
		m, err = m.Delete(phamt.IntKey(i))
		r.NoError(err)
	}
	r.Equal(0, m.Len())

	empty := phamt.Empty[phamt.IntKey, int]()
	eq, err := m.Equal(empty)
	r.NoError(err)
	r.True(eq)
}

func TestSharingAcrossVersionsPreservesUnrelatedBranches(t *testing.T) {
	r := require.New(t)
	base := phamt.Empty[phamt.IntKey, int]()
	for i := 0; i < 200; i++ {
		base = base.Set(phamt.IntKey(i), i)
	}

	branchA := base.Set(phamt.IntKey(9999), -1)
	branchB, err := base.Delete(phamt.IntKey(0))
	r.NoError(err)

	for i := 1; i < 200; i++ {
		va, ok := branchA.Get(phamt.IntKey(i))
		r.True(ok)
		vb, ok := branchB.Get(phamt.IntKey(i))
		r.True(ok)
		r.Equal(va, vb)
	}

	_, ok := branchA.Get(phamt.IntKey(9999))
	r.True(ok)
	_, ok = branchB.Get(phamt.IntKey(9999))
	r.False(ok)

	_, ok = branchB.Get(phamt.IntKey(0))
	r.False(ok)
	_, ok = branchA.Get(phamt.IntKey(0))
	r.True(ok)
}

func TestFromMapConvenienceConstructor(t *testing.T) {
	r := require.New(t)
	src := map[string]int{"a": 1, "b": 2, "c": 3}

	m, err := phamt.FromMap(src, func(s string) uint64 { return phamt.StringKey(s).HashCode() })
	r.NoError(err)
	r.Equal(3, m.Len())
	v, ok := m.Get(phamt.NewHashedKey("b", phamt.StringKey("b").HashCode()))
	r.True(ok)
	r.Equal(2, v)
}
