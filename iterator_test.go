package phamt_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	phamt "github.com/gopherkit/phamt"
)

func TestIteratorVisitsAllEntriesExactlyOnce(t *testing.T) {
	r := require.New(t)
	m := phamt.Empty[phamt.IntKey, int]()
	for i := 0; i < 300; i++ {
		m = m.Set(phamt.IntKey(i), i*2)
	}

	seen := map[int]int{}
	it := m.Iter()
	for it.Next() {
		seen[int(it.Key())] = it.Value()
	}
	r.Len(seen, 300)
	for i := 0; i < 300; i++ {
		r.Equal(i*2, seen[i])
	}
}

func TestIteratorOnEmptyMap(t *testing.T) {
	r := require.New(t)
	m := phamt.Empty[phamt.StringKey, int]()
	it := m.Iter()
	r.False(it.Next())
}

func TestIteratorSnapshotStability(t *testing.T) {
	r := require.New(t)
	m := phamt.Empty[phamt.StringKey, int]().Set("a", 1).Set("b", 2)
	it := m.Iter()

	_ = m.Set("c", 3)
	_, _ = m.Delete("a")

	count := 0
	for it.Next() {
		count++
	}
	r.Equal(2, count, "a live Map's later edits must not perturb an in-flight Iterator")
}

func TestIteratorOverCollisions(t *testing.T) {
	r := require.New(t)
	m := phamt.Empty[constHashKey, int]().
		Set("a", 1).Set("b", 2).Set("c", 3).Set("d", 4)

	count := 0
	it := m.Iter()
	for it.Next() {
		count++
	}
	r.Equal(4, count)
}
