package phamt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMixHashFoldsFullWidth(t *testing.T) {
	r := require.New(t)
	r.Equal(uint32(0), mixHash(0))
	r.Equal(uint32(1), mixHash(1))
	r.Equal(uint32(0), mixHash(uint64(1)<<32|1), "upper and lower halves of this hashcode must cancel under XOR")
}

func TestSlotAndBitFor(t *testing.T) {
	r := require.New(t)
	h := uint32(0b10101_00001)
	r.Equal(uint32(0b00001), slot(h, 0))
	r.Equal(uint32(0b10101), slot(h, 5))
	r.Equal(uint32(1)<<1, bitFor(h, 0))
}

func TestDenseIndex(t *testing.T) {
	r := require.New(t)
	bitmap := uint32(0b10110)
	r.Equal(0, denseIndex(bitmap, 1<<1))
	r.Equal(1, denseIndex(bitmap, 1<<2))
	r.Equal(2, denseIndex(bitmap, 1<<4))
}

func TestLeafAssociateOverwriteIdentical(t *testing.T) {
	r := require.New(t)
	l := newLeaf[StringKey, int](mixHash(StringKey("a").HashCode()), "a", 1)
	n, added := l.associate(0, l.hash, "a", 1, noOwner)
	r.False(added)
	r.Same(l, n)
}

func TestLeafAssociateSplitsOnDifferentHash(t *testing.T) {
	r := require.New(t)
	l := newLeaf[IntKey, int](0b00001, 1, 10)
	n, added := l.associate(0, 0b00010, 2, 20, noOwner)
	r.True(added)
	bn, ok := n.(*bitmapNode[IntKey, int])
	r.True(ok)
	r.Equal(2, bn.occupied())
}

func TestLeafAssociateCollidesOnEqualHash(t *testing.T) {
	r := require.New(t)
	l := newLeaf[IntKey, int](0b00001, 1, 10)
	n, added := l.associate(0, 0b00001, 2, 20, noOwner)
	r.True(added)
	_, ok := n.(*collisionNode[IntKey, int])
	r.True(ok)
}

func TestCollisionNodeWrapsOnHashMismatch(t *testing.T) {
	r := require.New(t)
	c := newCollision[IntKey, int](0b00001, []kv[IntKey, int]{{1, 10}, {2, 20}})
	n, added := c.associate(0, 0b00010, 3, 30, noOwner)
	r.True(added)
	bn, ok := n.(*bitmapNode[IntKey, int])
	r.True(ok)
	r.Equal(2, bn.occupied())
}

func TestCollisionNodeWithoutDemotesToLeaf(t *testing.T) {
	r := require.New(t)
	c := newCollision[IntKey, int](0b00001, []kv[IntKey, int]{{1, 10}, {2, 20}})
	n, removed := c.without(0, 0b00001, 1, noOwner)
	r.True(removed)
	leaf, ok := n.(*leafNode[IntKey, int])
	r.True(ok)
	r.Equal(IntKey(2), leaf.key)
}

func TestBitmapPromotesToArrayAtThreshold(t *testing.T) {
	r := require.New(t)
	SetDensityThresholds(4, 2)
	defer SetDensityThresholds(16, 8)

	var n trieNode[IntKey, int] = emptyBitmapNode[IntKey, int]()
	for i := 0; i < 4; i++ {
		var added bool
		n, added = n.associate(0, uint32(1)<<uint(i), IntKey(i), i, noOwner)
		r.True(added)
	}
	_, ok := n.(*arrayNode[IntKey, int])
	r.True(ok, "occupancy at the promote threshold must yield an arrayNode")
}

func TestArrayDemotesToBitmapBelowThreshold(t *testing.T) {
	r := require.New(t)
	SetDensityThresholds(4, 4)
	defer SetDensityThresholds(16, 8)

	var n trieNode[IntKey, int] = emptyBitmapNode[IntKey, int]()
	for i := 0; i < 4; i++ {
		n, _ = n.associate(0, uint32(1)<<uint(i), IntKey(i), i, noOwner)
	}
	_, ok := n.(*arrayNode[IntKey, int])
	r.True(ok)

	n, removed := n.without(0, uint32(1)<<0, IntKey(0), noOwner)
	r.True(removed)
	_, ok = n.(*bitmapNode[IntKey, int])
	r.True(ok, "dropping below the demote threshold must yield a bitmapNode")
}

func TestMutationOwnershipReusesNodeInPlace(t *testing.T) {
	r := require.New(t)
	own := newOwnerToken()
	bn := emptyBitmapNode[IntKey, int]()
	n1, _ := bn.associate(0, 1, IntKey(1), 10, own)
	n2, _ := n1.associate(0, 1, IntKey(1), 20, own)
	r.Same(n1, n2, "same owner token must mutate the already-owned node in place")
}

func TestPersistentAssociateNeverMutatesInPlace(t *testing.T) {
	r := require.New(t)
	bn := emptyBitmapNode[IntKey, int]()
	n1, _ := bn.associate(0, 1, IntKey(1), 10, noOwner)
	n2, _ := n1.associate(0, 1, IntKey(1), 20, noOwner)
	r.NotSame(n1, n2, "persistent associate (noOwner) must never mutate an existing node")
}
