package phamt

import (
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// uncomputedHash is the sentinel cache value meaning "not yet computed".
// -1 is reserved; any Map that would otherwise compute exactly -1 is
// remapped to 590923713.
const uncomputedHash int64 = -1
const reservedHashReplacement int64 = 590923713

// Hashable64 is an optional capability a value type may implement to give
// StructuralHash a meaningful, cheap hashcode. Values that don't implement
// it fall back to a reflection-based hash — see DESIGN.md for why Go's
// "arbitrary V" needs this fallback where a dynamically-typed value would
// just be natively hashable.
type Hashable64 interface {
	HashCode() uint64
}

func hashValue[V any](v V) uint64 {
	if hv, ok := any(v).(Hashable64); ok {
		return hv.HashCode()
	}
	return xxhash.Sum64String(fmt.Sprintf("%#v", v))
}

func valuesEqual[V any](a, b V) bool {
	return reflect.DeepEqual(a, b)
}

// structuralHash computes a fixed 64-bit mix: a commutative
// (order-independent) combination of every (hash(k), hash(v)) pair, folded
// together with the entry count.
func structuralHash[K Key[K], V any](count int, root trieNode[K, V]) int64 {
	h := uint64(1927868237) * (uint64(count)*2 + 1)

	root.eachEntry(func(k K, v V) bool {
		for _, part := range [2]uint64{k.HashCode(), hashValue(v)} {
			h ^= (part ^ (part << 16) ^ 89869747) * 3644798167
		}
		return true
	})

	h = h*69069 + 907133923

	signed := int64(h)
	if signed == uncomputedHash {
		return reservedHashReplacement
	}
	return signed
}
