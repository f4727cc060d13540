package phamt

import (
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// StringKey adapts a plain string into phamt's Key[StringKey] capability
// pair. Hashing is done with cespare/xxhash/v2, grounded on
// masslbs-network-schema/go/internal/hamt's use of the same package for
// byte-keyed hashing.
type StringKey string

func (s StringKey) Equal(other StringKey) bool { return s == other }
func (s StringKey) HashCode() uint64           { return xxhash.Sum64String(string(s)) }

// BytesKey adapts a byte slice into phamt's Key[BytesKey] capability pair.
// Two BytesKey values are equal iff their contents are byte-for-byte equal.
type BytesKey string // immutable copy of the original bytes

// NewBytesKey copies b into a BytesKey; the original slice may be reused or
// mutated afterwards without affecting the key.
func NewBytesKey(b []byte) BytesKey { return BytesKey(string(b)) }

func (b BytesKey) Equal(other BytesKey) bool { return b == other }
func (b BytesKey) HashCode() uint64          { return xxhash.Sum64String(string(b)) }

// IntKey adapts a signed integer into phamt's Key[IntKey] capability pair.
// Hashing mixes the integer through a process-lifetime maphash.Seed, the
// same seeded-mixing idiom wdamron-amt uses for its generic integer/byte
// keys (hash/maphash), rather than using the integer verbatim as its own
// hashcode — this avoids degenerate tries when keys are small sequential
// integers, a case exercised directly by small, dense sequential-key maps.
type IntKey int64

var intKeySeed = maphash.MakeSeed()

func (i IntKey) Equal(other IntKey) bool { return i == other }

func (i IntKey) HashCode() uint64 {
	var buf [8]byte
	v := uint64(i)
	for idx := range buf {
		buf[idx] = byte(v >> (8 * idx))
	}
	var h maphash.Hash
	h.SetSeed(intKeySeed)
	h.Write(buf[:])
	return h.Sum64()
}
