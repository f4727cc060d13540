package phamt

import (
	"fmt"

	"github.com/pkg/errors"
)

// NotFoundError is returned by Delete/MustGet/Pop when the requested key is
// absent, carrying the offending key so the caller can recover.
type NotFoundError[K any] struct {
	Key K
}

func (e *NotFoundError[K]) Error() string {
	return fmt.Sprintf("phamt: key not found: %v", e.Key)
}

var (
	// ErrTypeMismatch covers a non-Map value compared against a Map, a
	// non-iterable value passed to Update, or a transient passed where a
	// persistent Map constructor expects a value.
	ErrTypeMismatch = errors.New("phamt: type mismatch")

	// ErrUseAfterFinish is raised by any mutating call on a Mutation after
	// Finish has already been called on it.
	ErrUseAfterFinish = errors.New("phamt: use of Mutation after Finish")

	// ErrUnhashable is raised when code attempts to hash a Mutation —
	// transients intentionally have no structural hash.
	ErrUnhashable = errors.New("phamt: Mutation is not hashable")

	// ErrNotIterable is raised when code attempts to iterate a Mutation —
	// transients intentionally cannot be iterated.
	ErrNotIterable = errors.New("phamt: Mutation is not iterable")

	// ErrUpdateElementShape is raised when an Update source yields a pair
	// element of length other than 2.
	ErrUpdateElementShape = errors.New("phamt: update element is not a length-2 pair")

	// ErrUserCallbackFailure wraps a recovered panic from a user-supplied
	// Key[K].Equal or Key[K].HashCode implementation.
	ErrUserCallbackFailure = errors.New("phamt: user-supplied Equal/HashCode failed")
)

// safeCall runs fn and converts any panic raised by a user-supplied
// Key[K].Equal/HashCode implementation into an ErrUserCallbackFailure,
// preserving the panic value for diagnosis. Because the panic is recovered
// before fn's result is ever returned to the caller, any partially built
// nodes it constructed along the way are simply discarded with it — the
// receiver Map is left untouched.
func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrUserCallbackFailure, "%v", r)
		}
	}()
	return fn()
}
