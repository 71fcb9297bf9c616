// Package anyval provides a type-erased container for a single value,
// built to carry a task's result across a goroutine boundary. A Value is
// stored once at construction and never mutated afterwards, so it can be
// handed between goroutines without synchronization. Extraction performs
// a runtime type check; asking for the wrong type is a caller bug and is
// reported as an error, never as a silent coercion.
package anyval

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrEmpty is returned when reading a Value that holds nothing.
	ErrEmpty = errors.New("anyval: empty value")

	// ErrTypeMismatch is returned when a Value is extracted as a type
	// other than the one it was stored with.
	ErrTypeMismatch = errors.New("anyval: type mismatch")
)

// Value is a single-slot, type-erased container. The zero Value is empty.
type Value struct {
	v   any
	set bool
}

// New wraps v in a populated Value. Storing a nil interface still counts
// as populated; use the zero Value to mean "no result".
func New(v any) Value {
	return Value{v: v, set: true}
}

// HasValue reports whether the Value holds anything.
func (v Value) HasValue() bool {
	return v.set
}

// Any returns the stored value without a type check, or ErrEmpty if the
// Value is empty.
func (v Value) Any() (any, error) {
	if !v.set {
		return nil, ErrEmpty
	}
	return v.v, nil
}

// As extracts the stored value as type T.
//
// Returns:
//   - ErrEmpty if the Value holds nothing
//   - ErrTypeMismatch (wrapped with both type names) if the stored value
//     is not a T
//
// Example:
//
//	v := anyval.New(42)
//	n, err := anyval.As[int](v)   // 42, nil
//	s, err := anyval.As[string](v) // "", ErrTypeMismatch
func As[T any](v Value) (T, error) {
	var zero T
	if !v.set {
		return zero, ErrEmpty
	}
	t, ok := v.v.(T)
	if !ok {
		// reflect names the requested type even when T is an interface,
		// where %T on the zero value would print <nil>.
		want := reflect.TypeOf((*T)(nil)).Elem()
		return zero, fmt.Errorf("%w: stored %T, requested %v", ErrTypeMismatch, v.v, want)
	}
	return t, nil
}

// MustAs extracts the stored value as type T and panics if the Value is
// empty or holds a different type. Intended for tests and examples where
// the stored type is known in advance.
func MustAs[T any](v Value) T {
	t, err := As[T](v)
	if err != nil {
		panic(err)
	}
	return t
}
