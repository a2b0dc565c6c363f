package container

import (
	"fmt"
	"reflect"
)

// Query is one lookup request: the key to look under and the type the caller
// needs. A nil Type accepts whatever is registered.
type Query struct {
	Key  string
	Type reflect.Type
}

// QueryFor builds the Query used by Get[T] and GetNamed[T]. An empty id means
// "look up by type".
func QueryFor[T any](id string) Query {
	key := id
	if key == "" {
		key = TypeKey[T]()
	}
	return Query{Key: key, Type: typeOf[T]()}
}

func (q Query) typeName() string {
	if q.Type == nil {
		return "any"
	}
	return typeKeyOf(q.Type)
}

// Resolver is the read-only side of a scope. Consumers depend on this, never
// on *Registry, so lookups stay separated from registration.
//
// Lookup returns an *Error with ErrCodeNotFound or ErrCodeTypeMismatch when
// nothing usable is reachable; neither is fatal.
type Resolver interface {
	Lookup(q Query) (any, error)
}

// ── Typed accessors ───────────────────────────────────────────────────────────

// Get resolves T by type. Absence and type mismatch both yield (zero, false).
//
//	svc, ok := container.Get[NetworkService](resolver)
func Get[T any](r Resolver) (T, bool) {
	v, err := Resolve[T](r)
	return v, err == nil
}

// GetNamed resolves T registered under id.
//
//	second, ok := container.GetNamed[NetworkService](resolver, "NetworkerSecond")
func GetNamed[T any](r Resolver, id string) (T, bool) {
	v, err := ResolveNamed[T](r, id)
	return v, err == nil
}

// Resolve is Get with the failure reason kept, so callers can tell a missing
// registration from one of the wrong type.
func Resolve[T any](r Resolver) (T, error) {
	return ResolveNamed[T](r, "")
}

// ResolveNamed is GetNamed with the failure reason kept.
func ResolveNamed[T any](r Resolver, id string) (T, error) {
	var zero T
	if r == nil {
		return zero, errNotFound("", QueryFor[T](id).Key)
	}

	q := QueryFor[T](id)
	v, err := r.Lookup(q)
	if err != nil {
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		return zero, errTypeMismatch("", q.Key, q.typeName(), v)
	}
	return typed, nil
}

// MustGet is like Get but panics when T cannot be resolved. Meant for setup
// code where a missing dependency is a programming error.
func MustGet[T any](r Resolver) T {
	v, err := Resolve[T](r)
	if err != nil {
		panic(fmt.Sprintf("container: MustGet[%s]: %v", TypeKey[T](), err))
	}
	return v
}

// MustGetNamed is like GetNamed but panics on failure.
func MustGetNamed[T any](r Resolver, id string) T {
	v, err := ResolveNamed[T](r, id)
	if err != nil {
		panic(fmt.Sprintf("container: MustGetNamed[%s](%q): %v", TypeKey[T](), id, err))
	}
	return v
}

// ── Optional ──────────────────────────────────────────────────────────────────

// Optional carries a dependency that may legitimately be absent.
type Optional[T any] struct {
	value   T
	present bool
}

func (o Optional[T]) Get() (T, bool) { return o.value, o.present }

func (o Optional[T]) Present() bool { return o.present }

// OrElse returns the value, or fallback when absent.
func (o Optional[T]) OrElse(fallback T) T {
	if o.present {
		return o.value
	}
	return fallback
}

func Some[T any](v T) Optional[T] { return Optional[T]{value: v, present: true} }

func None[T any]() Optional[T] { return Optional[T]{} }

// GetOptional resolves T as an Optional.
func GetOptional[T any](r Resolver) Optional[T] {
	if v, ok := Get[T](r); ok {
		return Some(v)
	}
	return None[T]()
}

// GetOptionalNamed resolves T under id as an Optional.
func GetOptionalNamed[T any](r Resolver, id string) Optional[T] {
	if v, ok := GetNamed[T](r, id); ok {
		return Some(v)
	}
	return None[T]()
}
