package container

// ── Descriptor kinds ──────────────────────────────────────────────────────────

// Kind tells which registration shape a Descriptor carries.
type Kind int

const (
	KindDirect Kind = iota
	KindAsInterface
	KindIdentified
	KindLazyDirect
	KindLazyAsInterface
	KindLazyIdentified
)

func (k Kind) String() string {
	switch k {
	case KindDirect:
		return "direct"
	case KindAsInterface:
		return "as-interface"
	case KindIdentified:
		return "identified"
	case KindLazyDirect:
		return "lazy-direct"
	case KindLazyAsInterface:
		return "lazy-as-interface"
	case KindLazyIdentified:
		return "lazy-identified"
	default:
		return "unknown"
	}
}

// Lazy reports whether the kind stores a factory rather than an instance.
func (k Kind) Lazy() bool {
	return k >= KindLazyDirect
}

// ── Descriptor ────────────────────────────────────────────────────────────────

// Descriptor describes one registration. It is inert: a Registry reads it once
// while applying it and keeps nothing but the key and the payload.
//
// Descriptors can only be built through the constructors in this file, so a
// lazy factory can never end up in an eager slot or the other way round.
//
// A lazy descriptor owns its factory's result: registering the same
// descriptor in several scopes, or re-declaring the scope that holds it,
// still runs the factory once.
type Descriptor struct {
	kind     Kind
	key      string
	typeName string
	instance any
	factory  *lazyValue
}

// Kind returns the registration shape.
func (d Descriptor) Kind() Kind { return d.kind }

// Key returns the lookup key the descriptor will be stored under.
func (d Descriptor) Key() string { return d.key }

// TypeName returns the declared type the registration is meant to satisfy.
func (d Descriptor) TypeName() string { return d.typeName }

// Lazy reports whether the descriptor carries a factory.
func (d Descriptor) Lazy() bool { return d.kind.Lazy() }

// ── Eager constructors ────────────────────────────────────────────────────────

// Instance registers v under its dynamic type.
//
//	container.Instance(&Networker{})   // key "*…/network.Networker"
func Instance(v any) Descriptor {
	key := TypeKeyOf(v)
	return Descriptor{kind: KindDirect, key: key, typeName: key, instance: v}
}

// Value registers v under its static type T. Unlike Instance, passing an
// interface-typed variable keeps the interface as the key.
func Value[T any](v T) Descriptor {
	key := TypeKey[T]()
	return Descriptor{kind: KindDirect, key: key, typeName: key, instance: v}
}

// As registers v under the interface (or any other type) I.
//
//	container.As[NetworkService](&Networker{})
func As[I any](v I) Descriptor {
	key := TypeKey[I]()
	return Descriptor{kind: KindAsInterface, key: key, typeName: key, instance: v}
}

// Named registers v under the identifier id. I documents the intended type and
// is what Get/GetNamed callers are expected to ask for.
//
//	container.Named[NetworkService]("NetworkerSecond", &NetworkerSecond{})
func Named[I any](id string, v I) Descriptor {
	return Descriptor{kind: KindIdentified, key: id, typeName: TypeKey[I](), instance: v}
}

// NamedInstance registers v under id without naming an interface.
func NamedInstance(id string, v any) Descriptor {
	return Descriptor{kind: KindIdentified, key: id, typeName: TypeKeyOf(v), instance: v}
}

// ── Lazy constructors ─────────────────────────────────────────────────────────

// Lazy registers a factory under T. The factory runs on first resolution only.
//
//	container.Lazy(func() *Cache { return newCache() })
func Lazy[T any](f func() T) Descriptor {
	key := TypeKey[T]()
	return Descriptor{kind: KindLazyDirect, key: key, typeName: key, factory: erase(f)}
}

// LazyAs registers a factory under the interface I.
//
//	container.LazyAs[NetworkService](func() NetworkService { return &Networker{} })
func LazyAs[I any](f func() I) Descriptor {
	key := TypeKey[I]()
	return Descriptor{kind: KindLazyAsInterface, key: key, typeName: key, factory: erase(f)}
}

// LazyNamed registers a factory under the identifier id.
func LazyNamed[I any](id string, f func() I) Descriptor {
	return Descriptor{kind: KindLazyIdentified, key: id, typeName: TypeKey[I](), factory: erase(f)}
}

func erase[T any](f func() T) *lazyValue {
	if f == nil {
		return nil
	}
	return newLazyValue(func() any { return f() })
}

// validate reports why a descriptor cannot be applied, or "" when it can.
func (d Descriptor) validate() string {
	switch {
	case d.key == "":
		return "empty lookup key"
	case d.kind.Lazy() && d.factory == nil:
		return "nil factory"
	case !d.kind.Lazy() && d.instance == nil:
		return "nil instance"
	}
	return ""
}
