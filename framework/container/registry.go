package container

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ── Registry ──────────────────────────────────────────────────────────────────

// Registry is one named scope: the instances and lazy factories registered in
// it, plus the ordered names of the child scopes it falls back to.
//
// Registries are created through a Directory (Declare / Replace) and resolve
// child names through that same Directory.
//
// Lookup order for a key:
//  1. materialized instances
//  2. pending factories (run once, then memoized into instances)
//  3. child scopes, in link order, first match wins
type Registry struct {
	mu sync.RWMutex

	name string
	id   uuid.UUID
	dir  *Directory

	// key → materialized value
	instances map[string]any

	// key → pending producer; kept after materialization, instances win.
	// Producers are shared with registries this one was copied from or into.
	factories map[string]*lazyValue

	// key → declared type, for snapshots
	types map[string]string

	// child scope names in link order
	children []string

	flight singleflight.Group
}

func newRegistry(dir *Directory, name string) *Registry {
	return &Registry{
		name:      name,
		id:        uuid.New(),
		dir:       dir,
		instances: make(map[string]any),
		factories: make(map[string]*lazyValue),
		types:     make(map[string]string),
	}
}

// adopt copies another registry's entries and links into r. Used when a scope
// is declared again under the same name.
func (r *Registry) adopt(prev *Registry) {
	prev.mu.RLock()
	defer prev.mu.RUnlock()

	for k, v := range prev.instances {
		r.instances[k] = v
	}
	for k, f := range prev.factories {
		r.factories[k] = f
	}
	for k, t := range prev.types {
		r.types[k] = t
	}
	r.children = append(r.children, prev.children...)
}

// Name returns the scope name the registry was declared under.
func (r *Registry) Name() string { return r.name }

// ID identifies this registry object. Re-declaring a scope publishes a new
// registry with a new ID; handles to the old one keep working on the old ID.
func (r *Registry) ID() string { return r.id.String() }

// ── Registration ──────────────────────────────────────────────────────────────

// Register applies descriptors in order. Nothing is applied if any of them is
// invalid. A key registered twice keeps the last registration.
//
//	err := reg.Register(
//	    container.As[NetworkService](&Networker{}),
//	    container.Named[NetworkService]("NetworkerSecond", &NetworkerSecond{}),
//	)
func (r *Registry) Register(descs ...Descriptor) error {
	for _, d := range descs {
		if reason := d.validate(); reason != "" {
			return errInvalidDescriptor(r.name, d, reason)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range descs {
		r.apply(d)
	}
	return nil
}

// apply stores one descriptor (must hold mu.Lock).
func (r *Registry) apply(d Descriptor) {
	_, hadInstance := r.instances[d.key]
	_, hadFactory := r.factories[d.key]
	if hadInstance || hadFactory {
		r.logger().Debug("registration overwritten",
			zap.String("scope", r.name),
			zap.String("key", d.key),
			zap.Stringer("kind", d.kind),
		)
	}

	if d.Lazy() {
		delete(r.instances, d.key)
		r.factories[d.key] = d.factory
	} else {
		delete(r.factories, d.key)
		r.instances[d.key] = d.instance
	}
	r.types[d.key] = d.typeName
}

// AddWithResolver hands the registry to fn as a Resolver and registers what fn
// returns. Lookups made inside fn run now, not lazily.
//
//	reg.AddWithResolver(func(res container.Resolver) []container.Descriptor {
//	    return []container.Descriptor{
//	        container.Value(NewUseCase(container.MustGet[NetworkService](res))),
//	    }
//	})
func (r *Registry) AddWithResolver(fn func(Resolver) []Descriptor) error {
	return r.Register(fn(r)...)
}

// Link appends child scopes to fall back to. Duplicates and self links are
// ignored. Returns r for chaining.
//
//	dir.MustDeclare("usecase").Link("network")
func (r *Registry) Link(names ...string) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		if name == "" || name == r.name || r.linked(name) {
			continue
		}
		r.children = append(r.children, name)
		r.logger().Debug("scope linked", zap.String("scope", r.name), zap.String("child", name))
	}
	return r
}

func (r *Registry) linked(name string) bool {
	for _, c := range r.children {
		if c == name {
			return true
		}
	}
	return false
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Lookup implements Resolver.
func (r *Registry) Lookup(q Query) (any, error) {
	v, err := r.lookup(q, make(map[string]bool))

	outcome := OutcomeHit
	switch {
	case IsTypeMismatch(err):
		outcome = OutcomeMismatch
	case IsCircular(err):
		outcome = OutcomeCircular
	case err != nil:
		outcome = OutcomeMiss
	}
	r.metrics().observeResolution(r.name, outcome)

	return v, err
}

func (r *Registry) lookup(q Query, visited map[string]bool) (any, error) {
	visited[r.name] = true

	v, err := r.local(q)
	if err == nil {
		return v, nil
	}
	if IsCircular(err) {
		return nil, err
	}

	var mismatch error
	if IsTypeMismatch(err) {
		if r.strict() {
			return nil, err
		}
		mismatch = err
	}

	for _, name := range r.Children() {
		if visited[name] {
			continue
		}
		child, ok := r.dir.Get(name)
		if !ok {
			r.logger().Debug("linked scope not declared", zap.String("scope", r.name), zap.String("child", name))
			continue
		}

		v, err := child.lookup(q, visited)
		if err == nil {
			return v, nil
		}
		if IsCircular(err) {
			return nil, err
		}
		if IsTypeMismatch(err) {
			if r.strict() {
				return nil, err
			}
			if mismatch == nil {
				mismatch = err
			}
		}
	}

	if mismatch != nil {
		return nil, mismatch
	}
	return nil, errNotFound(r.name, q.Key)
}

// local answers from this registry only.
func (r *Registry) local(q Query) (any, error) {
	r.mu.RLock()
	v, ok := r.instances[q.Key]
	f, lazy := r.factories[q.Key]
	r.mu.RUnlock()

	switch {
	case ok:
	case lazy:
		var err error
		if v, err = r.materialize(q.Key, f); err != nil {
			return nil, err
		}
	default:
		return nil, errNotFound(r.name, q.Key)
	}

	if !assignable(v, q.Type) {
		return nil, errTypeMismatch(r.name, q.Key, q.typeName(), v)
	}
	return v, nil
}

// materialize runs a factory at most once per key, even when several
// goroutines ask for the key at the same time, and memoizes the result.
// A factory that resolves its own key gets ErrCodeCircular instead of
// waiting on itself.
func (r *Registry) materialize(key string, f *lazyValue) (any, error) {
	if f.building() {
		return nil, errCircular(r.name, key)
	}

	v, _, _ := r.flight.Do(key, func() (any, error) {
		r.mu.RLock()
		v, done := r.instances[key]
		r.mu.RUnlock()
		if done {
			return v, nil
		}

		v, ran := f.get()

		r.mu.Lock()
		r.instances[key] = v
		r.mu.Unlock()

		if ran {
			r.metrics().observeFactory(r.name)
			r.logger().Debug("factory materialized",
				zap.String("scope", r.name),
				zap.String("key", key),
				zap.String("type", TypeKeyOf(v)),
			)
		}
		return v, nil
	})
	return v, nil
}

// ── Introspection ─────────────────────────────────────────────────────────────

// Has reports whether key is registered in this scope (children excluded).
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, hasInstance := r.instances[key]
	_, hasFactory := r.factories[key]
	return hasInstance || hasFactory
}

// Materialized reports whether a lazy key has already produced its value.
func (r *Registry) Materialized(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, hasFactory := r.factories[key]
	_, hasInstance := r.instances[key]
	return hasFactory && hasInstance
}

// Keys returns the registered keys, sorted.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.types))
	for k := range r.types {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Children returns a copy of the linked child scope names in link order.
func (r *Registry) Children() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.children...)
}

// Entry describes one key of a Snapshot.
type Entry struct {
	Key          string `json:"key" yaml:"key"`
	Type         string `json:"type" yaml:"type"`
	Concrete     string `json:"concrete,omitempty" yaml:"concrete,omitempty"`
	Lazy         bool   `json:"lazy" yaml:"lazy"`
	Materialized bool   `json:"materialized" yaml:"materialized"`
}

// Snapshot is a point-in-time view of a registry for diagnostics.
type Snapshot struct {
	Name     string   `json:"name" yaml:"name"`
	ID       string   `json:"id" yaml:"id"`
	Children []string `json:"children" yaml:"children"`
	Entries  []Entry  `json:"entries" yaml:"entries"`
}

// Snapshot captures the registry without materializing anything.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Snapshot{
		Name:     r.name,
		ID:       r.id.String(),
		Children: append([]string{}, r.children...),
		Entries:  make([]Entry, 0, len(r.types)),
	}
	for key, typ := range r.types {
		_, lazy := r.factories[key]
		v, materialized := r.instances[key]
		concrete := ""
		if materialized {
			concrete = TypeKeyOf(v)
		}
		s.Entries = append(s.Entries, Entry{
			Key:          key,
			Type:         typ,
			Concrete:     concrete,
			Lazy:         lazy,
			Materialized: materialized,
		})
	}
	sort.Slice(s.Entries, func(i, j int) bool { return s.Entries[i].Key < s.Entries[j].Key })
	return s
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (r *Registry) logger() *zap.Logger {
	return r.dir.cfg.logger
}

func (r *Registry) strict() bool {
	return r.dir.cfg.strict
}

func (r *Registry) metrics() *Metrics {
	return r.dir.cfg.metrics
}

// Reachable reports which scope would answer key, walking children in link
// order like Lookup does but without running any factory or checking types.
func (r *Registry) Reachable(key string) (string, bool) {
	return r.reachable(key, make(map[string]bool))
}

func (r *Registry) reachable(key string, visited map[string]bool) (string, bool) {
	visited[r.name] = true
	if r.Has(key) {
		return r.name, true
	}
	for _, name := range r.Children() {
		if visited[name] {
			continue
		}
		if child, ok := r.dir.Get(name); ok {
			if scope, ok := child.reachable(key, visited); ok {
				return scope, true
			}
		}
	}
	return "", false
}
