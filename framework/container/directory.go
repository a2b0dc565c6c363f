package container

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// ── Directory ─────────────────────────────────────────────────────────────────

// Directory maps scope names to their registries and remembers the root
// resolver. Applications normally build one at their composition root and pass
// it around; Default() exists for code that wants a process-wide one.
//
// Scopes are never removed. Declaring a name again publishes a new registry
// under it; earlier *Registry handles stay usable but are no longer reachable
// by name.
type Directory struct {
	mu     sync.RWMutex
	cfg    *directoryConfig
	scopes map[string]*Registry
	root   Resolver
}

// NewDirectory creates an empty directory.
func NewDirectory(opts ...Option) *Directory {
	cfg := defaultDirectoryConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Directory{
		cfg:    cfg,
		scopes: make(map[string]*Registry),
	}
}

var defaultDirectory = sync.OnceValue(func() *Directory { return NewDirectory() })

// Default returns the process-wide directory, creating it on first use.
func Default() *Directory {
	return defaultDirectory()
}

// ── Declaring scopes ──────────────────────────────────────────────────────────

// Declare extends the scope called name. When a registry is already published
// under that name, the new registry starts from a copy of its entries and
// links; descriptors are applied on top and the result replaces it.
//
//	network, err := dir.Declare("network",
//	    container.As[NetworkService](&Networker{}),
//	)
func (d *Directory) Declare(name string, descs ...Descriptor) (*Registry, error) {
	return d.declare(name, true, descs)
}

// Replace publishes a fresh registry under name, discarding whatever was there.
func (d *Directory) Replace(name string, descs ...Descriptor) (*Registry, error) {
	return d.declare(name, false, descs)
}

// MustDeclare is Declare for setup code that cannot continue on error.
func (d *Directory) MustDeclare(name string, descs ...Descriptor) *Registry {
	r, err := d.Declare(name, descs...)
	if err != nil {
		panic(err)
	}
	return r
}

func (d *Directory) declare(name string, extend bool, descs []Descriptor) (*Registry, error) {
	r, err := d.prepare(name, extend, descs)
	if err != nil {
		return nil, err
	}
	d.publish(r, extend, len(descs))
	return r, nil
}

// prepare builds the registry that would be published under name without
// publishing it.
func (d *Directory) prepare(name string, extend bool, descs []Descriptor) (*Registry, error) {
	r := newRegistry(d, name)

	if prev, ok := d.Get(name); extend && ok {
		r.adopt(prev)
	}

	if err := r.Register(descs...); err != nil {
		return nil, err
	}
	return r, nil
}

func (d *Directory) publish(r *Registry, extend bool, descs int) {
	_, existed := d.Get(r.name)
	d.Put(r.name, r)

	d.cfg.logger.Debug("scope declared",
		zap.String("scope", r.name),
		zap.String("id", r.ID()),
		zap.Bool("extended", extend && existed),
		zap.Int("descriptors", descs),
	)
}

// ── Storage ───────────────────────────────────────────────────────────────────

// Get returns the registry currently published under name.
func (d *Directory) Get(name string) (*Registry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.scopes[name]
	return r, ok
}

// Put publishes r under name, overwriting any previous entry.
func (d *Directory) Put(name string, r *Registry) {
	d.mu.Lock()
	d.scopes[name] = r
	n := len(d.scopes)
	d.mu.Unlock()

	d.cfg.metrics.setScopes(n)
}

// Scope returns the resolver for the scope called name.
func (d *Directory) Scope(name string) (Resolver, error) {
	r, ok := d.Get(name)
	if !ok {
		return nil, errScopeNotFound(name)
	}
	return r, nil
}

// Names returns the published scope names, sorted.
func (d *Directory) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]string, 0, len(d.scopes))
	for name := range d.scopes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Snapshots returns a snapshot of every published scope, sorted by name.
func (d *Directory) Snapshots() []Snapshot {
	names := d.Names()
	out := make([]Snapshot, 0, len(names))
	for _, name := range names {
		if r, ok := d.Get(name); ok {
			out = append(out, r.Snapshot())
		}
	}
	return out
}

// ── Root ──────────────────────────────────────────────────────────────────────

// Root returns the published root resolver, if any.
func (d *Directory) Root() (Resolver, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.root, d.root != nil
}

// SetRoot publishes r as the root resolver, replacing any previous one.
func (d *Directory) SetRoot(r Resolver) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.root = r
}

// Logger returns the logger the directory was configured with.
func (d *Directory) Logger() *zap.Logger {
	return d.cfg.logger
}
