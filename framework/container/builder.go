package container

// ScopeBuilder collects everything that goes into one scope and applies it in
// a single Commit.
//
//	usecase, err := dir.Build("usecase").
//	    Links("network").
//	    With(func(r container.Resolver) []container.Descriptor {
//	        return []container.Descriptor{
//	            container.Value(NewUseCase(container.MustGet[NetworkService](r))),
//	        }
//	    }).
//	    Commit()
type ScopeBuilder struct {
	dir      *Directory
	name     string
	replace  bool
	children []string
	descs    []Descriptor
	deferred []func(Resolver) []Descriptor
}

// Build starts a builder for the scope called name.
func (d *Directory) Build(name string) *ScopeBuilder {
	return &ScopeBuilder{dir: d, name: name}
}

// Links adds child scopes, kept in call order.
func (b *ScopeBuilder) Links(names ...string) *ScopeBuilder {
	b.children = append(b.children, names...)
	return b
}

// Add queues descriptors.
func (b *ScopeBuilder) Add(descs ...Descriptor) *ScopeBuilder {
	b.descs = append(b.descs, descs...)
	return b
}

// With queues a resolver callback. Callbacks run after the plain descriptors
// are registered and the links are in place, in the order they were added.
// The scope is not published yet while they run, so they resolve through the
// registry being built and its children only.
func (b *ScopeBuilder) With(fn func(Resolver) []Descriptor) *ScopeBuilder {
	b.deferred = append(b.deferred, fn)
	return b
}

// Replacing makes Commit discard an existing scope instead of extending it.
func (b *ScopeBuilder) Replacing() *ScopeBuilder {
	b.replace = true
	return b
}

// Commit builds the scope and publishes it. Nothing is published when a
// descriptor or callback result is invalid.
func (b *ScopeBuilder) Commit() (*Registry, error) {
	extend := !b.replace

	r, err := b.dir.prepare(b.name, extend, b.descs)
	if err != nil {
		return nil, err
	}

	r.Link(b.children...)

	for _, fn := range b.deferred {
		if err := r.AddWithResolver(fn); err != nil {
			return nil, err
		}
	}

	b.dir.publish(r, extend, len(b.descs))
	return r, nil
}
