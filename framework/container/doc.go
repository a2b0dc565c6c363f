// Package container provides named dependency scopes with lazy factories and
// hierarchical fallback.
//
// # Overview
//
// A Directory holds scopes. Each scope is a Registry: instances and lazy
// factories keyed by type (or by an explicit identifier), plus an ordered list
// of child scopes it falls back to when a key is missing. Code that only needs
// to look things up depends on the Resolver interface.
//
// # Lifecycle
//
//  1. Create: dir := container.NewDirectory(container.WithLogger(logger))
//  2. Declare scopes and link them (startup, one goroutine)
//  3. Resolve from any goroutine
//
// # Registering
//
//	dir.Declare("network",
//	    container.As[NetworkService](&Networker{}),                        // by interface
//	    container.Named[NetworkService]("NetworkerSecond", &NetworkerSecond{}), // by identifier
//	    container.Instance(&Clock{}),                                      // by dynamic type
//	    container.Lazy(func() *Cache { return newCache() }),               // built on first use
//	)
//
// Declaring a name twice extends the scope: the new registry starts from the
// old one's entries. Use Replace to start over.
//
// # Linking
//
//	usecase := dir.MustDeclare("usecase").Link("network")
//
// Children are searched in link order and the first match wins. Link cycles
// are allowed; a scope is visited at most once per lookup.
//
// # Resolving
//
//	svc, ok := container.Get[NetworkService](usecase)
//	second, ok := container.GetNamed[NetworkService](usecase, "NetworkerSecond")
//
//	// keep the reason
//	svc, err := container.Resolve[NetworkService](usecase)
//	if container.IsTypeMismatch(err) { ... }
//
// Absence is not an error for Get: it returns false. A registration of the
// wrong type is skipped like an absent one unless the directory was built with
// WithStrictTypes.
//
// # Resolver callbacks
//
//	usecase.AddWithResolver(func(r container.Resolver) []container.Descriptor {
//	    return []container.Descriptor{
//	        container.Value(NewUseCase(container.MustGet[NetworkService](r))),
//	    }
//	})
//
// # Providers
//
//	type NetworkProvider struct{ container.BaseProvider }
//
//	func (p *NetworkProvider) Register(dir *container.Directory) error {
//	    _, err := dir.Declare("network", container.As[NetworkService](&Networker{}))
//	    return err
//	}
//
//	providers := container.NewProviderRegistry(dir)
//	providers.Register(&NetworkProvider{})
//	providers.Boot(root)
package container
