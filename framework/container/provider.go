package container

import "fmt"

// ── Provider interface ────────────────────────────────────────────────────────

// Provider declares one or more scopes.
//
// Register runs first for every provider and should only declare scopes and
// link them. Boot runs once all providers are registered and receives the root
// resolver, so it can safely resolve anything.
//
//	type NetworkProvider struct{ container.BaseProvider }
//
//	func (p *NetworkProvider) Register(dir *container.Directory) error {
//	    _, err := dir.Declare("network",
//	        container.As[NetworkService](&Networker{}),
//	    )
//	    return err
//	}
type Provider interface {
	Register(dir *Directory) error
	Boot(root Resolver) error
}

// BaseProvider supplies a no-op Boot. Embed it and implement Register.
type BaseProvider struct{}

func (BaseProvider) Boot(Resolver) error { return nil }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry runs providers against one Directory: Register as they are
// added, Boot once for all of them.
type ProviderRegistry struct {
	dir        *Directory
	providers  []Provider
	registered map[Provider]bool
	booted     bool
	root       Resolver
}

// NewProviderRegistry creates a registry bound to dir.
func NewProviderRegistry(dir *Directory) *ProviderRegistry {
	return &ProviderRegistry{
		dir:        dir,
		registered: make(map[Provider]bool),
	}
}

// Register runs p.Register. Adding the same provider twice is a no-op. A
// provider added after Boot is booted immediately.
func (r *ProviderRegistry) Register(p Provider) error {
	if r.registered[p] {
		return nil
	}

	if err := p.Register(r.dir); err != nil {
		return SetupError(providerName(p), err)
	}
	r.registered[p] = true
	r.providers = append(r.providers, p)

	if r.booted {
		if err := p.Boot(r.root); err != nil {
			return SetupError(providerName(p), err)
		}
	}
	return nil
}

// Boot runs Boot on every registered provider in registration order.
// Calling it again does nothing.
func (r *ProviderRegistry) Boot(root Resolver) error {
	if r.booted {
		return nil
	}
	r.booted = true
	r.root = root

	for _, p := range r.providers {
		if err := p.Boot(root); err != nil {
			return SetupError(providerName(p), err)
		}
	}
	return nil
}

// Booted reports whether Boot has run.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns the registered providers in registration order.
func (r *ProviderRegistry) Providers() []Provider {
	return append([]Provider(nil), r.providers...)
}

func providerName(p Provider) string {
	return fmt.Sprintf("%T", p)
}
