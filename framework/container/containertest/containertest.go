// Package containertest has helpers for tests that build scopes.
package containertest

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/km-arc/go-scopes/framework/container"
)

// NewDirectory returns a directory that logs to the test output.
func NewDirectory(tb testing.TB, opts ...container.Option) *container.Directory {
	tb.Helper()
	opts = append([]container.Option{container.WithLogger(zaptest.NewLogger(tb))}, opts...)
	return container.NewDirectory(opts...)
}

// Declare declares name on dir and fails the test on error.
func Declare(tb testing.TB, dir *container.Directory, name string, descs ...container.Descriptor) *container.Registry {
	tb.Helper()
	r, err := dir.Declare(name, descs...)
	if err != nil {
		tb.Fatalf("declare %q: %v", name, err)
	}
	return r
}

// RequireGet resolves T from r and fails the test if it cannot.
func RequireGet[T any](tb testing.TB, r container.Resolver) T {
	tb.Helper()
	v, err := container.Resolve[T](r)
	if err != nil {
		tb.Fatalf("resolve %s: %v", container.TypeKey[T](), err)
	}
	return v
}

// RequireGetNamed resolves T under id from r and fails the test if it cannot.
func RequireGetNamed[T any](tb testing.TB, r container.Resolver, id string) T {
	tb.Helper()
	v, err := container.ResolveNamed[T](r, id)
	if err != nil {
		tb.Fatalf("resolve %s (%q): %v", container.TypeKey[T](), id, err)
	}
	return v
}

// RequireAbsent fails the test if T resolves from r.
func RequireAbsent[T any](tb testing.TB, r container.Resolver) {
	tb.Helper()
	if v, ok := container.Get[T](r); ok {
		tb.Fatalf("expected %s to be absent, got %T", container.TypeKey[T](), v)
	}
}

// RequireAbsentNamed fails the test if T resolves under id from r.
func RequireAbsentNamed[T any](tb testing.TB, r container.Resolver, id string) {
	tb.Helper()
	if v, ok := container.GetNamed[T](r, id); ok {
		tb.Fatalf("expected %s (%q) to be absent, got %T", container.TypeKey[T](), id, v)
	}
}
