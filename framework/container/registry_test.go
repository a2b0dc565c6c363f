package container_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-scopes/framework/container"
	"github.com/km-arc/go-scopes/framework/container/containertest"
)

// ── fixtures ─────────────────────────────────────────────────────────────────

type NetworkService interface {
	Fetch(path string) string
}

type Networker struct{}

func (*Networker) Fetch(path string) string { return "first" + path }

type NetworkerSecond struct{}

func (*NetworkerSecond) Fetch(path string) string { return "second" + path }

type Clock struct{ Tick int }

type UseCase struct {
	Network NetworkService
}

// ── Round trip ───────────────────────────────────────────────────────────────

func TestRegistry_InstanceRoundTrip(t *testing.T) {
	dir := containertest.NewDirectory(t)
	clock := &Clock{Tick: 7}
	reg := containertest.Declare(t, dir, "time", container.Instance(clock))

	got, ok := container.Get[*Clock](reg)
	require.True(t, ok)
	assert.Same(t, clock, got)
}

func TestRegistry_ValueKeepsStaticType(t *testing.T) {
	dir := containertest.NewDirectory(t)
	var svc NetworkService = &Networker{}
	reg := containertest.Declare(t, dir, "network", container.Value(svc))

	got := containertest.RequireGet[NetworkService](t, reg)
	assert.IsType(t, &Networker{}, got)
	containertest.RequireAbsent[*Networker](t, reg)
}

func TestRegistry_AsInterface(t *testing.T) {
	dir := containertest.NewDirectory(t)
	reg := containertest.Declare(t, dir, "network", container.As[NetworkService](&Networker{}))

	got := containertest.RequireGet[NetworkService](t, reg)
	assert.IsType(t, &Networker{}, got)
	assert.Equal(t, "first/x", got.Fetch("/x"))

	// registered under the interface only
	containertest.RequireAbsent[*Networker](t, reg)
}

func TestRegistry_IdentifiersDisambiguate(t *testing.T) {
	dir := containertest.NewDirectory(t)
	reg := containertest.Declare(t, dir, "network",
		container.As[NetworkService](&Networker{}),
		container.Named[NetworkService]("NetworkerSecond", &NetworkerSecond{}),
	)

	plain := containertest.RequireGet[NetworkService](t, reg)
	second := containertest.RequireGetNamed[NetworkService](t, reg, "NetworkerSecond")

	assert.IsType(t, &Networker{}, plain)
	assert.IsType(t, &NetworkerSecond{}, second)
	containertest.RequireAbsentNamed[NetworkService](t, reg, "NetworkerThird")
}

// ── Laziness ─────────────────────────────────────────────────────────────────

func TestRegistry_LazyRunsOnFirstResolution(t *testing.T) {
	dir := containertest.NewDirectory(t)
	built := false
	reg := containertest.Declare(t, dir, "time", container.Lazy(func() *Clock {
		built = true
		return &Clock{}
	}))

	assert.False(t, built, "factory must not run at registration")
	assert.True(t, reg.Has(container.TypeKey[*Clock]()))
	assert.False(t, reg.Materialized(container.TypeKey[*Clock]()))

	_, ok := container.Get[*Clock](reg)
	require.True(t, ok)
	assert.True(t, built)
	assert.True(t, reg.Materialized(container.TypeKey[*Clock]()))
}

func TestRegistry_LazyIsMemoized(t *testing.T) {
	dir := containertest.NewDirectory(t)
	var runs int
	reg := containertest.Declare(t, dir, "network", container.LazyAs[NetworkService](func() NetworkService {
		runs++
		return &Networker{}
	}))

	first := containertest.RequireGet[NetworkService](t, reg)
	second := containertest.RequireGet[NetworkService](t, reg)

	assert.Equal(t, 1, runs)
	assert.Same(t, first, second)
}

func TestRegistry_LazyNamed(t *testing.T) {
	dir := containertest.NewDirectory(t)
	reg := containertest.Declare(t, dir, "network",
		container.LazyNamed[NetworkService]("NetworkerSecond", func() NetworkService { return &NetworkerSecond{} }),
	)

	got := containertest.RequireGetNamed[NetworkService](t, reg, "NetworkerSecond")
	assert.IsType(t, &NetworkerSecond{}, got)
	containertest.RequireAbsent[NetworkService](t, reg)
}

func TestRegistry_LazyMemoizedEvenOnMismatch(t *testing.T) {
	dir := containertest.NewDirectory(t)
	var runs int
	reg := containertest.Declare(t, dir, "s", container.LazyNamed("clock", func() *Networker {
		runs++
		return &Networker{}
	}))

	_, ok := container.GetNamed[*Clock](reg, "clock")
	assert.False(t, ok)
	_, ok = container.GetNamed[*Networker](reg, "clock")
	assert.True(t, ok)
	assert.Equal(t, 1, runs)
}

func TestRegistry_ConcurrentFirstResolutionRunsFactoryOnce(t *testing.T) {
	dir := containertest.NewDirectory(t)
	var runs atomic.Int32
	reg := containertest.Declare(t, dir, "time", container.Lazy(func() *Clock {
		runs.Add(1)
		time.Sleep(10 * time.Millisecond)
		return &Clock{}
	}))

	const workers = 32
	results := make([]*Clock, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = container.Get[*Clock](reg)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), runs.Load())
	for _, c := range results {
		require.NotNil(t, c)
		assert.Same(t, results[0], c)
	}
}

func TestRegistry_SelfResolvingFactoryFailsInsteadOfHanging(t *testing.T) {
	dir := containertest.NewDirectory(t)
	reg := containertest.Declare(t, dir, "time")

	var inner error
	require.NoError(t, reg.Register(container.Lazy(func() *Clock {
		_, inner = container.Resolve[*Clock](reg)
		return &Clock{Tick: 1}
	})))

	done := make(chan *Clock, 1)
	go func() {
		c, _ := container.Get[*Clock](reg)
		done <- c
	}()

	select {
	case c := <-done:
		require.NotNil(t, c)
		assert.Equal(t, 1, c.Tick)
	case <-time.After(2 * time.Second):
		t.Fatal("self-resolving factory never returned")
	}

	assert.True(t, container.IsCircular(inner))
	assert.ErrorIs(t, inner, container.ErrCircular)
}

func TestRegistry_FactoryCycleThroughLinkedScopes(t *testing.T) {
	dir := containertest.NewDirectory(t)
	var inner error
	a := containertest.Declare(t, dir, "a").Link("b")
	containertest.Declare(t, dir, "b", container.Lazy(func() *Clock {
		_, inner = container.Resolve[*Clock](a)
		return &Clock{}
	})).Link("a")

	done := make(chan struct{})
	go func() {
		defer close(done)
		container.Get[*Clock](a)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("factory cycle never returned")
	}
	assert.True(t, container.IsCircular(inner))
}

// ── Hierarchy ────────────────────────────────────────────────────────────────

func TestRegistry_FallsBackToChildren(t *testing.T) {
	dir := containertest.NewDirectory(t)
	containertest.Declare(t, dir, "network", container.As[NetworkService](&Networker{}))
	containertest.Declare(t, dir, "time", container.Instance(&Clock{}))
	usecase := containertest.Declare(t, dir, "usecase").Link("network")

	got := containertest.RequireGet[NetworkService](t, usecase)
	assert.IsType(t, &Networker{}, got)

	// "time" is a sibling, not a child
	containertest.RequireAbsent[*Clock](t, usecase)
}

func TestRegistry_ChildrenAreNotParents(t *testing.T) {
	dir := containertest.NewDirectory(t)
	network := containertest.Declare(t, dir, "network")
	containertest.Declare(t, dir, "usecase", container.Instance(&UseCase{})).Link("network")

	containertest.RequireAbsent[*UseCase](t, network)
}

func TestRegistry_ChildrenSearchedInLinkOrder(t *testing.T) {
	dir := containertest.NewDirectory(t)
	containertest.Declare(t, dir, "a", container.As[NetworkService](&Networker{}))
	containertest.Declare(t, dir, "b", container.As[NetworkService](&NetworkerSecond{}))

	ab := containertest.Declare(t, dir, "ab").Link("a", "b")
	ba := containertest.Declare(t, dir, "ba").Link("b", "a")

	assert.IsType(t, &Networker{}, containertest.RequireGet[NetworkService](t, ab))
	assert.IsType(t, &NetworkerSecond{}, containertest.RequireGet[NetworkService](t, ba))
}

func TestRegistry_LocalWinsOverChildren(t *testing.T) {
	dir := containertest.NewDirectory(t)
	containertest.Declare(t, dir, "network", container.As[NetworkService](&Networker{}))
	usecase := containertest.Declare(t, dir, "usecase", container.As[NetworkService](&NetworkerSecond{})).Link("network")

	assert.IsType(t, &NetworkerSecond{}, containertest.RequireGet[NetworkService](t, usecase))
}

func TestRegistry_TransitiveChildren(t *testing.T) {
	dir := containertest.NewDirectory(t)
	containertest.Declare(t, dir, "network", container.As[NetworkService](&Networker{}))
	containertest.Declare(t, dir, "usecase").Link("network")
	root := containertest.Declare(t, dir, "root").Link("usecase")

	assert.IsType(t, &Networker{}, containertest.RequireGet[NetworkService](t, root))
}

func TestRegistry_LinkCyclesTerminate(t *testing.T) {
	dir := containertest.NewDirectory(t)
	a := containertest.Declare(t, dir, "a").Link("b")
	containertest.Declare(t, dir, "b", container.Instance(&Clock{})).Link("a")

	_, err := container.Resolve[*UseCase](a)
	assert.True(t, container.IsNotFound(err))

	containertest.RequireGet[*Clock](t, a)
}

func TestRegistry_UndeclaredChildIsSkipped(t *testing.T) {
	dir := containertest.NewDirectory(t)
	containertest.Declare(t, dir, "network", container.As[NetworkService](&Networker{}))
	usecase := containertest.Declare(t, dir, "usecase").Link("missing", "network")

	containertest.RequireGet[NetworkService](t, usecase)
}

func TestRegistry_LinkIgnoresDuplicatesAndSelf(t *testing.T) {
	dir := containertest.NewDirectory(t)
	reg := containertest.Declare(t, dir, "usecase").Link("network", "usecase", "network", "", "time")

	assert.Equal(t, []string{"network", "time"}, reg.Children())
}

func TestRegistry_ChildrenLookedUpByNameAtResolutionTime(t *testing.T) {
	dir := containertest.NewDirectory(t)
	usecase := containertest.Declare(t, dir, "usecase").Link("network")

	containertest.RequireAbsent[NetworkService](t, usecase)

	containertest.Declare(t, dir, "network", container.As[NetworkService](&Networker{}))
	containertest.RequireGet[NetworkService](t, usecase)
}

// ── Absence and mismatch ─────────────────────────────────────────────────────

func TestRegistry_AbsenceIsNotFatal(t *testing.T) {
	dir := containertest.NewDirectory(t)
	reg := containertest.Declare(t, dir, "empty")

	v, ok := container.Get[*Clock](reg)
	assert.False(t, ok)
	assert.Nil(t, v)

	_, err := container.ResolveNamed[NetworkService](reg, "nope")
	require.Error(t, err)
	assert.True(t, container.IsNotFound(err))
	assert.True(t, errors.Is(err, container.ErrNotFound))
	assert.False(t, errors.Is(err, container.ErrTypeMismatch))
}

func TestRegistry_TypeMismatch(t *testing.T) {
	dir := containertest.NewDirectory(t)
	reg := containertest.Declare(t, dir, "s", container.NamedInstance("clock", &Networker{}))

	_, ok := container.GetNamed[*Clock](reg, "clock")
	assert.False(t, ok)

	_, err := container.ResolveNamed[*Clock](reg, "clock")
	assert.True(t, container.IsTypeMismatch(err))
	assert.True(t, errors.Is(err, container.ErrTypeMismatch))
}

func TestRegistry_MismatchFallsThroughToChildren(t *testing.T) {
	dir := containertest.NewDirectory(t)
	clock := &Clock{}
	containertest.Declare(t, dir, "time", container.NamedInstance("clock", clock))
	reg := containertest.Declare(t, dir, "s", container.NamedInstance("clock", &Networker{})).Link("time")

	got := containertest.RequireGetNamed[*Clock](t, reg, "clock")
	assert.Same(t, clock, got)
}

func TestRegistry_StrictTypesStopAtFirstMismatch(t *testing.T) {
	dir := containertest.NewDirectory(t, container.WithStrictTypes())
	containertest.Declare(t, dir, "time", container.NamedInstance("clock", &Clock{}))
	reg := containertest.Declare(t, dir, "s", container.NamedInstance("clock", &Networker{})).Link("time")

	_, err := container.ResolveNamed[*Clock](reg, "clock")
	assert.True(t, container.IsTypeMismatch(err))
}

func TestRegistry_MismatchReportedWhenNothingMatches(t *testing.T) {
	dir := containertest.NewDirectory(t)
	containertest.Declare(t, dir, "time")
	reg := containertest.Declare(t, dir, "s", container.NamedInstance("clock", &Networker{})).Link("time")

	_, err := container.ResolveNamed[*Clock](reg, "clock")
	assert.True(t, container.IsTypeMismatch(err))
}

// ── Re-registration ──────────────────────────────────────────────────────────

func TestRegistry_LastWriteWins(t *testing.T) {
	dir := containertest.NewDirectory(t)
	first, second := &Clock{Tick: 1}, &Clock{Tick: 2}
	reg := containertest.Declare(t, dir, "time", container.Instance(first))
	require.NoError(t, reg.Register(container.Instance(second)))

	assert.Same(t, second, containertest.RequireGet[*Clock](t, reg))
}

func TestRegistry_EagerReplacesPendingFactory(t *testing.T) {
	dir := containertest.NewDirectory(t)
	called := false
	eager := &Clock{Tick: 3}
	reg := containertest.Declare(t, dir, "time", container.Lazy(func() *Clock {
		called = true
		return &Clock{}
	}))
	require.NoError(t, reg.Register(container.Instance(eager)))

	assert.Same(t, eager, containertest.RequireGet[*Clock](t, reg))
	assert.False(t, called)
	assert.False(t, reg.Materialized(container.TypeKey[*Clock]()))
}

func TestRegistry_LazyReplacesInstance(t *testing.T) {
	dir := containertest.NewDirectory(t)
	lazy := &Clock{Tick: 4}
	reg := containertest.Declare(t, dir, "time", container.Instance(&Clock{Tick: 1}))
	require.NoError(t, reg.Register(container.Lazy(func() *Clock { return lazy })))

	assert.Same(t, lazy, containertest.RequireGet[*Clock](t, reg))
}

// ── Invalid descriptors ──────────────────────────────────────────────────────

func TestRegistry_RejectsInvalidDescriptors(t *testing.T) {
	tests := []struct {
		name string
		desc container.Descriptor
	}{
		{"nil instance", container.Instance(nil)},
		{"nil interface value", container.As[NetworkService](nil)},
		{"empty identifier", container.Named[NetworkService]("", &Networker{})},
		{"nil factory", container.Lazy[*Clock](nil)},
		{"nil named factory", container.LazyNamed[*Clock]("clock", nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := containertest.NewDirectory(t)
			_, err := dir.Declare("s", tt.desc)
			require.Error(t, err)
			assert.True(t, container.IsInvalidDescriptor(err))

			_, ok := dir.Get("s")
			assert.False(t, ok, "failed declare must not publish")
		})
	}
}

func TestRegistry_RegisterIsAllOrNothing(t *testing.T) {
	dir := containertest.NewDirectory(t)
	reg := containertest.Declare(t, dir, "s")

	err := reg.Register(
		container.Instance(&Clock{}),
		container.Named[NetworkService]("", &Networker{}),
	)
	require.Error(t, err)
	assert.False(t, reg.Has(container.TypeKey[*Clock]()))
}

// ── AddWithResolver ──────────────────────────────────────────────────────────

func TestRegistry_AddWithResolverSeesChildren(t *testing.T) {
	dir := containertest.NewDirectory(t)
	containertest.Declare(t, dir, "network", container.As[NetworkService](&Networker{}))
	usecase := containertest.Declare(t, dir, "usecase").Link("network")

	err := usecase.AddWithResolver(func(r container.Resolver) []container.Descriptor {
		return []container.Descriptor{
			container.Instance(&UseCase{Network: container.MustGet[NetworkService](r)}),
		}
	})
	require.NoError(t, err)

	uc := containertest.RequireGet[*UseCase](t, usecase)
	assert.IsType(t, &Networker{}, uc.Network)
}

// ── Introspection ────────────────────────────────────────────────────────────

func TestRegistry_KeysSorted(t *testing.T) {
	dir := containertest.NewDirectory(t)
	reg := containertest.Declare(t, dir, "s",
		container.NamedInstance("zeta", &Clock{}),
		container.NamedInstance("alpha", &Clock{}),
		container.LazyNamed("mid", func() *Clock { return &Clock{} }),
	)

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, reg.Keys())
}

func TestRegistry_SnapshotDoesNotMaterialize(t *testing.T) {
	dir := containertest.NewDirectory(t)
	called := false
	reg := containertest.Declare(t, dir, "network",
		container.LazyAs[NetworkService](func() NetworkService {
			called = true
			return &Networker{}
		}),
	).Link("time")

	snap := reg.Snapshot()
	assert.False(t, called)
	assert.Equal(t, "network", snap.Name)
	assert.Equal(t, reg.ID(), snap.ID)
	assert.Equal(t, []string{"time"}, snap.Children)
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, container.TypeKey[NetworkService](), snap.Entries[0].Type)
	assert.True(t, snap.Entries[0].Lazy)
	assert.False(t, snap.Entries[0].Materialized)
	assert.Empty(t, snap.Entries[0].Concrete)

	containertest.RequireGet[NetworkService](t, reg)

	entry := reg.Snapshot().Entries[0]
	assert.True(t, entry.Lazy)
	assert.True(t, entry.Materialized)
	assert.Equal(t, container.TypeKey[*Networker](), entry.Concrete)
}

func TestRegistry_Reachable(t *testing.T) {
	dir := containertest.NewDirectory(t)
	called := false
	containertest.Declare(t, dir, "network", container.LazyAs[NetworkService](func() NetworkService {
		called = true
		return &Networker{}
	}))
	usecase := containertest.Declare(t, dir, "usecase").Link("network")

	scope, ok := usecase.Reachable(container.TypeKey[NetworkService]())
	assert.True(t, ok)
	assert.Equal(t, "network", scope)
	assert.False(t, called)

	_, ok = usecase.Reachable("missing")
	assert.False(t, ok)
}
