package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/km-arc/go-scopes/framework/config"
	"github.com/km-arc/go-scopes/framework/container"
	"github.com/km-arc/go-scopes/framework/inspect"
)

// RootScope is the name of the scope a Root owns.
const RootScope = "root"

// State is where a Root is in its construction.
type State int

const (
	StateUninitialized State = iota
	StateSettingUp
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateSettingUp:
		return "setting-up"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// SetupFunc fills in scopes while a Root is being built.
type SetupFunc func(dir *container.Directory) error

// Root is the composition root. It owns the "root" scope, links it to the
// child scopes it was given, runs the application's setup, and then publishes
// itself as the directory's root resolver.
//
//	root, err := app.New(dir,
//	    app.WithChildren("usecase"),
//	    app.WithProviders(&NetworkProvider{}, &UseCaseProvider{}),
//	)
//	svc, ok := container.Get[NetworkService](root)
type Root struct {
	dir       *container.Directory
	registry  *container.Registry
	children  []string
	providers *container.ProviderRegistry
	pending   []container.Provider
	setup     []SetupFunc
	cfg       *config.Config
	logger    *zap.Logger
	gatherer  prometheus.Gatherer
	state     State
}

// Option configures a Root.
type Option func(*Root)

// WithChildren sets the child scopes the root scope falls back to, in order.
func WithChildren(names ...string) Option {
	return func(r *Root) { r.children = append(r.children, names...) }
}

// WithProviders adds providers to run during setup.
func WithProviders(ps ...container.Provider) Option {
	return func(r *Root) { r.pending = append(r.pending, ps...) }
}

// WithSetup adds a setup hook. Hooks run after provider registration and
// before providers are booted.
func WithSetup(fn SetupFunc) Option {
	return func(r *Root) { r.setup = append(r.setup, fn) }
}

func WithConfig(cfg *config.Config) Option {
	return func(r *Root) { r.cfg = cfg }
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Root) { r.logger = logger }
}

// WithGatherer exposes the given metrics on the inspection API.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(r *Root) { r.gatherer = g }
}

// New builds a Root on dir. It replaces any root previously published there;
// holders of the old Root keep resolving against it.
func New(dir *container.Directory, opts ...Option) (*Root, error) {
	r := &Root{
		dir:       dir,
		providers: container.NewProviderRegistry(dir),
		logger:    dir.Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = dir.Logger()
	}

	registry, err := dir.Declare(RootScope)
	if err != nil {
		return nil, err
	}
	r.registry = registry.Link(r.children...)

	r.state = StateSettingUp
	if err := r.runSetup(); err != nil {
		return nil, err
	}

	dir.SetRoot(r)
	r.state = StateReady

	r.logger.Info("root ready",
		zap.Strings("children", r.children),
		zap.Strings("scopes", dir.Names()),
		zap.Int("providers", len(r.providers.Providers())),
	)
	return r, nil
}

func (r *Root) runSetup() error {
	for _, p := range r.pending {
		if err := r.providers.Register(p); err != nil {
			return err
		}
	}

	for _, fn := range r.setup {
		if err := fn(r.dir); err != nil {
			return container.SetupError(RootScope, err)
		}
	}

	// setup may have declared "root" again; follow the published registry
	if current, ok := r.dir.Get(RootScope); ok {
		r.registry = current
	}

	return r.providers.Boot(r)
}

// Lookup implements container.Resolver against the root scope.
func (r *Root) Lookup(q container.Query) (any, error) {
	return r.registry.Lookup(q)
}

// Registry returns the root scope's registry.
func (r *Root) Registry() *container.Registry { return r.registry }

// Directory returns the directory the root was built on.
func (r *Root) Directory() *container.Directory { return r.dir }

// Children returns the child scopes given at construction.
func (r *Root) Children() []string { return append([]string(nil), r.children...) }

func (r *Root) State() State { return r.state }

// Providers returns the provider registry used during setup.
func (r *Root) Providers() *container.ProviderRegistry { return r.providers }

// Config returns the configuration, loading it from the environment if none
// was given.
func (r *Root) Config() *config.Config {
	if r.cfg == nil {
		r.cfg = config.Load()
	}
	return r.cfg
}

// ── Serving ──────────────────────────────────────────────────────────────────

// Handler returns the inspection API for this root's directory.
func (r *Root) Handler() http.Handler {
	return inspect.New(r.dir, inspect.WithGatherer(r.gatherer), inspect.WithLogger(r.logger))
}

// Serve runs the inspection API on the configured address until ctx is done.
func (r *Root) Serve(ctx context.Context) error {
	cfg := r.Config()
	srv := &http.Server{
		Addr:              cfg.Inspect.Addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("inspection API listening",
			zap.String("app", cfg.App.Name),
			zap.String("addr", cfg.Inspect.Addr),
			zap.String("env", cfg.App.Env),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// ── Directory from config ────────────────────────────────────────────────────

// NewDirectory builds a directory configured from cfg. Metrics are registered
// with reg when cfg enables them and reg is non-nil.
func NewDirectory(cfg *config.Config, logger *zap.Logger, reg prometheus.Registerer) *container.Directory {
	opts := []container.Option{container.WithLogger(logger)}
	if cfg.Container.StrictTypes {
		opts = append(opts, container.WithStrictTypes())
	}
	if cfg.Container.Metrics && reg != nil {
		opts = append(opts, container.WithMetrics(container.NewMetrics(reg)))
	}
	return container.NewDirectory(opts...)
}
