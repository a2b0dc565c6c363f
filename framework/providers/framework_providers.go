package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/km-arc/go-scopes/framework/config"
	"github.com/km-arc/go-scopes/framework/container"
)

// FrameworkScope holds the process-level services every other scope may need.
const FrameworkScope = "framework"

// ── ConfigProvider ────────────────────────────────────────────────────────────

// ConfigProvider publishes the configuration in the framework scope. With no
// Config set it loads one from the environment.
//
// Registered keys:
//   - *config.Config
//   - *config.AppConfig (lazy, derived)
//   - "config"          → *config.Config
type ConfigProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigProvider) Register(dir *container.Directory) error {
	cfg := p.Config
	if cfg == nil {
		cfg = config.Load()
	}

	_, err := dir.Declare(FrameworkScope,
		container.Value(cfg),
		container.Named("config", cfg),
		container.Lazy(func() *config.AppConfig { return &cfg.App }),
	)
	return err
}

// ── LoggerProvider ────────────────────────────────────────────────────────────

// LoggerProvider publishes the logger in the framework scope.
//
// Registered keys:
//   - *zap.Logger
//   - *zap.SugaredLogger (lazy)
type LoggerProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LoggerProvider) Register(dir *container.Directory) error {
	logger := p.Logger
	if logger == nil {
		logger = dir.Logger()
	}

	_, err := dir.Declare(FrameworkScope,
		container.Value(logger),
		container.Lazy(logger.Sugar),
	)
	return err
}

// Boot logs the logger's own wiring once everything is registered.
func (p *LoggerProvider) Boot(root container.Resolver) error {
	if l, ok := container.Get[*zap.Logger](root); ok {
		l.Debug("logger provider booted")
	}
	return nil
}

// ── MetricsProvider ───────────────────────────────────────────────────────────

// MetricsProvider publishes the Prometheus registry in the framework scope.
//
// Registered keys:
//   - prometheus.Registerer
//   - prometheus.Gatherer
type MetricsProvider struct {
	container.BaseProvider
	Registry *prometheus.Registry
}

func (p *MetricsProvider) Register(dir *container.Directory) error {
	reg := p.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	_, err := dir.Declare(FrameworkScope,
		container.As[prometheus.Registerer](reg),
		container.As[prometheus.Gatherer](reg),
	)
	return err
}
