package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	fwapp "github.com/km-arc/go-scopes/framework/app"
	"github.com/km-arc/go-scopes/framework/config"
	"github.com/km-arc/go-scopes/framework/container"
	"github.com/km-arc/go-scopes/framework/providers"
)

// Kernel is the example application: the framework scope, the network and
// usecase scopes of the classic client/use-case split, and a lazy account
// scope, all under one Root.
type Kernel struct {
	Root     *fwapp.Root
	Accounts *AccountProvider
	Metrics  *prometheus.Registry
}

// Bootstrap builds the example application on a fresh directory configured
// from cfg.
func Bootstrap(cfg *config.Config, logger *zap.Logger) (*Kernel, error) {
	if cfg == nil {
		cfg = config.Load()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	metrics := prometheus.NewRegistry()
	dir := fwapp.NewDirectory(cfg, logger, metrics)
	accounts := &AccountProvider{}

	root, err := fwapp.New(dir,
		fwapp.WithConfig(cfg),
		fwapp.WithLogger(logger),
		fwapp.WithGatherer(metrics),
		fwapp.WithChildren(AccountScope, UseCaseScope, providers.FrameworkScope),
		fwapp.WithProviders(
			&providers.ConfigProvider{Config: cfg},
			&providers.LoggerProvider{Logger: logger},
			&providers.MetricsProvider{Registry: metrics},
			&NetworkProvider{},
			&UseCaseProvider{},
			accounts,
		),
	)
	if err != nil {
		return nil, err
	}

	return &Kernel{Root: root, Accounts: accounts, Metrics: metrics}, nil
}

// Directory returns the directory the kernel was built on.
func (k *Kernel) Directory() *container.Directory {
	return k.Root.Directory()
}
