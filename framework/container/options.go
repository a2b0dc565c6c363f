package container

import "go.uber.org/zap"

// Option configures a Directory and every registry it declares.
type Option func(*directoryConfig)

type directoryConfig struct {
	logger  *zap.Logger
	strict  bool
	metrics *Metrics
}

func defaultDirectoryConfig() *directoryConfig {
	return &directoryConfig{
		logger: zap.NewNop(),
	}
}

// WithLogger sets the logger used for declarations, links, overwrites and
// factory materialization. All of it is logged at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *directoryConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithStrictTypes makes a registration of the wrong type end the lookup with
// ErrCodeTypeMismatch instead of falling through to child scopes.
func WithStrictTypes() Option {
	return func(cfg *directoryConfig) {
		cfg.strict = true
	}
}

// WithMetrics records resolution outcomes and factory runs.
func WithMetrics(m *Metrics) Option {
	return func(cfg *directoryConfig) {
		cfg.metrics = m
	}
}
