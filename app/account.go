package app

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/km-arc/go-scopes/framework/container"
	"github.com/km-arc/go-scopes/framework/providers"
)

// AccountScope holds account services. They are expensive to build, so they
// are registered lazily.
const AccountScope = "account"

// AccountService answers account questions through the use-case layer.
type AccountService interface {
	Owner(id string) string
}

type accountService struct {
	usecase *UseCase
	logger  *zap.Logger
}

func (s *accountService) Owner(id string) string {
	s.logger.Debug("account owner lookup", zap.String("id", id))
	return s.usecase.Profile(id)
}

// AccountProvider declares the account scope. Builds counts how many times the
// lazy factory actually ran.
type AccountProvider struct {
	container.BaseProvider
	Builds atomic.Int32
}

func (p *AccountProvider) Register(dir *container.Directory) error {
	reg, err := dir.Declare(AccountScope)
	if err != nil {
		return err
	}
	reg.Link(UseCaseScope, providers.FrameworkScope)

	return reg.Register(
		container.LazyAs[AccountService](func() AccountService {
			p.Builds.Add(1)
			logger, ok := container.Get[*zap.Logger](reg)
			if !ok {
				logger = zap.NewNop()
			}
			return &accountService{
				usecase: container.MustGet[*UseCase](reg),
				logger:  logger,
			}
		}),
	)
}
