package app

import (
	"github.com/km-arc/go-scopes/framework/container"
)

// UseCaseScope holds the application use-cases. It falls back to the network
// scope for its clients.
const UseCaseScope = "usecase"

// UseCase loads profiles through a NetworkService.
type UseCase struct {
	Network NetworkService
}

func NewUseCase(network NetworkService) *UseCase {
	return &UseCase{Network: network}
}

// Profile returns the URL the profile of id would be loaded from.
func (u *UseCase) Profile(id string) string {
	return u.Network.Fetch("/profiles/" + id)
}

// UseCaseProvider declares the usecase scope and builds UseCase from
// whatever NetworkService the scope chain resolves at setup time.
type UseCaseProvider struct {
	container.BaseProvider
}

func (p *UseCaseProvider) Register(dir *container.Directory) error {
	_, err := dir.Build(UseCaseScope).
		Links(NetworkScope).
		With(func(r container.Resolver) []container.Descriptor {
			network, ok := container.Get[NetworkService](r)
			if !ok {
				return nil
			}
			return []container.Descriptor{
				container.Value(NewUseCase(network)),
			}
		}).
		Commit()
	return err
}
