package app

import (
	"github.com/km-arc/go-scopes/framework/container"
)

// NetworkScope holds the transport clients.
const NetworkScope = "network"

// SecondNetworker is the identifier the alternate client is registered under.
const SecondNetworker = "NetworkerSecond"

// NetworkService fetches a resource by path.
type NetworkService interface {
	Fetch(path string) string
}

// Networker is the default client.
type Networker struct {
	BaseURL string
}

func (n *Networker) Fetch(path string) string { return n.BaseURL + path }

// NetworkerSecond is the alternate client, reachable only by identifier.
type NetworkerSecond struct {
	BaseURL string
}

func (n *NetworkerSecond) Fetch(path string) string { return n.BaseURL + "/v2" + path }

// NetworkProvider declares the network scope.
type NetworkProvider struct {
	container.BaseProvider
	BaseURL string
}

func (p *NetworkProvider) Register(dir *container.Directory) error {
	base := p.BaseURL
	if base == "" {
		base = "https://api.local"
	}

	_, err := dir.Declare(NetworkScope,
		container.As[NetworkService](&Networker{BaseURL: base}),
		container.Named[NetworkService](SecondNetworker, &NetworkerSecond{BaseURL: base}),
	)
	return err
}
