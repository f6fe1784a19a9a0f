package safemigrate

import (
	"fmt"

	"github.com/nlordell/safe-migrate/pkg/types"
)

// Network identifies an Ethereum network with a Safe relay service.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkRinkeby Network = "rinkeby"
)

// NetworkConfig holds the per-network service endpoints.
type NetworkConfig struct {
	ChainID     int64
	RelayURL    string
	ExplorerURL string
}

var mainnetConfig = NetworkConfig{
	ChainID:     1,
	RelayURL:    "https://safe-relay.gnosis.io/api",
	ExplorerURL: "https://etherscan.io",
}

var rinkebyConfig = NetworkConfig{
	ChainID:     4,
	RelayURL:    "https://safe-relay.rinkeby.gnosis.io/api",
	ExplorerURL: "https://rinkeby.etherscan.io",
}

func ParseNetwork(name string) (Network, error) {
	switch Network(name) {
	case NetworkMainnet:
		return NetworkMainnet, nil
	case NetworkRinkeby:
		return NetworkRinkeby, nil
	default:
		return "", fmt.Errorf("%w: %q", types.ErrUnsupportedNetwork, name)
	}
}

func GetNetworkConfig(network Network) (NetworkConfig, error) {
	switch network {
	case NetworkMainnet:
		return mainnetConfig, nil
	case NetworkRinkeby:
		return rinkebyConfig, nil
	default:
		return NetworkConfig{}, fmt.Errorf("%w: %q", types.ErrUnsupportedNetwork, network)
	}
}
