package payment

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Supported CAIP-2 networks.
const (
	NetworkBaseMainnet = "eip155:8453"
	NetworkBaseSepolia = "eip155:84532"
)

// ErrUnsupportedNetwork is returned for networks without a known USDC deployment.
var ErrUnsupportedNetwork = errors.New("unsupported network")

// ErrInvalidPayee is returned when the receiving address is not an EVM address.
var ErrInvalidPayee = errors.New("invalid payment address")

// usdcName and usdcVersion form the EIP-712 domain of USDC on Base.
const (
	usdcName    = "USD Coin"
	usdcVersion = "2"
)

//nolint:gochecknoglobals // static deployment table
var usdcAssets = map[string]common.Address{
	NetworkBaseMainnet: common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"),
	NetworkBaseSepolia: common.HexToAddress("0x036CbD53842c5426634e7929541eC2318f3dCF7e"),
}

// AssetAddress returns the checksummed USDC contract address for a network.
func AssetAddress(network string) (string, error) {
	asset, ok := usdcAssets[network]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedNetwork, network)
	}
	return asset.Hex(), nil
}

// NormalizePayee validates an EVM address and returns its EIP-55 checksummed form.
func NormalizePayee(address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPayee, address)
	}
	return common.HexToAddress(address).Hex(), nil
}

// ValidateConfig checks the network and payee before the gateway starts serving.
func ValidateConfig(cfg Config) error {
	if _, err := AssetAddress(cfg.Network); err != nil {
		return err
	}
	if _, err := NormalizePayee(cfg.PayTo); err != nil {
		return err
	}
	return nil
}
