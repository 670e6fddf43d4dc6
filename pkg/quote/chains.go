package quote

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"

	"cross-swap/pkg/types"
)

// DefaultChains returns the built-in chain registry, keyed by short name.
func DefaultChains() map[string]types.Chain {
	return map[string]types.Chain{
		"sepolia": {
			ChainID:   "11155111",
			Name:      "Sepolia",
			Ecosystem: types.EcosystemEVM,
			RPCUrl:    "https://ethereum-sepolia-rpc.publicnode.com",
			NativeToken: types.Token{
				Address:   nativePlaceholder,
				Symbol:    "ETH",
				Name:      "Sepolia ETH",
				Decimals:  18,
				ChainID:   "11155111",
				Ecosystem: types.EcosystemEVM,
			},
			BlockTime: 12,
		},
		"cosmoshub": {
			ChainID:   "cosmoshub-4",
			Name:      "Cosmos Hub",
			Ecosystem: types.EcosystemCosmos,
			RPCUrl:    "https://rpc-cosmoshub.blockapsis.com",
			NativeToken: types.Token{
				Address:   "uatom",
				Symbol:    "ATOM",
				Name:      "Cosmos",
				Decimals:  6,
				ChainID:   "cosmoshub-4",
				Ecosystem: types.EcosystemCosmos,
			},
			BlockTime: 6,
		},
		"osmosis": {
			ChainID:   "osmosis-1",
			Name:      "Osmosis",
			Ecosystem: types.EcosystemCosmos,
			RPCUrl:    "https://rpc-osmosis.blockapsis.com",
			NativeToken: types.Token{
				Address:   "uosmo",
				Symbol:    "OSMO",
				Name:      "Osmosis",
				Decimals:  6,
				ChainID:   "osmosis-1",
				Ecosystem: types.EcosystemCosmos,
			},
			BlockTime: 6,
		},
	}
}

// GasEstimator estimates the gas cost of a transfer on a chain, expressed in
// the chain's native currency.
type GasEstimator interface {
	EstimateGasFee(ctx context.Context, chain types.Chain) (decimal.Decimal, error)
}

// StaticGasEstimator returns a flat per-chain estimate. Used for non-EVM
// chains and as the fallback when no RPC endpoint is reachable.
type StaticGasEstimator struct {
	fees map[string]decimal.Decimal
}

// NewStaticGasEstimator builds an estimator over a fee table; unknown chains
// get a conservative default.
func NewStaticGasEstimator(fees map[string]decimal.Decimal) *StaticGasEstimator {
	if fees == nil {
		fees = map[string]decimal.Decimal{}
	}
	return &StaticGasEstimator{fees: fees}
}

func (e *StaticGasEstimator) EstimateGasFee(ctx context.Context, chain types.Chain) (decimal.Decimal, error) {
	if fee, ok := e.fees[chain.ChainID]; ok {
		return fee, nil
	}
	return decimal.RequireFromString("0.001"), nil
}

// transferGasLimit is the gas used by a plain value transfer.
const transferGasLimit = 21000

// EVMGasEstimator asks the chain's RPC node for a gas price and prices a
// standard transfer with it. Non-EVM chains fall back to the static table.
type EVMGasEstimator struct {
	fallback GasEstimator
}

// NewEVMGasEstimator wraps a fallback estimator with live EVM pricing.
func NewEVMGasEstimator(fallback GasEstimator) *EVMGasEstimator {
	return &EVMGasEstimator{fallback: fallback}
}

func (e *EVMGasEstimator) EstimateGasFee(ctx context.Context, chain types.Chain) (decimal.Decimal, error) {
	if chain.Ecosystem != types.EcosystemEVM || chain.RPCUrl == "" {
		return e.fallback.EstimateGasFee(ctx, chain)
	}

	client, err := ethclient.DialContext(ctx, chain.RPCUrl)
	if err != nil {
		return e.fallback.EstimateGasFee(ctx, chain)
	}
	defer client.Close()

	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return e.fallback.EstimateGasFee(ctx, chain)
	}

	costWei := new(big.Int).Mul(gasPrice, big.NewInt(transferGasLimit))
	return types.UnitsToAmount(costWei, chain.NativeToken.Decimals), nil
}

// ResolveChain looks a chain up by short name or chain id.
func ResolveChain(chains map[string]types.Chain, key string) (types.Chain, error) {
	if chain, ok := chains[key]; ok {
		return chain, nil
	}
	for _, chain := range chains {
		if chain.ChainID == key {
			return chain, nil
		}
	}
	return types.Chain{}, fmt.Errorf("unsupported chain: %s", key)
}
