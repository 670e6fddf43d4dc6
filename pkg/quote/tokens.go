package quote

import (
	"strings"

	"cross-swap/pkg/types"
)

// knownTokens is the built-in token table, keyed by chain id then by
// lower-cased address or denom.
var knownTokens = map[string]map[string]types.Token{
	"11155111": {
		"0x1c7d4b196cb0c7b01d743fbc6116a902379c7238": {
			Address:   "0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238",
			Symbol:    "USDC",
			Name:      "USD Coin (Sepolia)",
			Decimals:  6,
			ChainID:   "11155111",
			Ecosystem: types.EcosystemEVM,
		},
		"0xfff9976782d46cc05630d1f6ebab18b2324d6b14": {
			Address:   "0xfFf9976782d46CC05630D1f6eBAb18b2324d6B14",
			Symbol:    "WETH",
			Name:      "Wrapped ETH (Sepolia)",
			Decimals:  18,
			ChainID:   "11155111",
			Ecosystem: types.EcosystemEVM,
		},
	},
	"cosmoshub-4": {
		"uatom": {
			Address:   "uatom",
			Symbol:    "ATOM",
			Name:      "Cosmos",
			Decimals:  6,
			ChainID:   "cosmoshub-4",
			Ecosystem: types.EcosystemCosmos,
		},
	},
	"osmosis-1": {
		"uosmo": {
			Address:   "uosmo",
			Symbol:    "OSMO",
			Name:      "Osmosis",
			Decimals:  6,
			ChainID:   "osmosis-1",
			Ecosystem: types.EcosystemCosmos,
		},
	},
}

// nativePlaceholder is the conventional pseudo-address for a chain's native
// currency on EVM chains.
const nativePlaceholder = "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"

// lookupKnownToken checks the built-in table for an address on a chain.
func lookupKnownToken(chain types.Chain, address string) (types.Token, bool) {
	if address == nativePlaceholder || strings.EqualFold(address, chain.NativeToken.Address) {
		return chain.NativeToken, true
	}

	table, ok := knownTokens[chain.ChainID]
	if !ok {
		return types.Token{}, false
	}
	token, ok := table[strings.ToLower(address)]
	return token, ok
}

// unknownToken is the degraded placeholder used when metadata resolution
// fails. Decimals default to the ecosystem's convention.
func unknownToken(chain types.Chain, address string) types.Token {
	decimals := int32(18)
	if chain.Ecosystem == types.EcosystemCosmos {
		decimals = 6
	}
	return types.Token{
		Address:   address,
		Symbol:    "UNKNOWN",
		Name:      "Unknown Token",
		Decimals:  decimals,
		ChainID:   chain.ChainID,
		Ecosystem: chain.Ecosystem,
	}
}
