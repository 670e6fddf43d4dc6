package order

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
)

// assetStrategy is one named branch of the cross-ecosystem address mapping.
// Strategies are tried in order; the first match wins. Every branch is
// deterministic, since the result becomes the canonical taker-asset
// identifier inside the signed order.
type assetStrategy struct {
	name    string
	match   func(asset string) bool
	convert func(asset string) (common.Address, error)
}

var assetStrategies = []assetStrategy{
	{
		name:    "cosmos-bech32",
		match:   isBech32Account,
		convert: convertBech32,
	},
	{
		name:    "cosmos-native-denom",
		match:   isNativeDenom,
		convert: convertNativeDenom,
	},
	{
		name:    "ibc-reference",
		match:   func(asset string) bool { return strings.HasPrefix(asset, "ibc/") },
		convert: convertIBCReference,
	},
	{
		name:    "solana-pubkey",
		match:   isSolanaPubkey,
		convert: convertSolanaPubkey,
	},
	{
		name:    "hash-fallback",
		match:   func(string) bool { return true },
		convert: convertHashFallback,
	},
}

// ResolveAssetAddress maps an asset reference from any supported ecosystem
// into the hex-address space used by the order structure. Hex addresses pass
// through unchanged; everything else goes through the strategy table. Same
// input always yields the same output.
func ResolveAssetAddress(asset string) (common.Address, error) {
	if asset == "" {
		return common.Address{}, fmt.Errorf("empty asset reference")
	}
	if common.IsHexAddress(asset) {
		return common.HexToAddress(asset), nil
	}

	for _, s := range assetStrategies {
		if s.match(asset) {
			addr, err := s.convert(asset)
			if err != nil {
				return common.Address{}, fmt.Errorf("%s conversion of %q failed: %w", s.name, asset, err)
			}
			return addr, nil
		}
	}

	// Unreachable: hash-fallback matches everything.
	return common.Address{}, fmt.Errorf("no conversion strategy for asset %q", asset)
}

var bech32Prefixes = []string{"cosmos1", "osmo1", "juno1", "akash1"}

func isBech32Account(asset string) bool {
	if len(asset) <= 20 {
		return false
	}
	for _, prefix := range bech32Prefixes {
		if strings.HasPrefix(asset, prefix) {
			return true
		}
	}
	return false
}

// convertBech32 decodes the account's data part and left-pads it into the
// 20-byte hex space.
func convertBech32(asset string) (common.Address, error) {
	_, data, err := bech32.Decode(asset)
	if err != nil {
		return common.Address{}, err
	}
	converted, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(common.LeftPadBytes(converted, common.AddressLength)), nil
}

func isNativeDenom(asset string) bool {
	if len(asset) >= 20 {
		return false
	}
	lower := strings.ToLower(asset)
	return strings.HasPrefix(lower, "u") ||
		strings.Contains(lower, "atom") ||
		strings.Contains(lower, "osmo")
}

// convertNativeDenom derives a pseudo-address by hashing a namespaced
// string, keeping native denoms disjoint from real contract addresses.
func convertNativeDenom(asset string) (common.Address, error) {
	digest := crypto.Keccak256([]byte("cosmos-native-" + asset))
	return common.BytesToAddress(digest[:common.AddressLength]), nil
}

// convertIBCReference derives the address from the transfer reference hash.
func convertIBCReference(asset string) (common.Address, error) {
	ref := strings.TrimPrefix(asset, "ibc/")
	raw := common.FromHex("0x" + ref)
	if len(raw) < common.AddressLength {
		return common.Address{}, fmt.Errorf("ibc reference hash too short")
	}
	return common.BytesToAddress(raw[:common.AddressLength]), nil
}

func isSolanaPubkey(asset string) bool {
	_, err := solana.PublicKeyFromBase58(asset)
	return err == nil
}

func convertSolanaPubkey(asset string) (common.Address, error) {
	pubkey, err := solana.PublicKeyFromBase58(asset)
	if err != nil {
		return common.Address{}, err
	}
	digest := crypto.Keccak256(pubkey.Bytes())
	return common.BytesToAddress(digest[:common.AddressLength]), nil
}

// convertHashFallback is the last resort for unrecognized references.
func convertHashFallback(asset string) (common.Address, error) {
	digest := crypto.Keccak256([]byte(asset))
	return common.BytesToAddress(digest[:common.AddressLength]), nil
}
