// Package order assembles immutable cross-chain swap orders from a quote
// and user intent, and guards their execution: a blinded pre-commitment
// before signing, and bound checks before settlement.
package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"

	"cross-swap/pkg/hashlock"
	"cross-swap/pkg/timelock"
	"cross-swap/pkg/types"
)

// Order is an immutable cross-chain swap order descriptor. Once built it is
// only read; its identity is the deterministic hash of its canonical
// encoding.
type Order struct {
	Maker        common.Address
	Receiver     common.Address
	MakerAsset   common.Address
	TakerAsset   common.Address
	MakingAmount *big.Int
	TakingAmount *big.Int
	Salt         common.Hash

	HashLock  common.Hash
	Timelocks timelock.Schedule

	SrcChainID string
	DstChainID string
	Ecosystem  types.Ecosystem // taker-side ecosystem tag

	Auction            types.AuctionDetails
	Whitelist          []types.WhitelistEntry
	Nonce              *big.Int
	AllowPartialFills  bool
	AllowMultipleFills bool
}

// Built couples an order with its hash and the secrets that unlock it. The
// secrets stay in session memory until the monitor releases them.
type Built struct {
	Order   *Order
	Hash    common.Hash
	Secrets []hashlock.Secret
}

// BuilderConfig carries the chain-level addresses an order embeds.
type BuilderConfig struct {
	SrcEscrowFactory string
	DstEscrowFactory string
	ResolverAddress  string
}

// Builder constructs orders. It performs no network calls; everything it
// needs arrives through the quote and its own configuration.
type Builder struct {
	cfg BuilderConfig
	now func() time.Time
}

// NewBuilder creates an order builder.
func NewBuilder(cfg BuilderConfig) *Builder {
	return &Builder{cfg: cfg, now: time.Now}
}

// WithClock overrides the builder's clock; used in tests.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build assembles an order from a quote for the given maker wallet.
//
// Every address-shaped input is validated up front so a bad configuration
// fails here, with the offending field named, rather than surfacing later as
// an opaque signing or settlement error.
func (b *Builder) Build(quote *types.Quote, walletAddress string, preset timelock.Preset) (*Built, error) {
	if err := requireHexAddress(b.cfg.SrcEscrowFactory, "srcEscrowFactory"); err != nil {
		return nil, err
	}
	if err := requireHexAddress(b.cfg.DstEscrowFactory, "dstEscrowFactory"); err != nil {
		return nil, err
	}
	if err := requireHexAddress(b.cfg.ResolverAddress, "resolverAddress"); err != nil {
		return nil, err
	}
	if err := requireHexAddress(walletAddress, "walletAddress"); err != nil {
		return nil, err
	}

	makerAsset, err := resolveMakerAsset(quote)
	if err != nil {
		return nil, err
	}
	takerAsset, err := ResolveAssetAddress(quote.DstToken.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid address in takerAsset: %w", err)
	}

	secrets, err := hashlock.GenerateSecrets(preset.SecretsCount())
	if err != nil {
		return nil, err
	}
	lock, err := hashlock.New(secrets)
	if err != nil {
		return nil, err
	}

	now := b.now()
	schedule := timelock.Build(now, timelock.PresetDurations(preset))
	if err := schedule.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timelock schedule: %w", err)
	}

	maker := common.HexToAddress(walletAddress)
	salt, err := makeSalt(maker, now)
	if err != nil {
		return nil, err
	}
	nonce, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 40))
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	multiFill := len(secrets) > 1
	o := &Order{
		Maker:        maker,
		Receiver:     maker,
		MakerAsset:   makerAsset,
		TakerAsset:   takerAsset,
		MakingAmount: types.AmountToUnits(quote.SrcAmount, quote.SrcToken.Decimals),
		TakingAmount: types.AmountToUnits(quote.DstAmount, quote.DstToken.Decimals),
		Salt:         salt,
		HashLock:     lock,
		Timelocks:    schedule,
		SrcChainID:   quote.SrcChain.ChainID,
		DstChainID:   quote.DstChain.ChainID,
		Ecosystem:    quote.DstChain.Ecosystem,
		Auction: types.AuctionDetails{
			StartTime:       now.Unix(),
			Duration:        3600,
			InitialRateBump: 0,
		},
		Whitelist: []types.WhitelistEntry{
			{Address: common.HexToAddress(b.cfg.ResolverAddress), AllowFrom: 0},
		},
		Nonce:              nonce,
		AllowPartialFills:  multiFill,
		AllowMultipleFills: multiFill,
	}

	return &Built{Order: o, Hash: o.HashValue(), Secrets: secrets}, nil
}

// HashValue computes the order's deterministic identity: keccak256 over the
// canonical 32-byte-word encoding of its core fields.
func (o *Order) HashValue() common.Hash {
	encoded := make([]byte, 0, 8*common.HashLength)
	encoded = append(encoded, common.LeftPadBytes(o.Maker.Bytes(), common.HashLength)...)
	encoded = append(encoded, common.LeftPadBytes(o.Receiver.Bytes(), common.HashLength)...)
	encoded = append(encoded, common.LeftPadBytes(o.MakerAsset.Bytes(), common.HashLength)...)
	encoded = append(encoded, common.LeftPadBytes(o.TakerAsset.Bytes(), common.HashLength)...)
	encoded = append(encoded, common.LeftPadBytes(o.MakingAmount.Bytes(), common.HashLength)...)
	encoded = append(encoded, common.LeftPadBytes(o.TakingAmount.Bytes(), common.HashLength)...)
	encoded = append(encoded, o.Salt.Bytes()...)
	encoded = append(encoded, o.HashLock.Bytes()...)
	return crypto.Keccak256Hash(encoded)
}

// resolveMakerAsset picks the hex source-asset address, substituting the
// native placeholder when the source token is the chain's native currency.
func resolveMakerAsset(quote *types.Quote) (common.Address, error) {
	addr := quote.SrcToken.Address
	if !common.IsHexAddress(addr) {
		return common.Address{}, fmt.Errorf("invalid address in makerAsset: %s", addr)
	}
	return common.HexToAddress(addr), nil
}

func requireHexAddress(addr, field string) error {
	if addr == "" || addr == "0" || addr == "0x0" || !common.IsHexAddress(addr) {
		return fmt.Errorf("invalid address in %s: %s", field, addr)
	}
	return nil
}

// makeSalt derives a per-order salt from the maker, the build time and
// fresh randomness.
func makeSalt(maker common.Address, now time.Time) (common.Hash, error) {
	var random [32]byte
	if _, err := rand.Read(random[:]); err != nil {
		return common.Hash{}, fmt.Errorf("failed to generate salt: %w", err)
	}

	ts := common.BigToHash(big.NewInt(now.UnixMilli()))
	return crypto.Keccak256Hash(
		common.LeftPadBytes(maker.Bytes(), common.HashLength),
		ts.Bytes(),
		random[:],
	), nil
}

// SecretHashes returns the per-fill secret hashes for relayer submission.
func (b *Built) SecretHashes() []common.Hash {
	hashes := make([]common.Hash, len(b.Secrets))
	for i, s := range b.Secrets {
		hashes[i] = hashlock.HashSecret(s)
	}
	return hashes
}

// TakingAmountDecimal is the taking amount in display units.
func (o *Order) TakingAmountDecimal(decimals int32) decimal.Decimal {
	return types.UnitsToAmount(o.TakingAmount, decimals)
}
