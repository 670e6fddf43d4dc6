package types

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Ecosystem identifies the addressing scheme a chain belongs to.
type Ecosystem string

const (
	EcosystemEVM      Ecosystem = "evm"
	EcosystemCosmos   Ecosystem = "cosmos"
	EcosystemSolana   Ecosystem = "solana"
	EcosystemPolkadot Ecosystem = "polkadot"
)

// Token describes an asset on a specific chain. Address is the native
// representation for the token's ecosystem: hex contract address, cosmos
// denom or bech32 account, or base58 pubkey.
type Token struct {
	Address   string    `json:"address"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Decimals  int32     `json:"decimals"`
	ChainID   string    `json:"chain_id"`
	Ecosystem Ecosystem `json:"ecosystem"`
}

// Chain describes a supported blockchain.
type Chain struct {
	ChainID     string    `json:"chain_id"`
	Name        string    `json:"name"`
	Ecosystem   Ecosystem `json:"ecosystem"`
	RPCUrl      string    `json:"rpc_url"`
	NativeToken Token     `json:"native_token"`
	BlockTime   int       `json:"block_time"` // seconds
}

// TrustLevel grades how much external trust a bridge route requires.
type TrustLevel string

const (
	TrustHigh   TrustLevel = "high"
	TrustMedium TrustLevel = "medium"
	TrustLow    TrustLevel = "low"
)

// BridgeRoute is one way of moving value between two ecosystems.
type BridgeRoute struct {
	Protocol         string          `json:"protocol"`
	Name             string          `json:"name"`
	EstimatedMinutes int             `json:"estimated_minutes"`
	BaseFee          decimal.Decimal `json:"base_fee"`    // in source currency
	FeePercent       decimal.Decimal `json:"fee_percent"` // 0.1 = 0.1%
	MinAmount        decimal.Decimal `json:"min_amount"`
	MaxAmount        decimal.Decimal `json:"max_amount"`
	TrustLevel       TrustLevel      `json:"trust_level"`
	Active           bool            `json:"active"`
}

// Quote is an immutable, time-bounded priced proposal for a cross-chain
// trade. Any later execution must be validated against the same instance; a
// stale quote is superseded by requesting a fresh one, never mutated.
type Quote struct {
	ID string `json:"quote_id"`

	SrcChain Chain `json:"src_chain"`
	DstChain Chain `json:"dst_chain"`
	SrcToken Token `json:"src_token"`
	DstToken Token `json:"dst_token"`

	SrcAmount    decimal.Decimal `json:"src_amount"`
	DstAmount    decimal.Decimal `json:"dst_amount"`     // estimated output after fees
	MinDstAmount decimal.Decimal `json:"min_dst_amount"` // guaranteed minimum after slippage
	// AbsoluteMinAmount is the hard floor committed to inside the order
	// commitment; execution below it is always rejected.
	AbsoluteMinAmount decimal.Decimal `json:"absolute_min_amount"`

	SrcTokenUsdPrice decimal.Decimal `json:"src_token_usd_price"`
	DstTokenUsdPrice decimal.Decimal `json:"dst_token_usd_price"`
	SrcAmountUsd     decimal.Decimal `json:"src_amount_usd"`
	DstAmountUsd     decimal.Decimal `json:"dst_amount_usd"`

	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	PriceImpact  decimal.Decimal `json:"price_impact"` // percent
	MaxSlippage  decimal.Decimal `json:"max_slippage"` // percent

	BridgeFee    decimal.Decimal `json:"bridge_fee"`
	SrcGasFee    decimal.Decimal `json:"src_gas_fee"`
	DstGasFee    decimal.Decimal `json:"dst_gas_fee"`
	TotalFees    decimal.Decimal `json:"total_fees"`
	TotalFeesUsd decimal.Decimal `json:"total_fees_usd"`

	Route            BridgeRoute `json:"route"`
	EstimatedMinutes int         `json:"estimated_minutes"`

	ValidUntil time.Time `json:"valid_until"`
}

// Expired reports whether the quote's validity window has passed.
func (q *Quote) Expired(now time.Time) bool {
	return now.After(q.ValidUntil)
}

// OrderStatus is the settlement layer's view of an order.
type OrderStatus string

const (
	StatusPending  OrderStatus = "pending"
	StatusExecuted OrderStatus = "executed"
	StatusExpired  OrderStatus = "expired"
	StatusRefunded OrderStatus = "refunded"
)

// Terminal reports whether no further status transitions are possible.
func (s OrderStatus) Terminal() bool {
	return s == StatusExecuted || s == StatusExpired || s == StatusRefunded
}

// AuctionDetails carries the resolver auction parameters embedded in an order.
type AuctionDetails struct {
	StartTime       int64 `json:"start_time"`
	Duration        int64 `json:"duration"` // seconds
	InitialRateBump int64 `json:"initial_rate_bump"`
}

// WhitelistEntry marks a resolver allowed to fill the order from a given time.
type WhitelistEntry struct {
	Address   common.Address `json:"address"`
	AllowFrom int64          `json:"allow_from"`
}

// OrderCommitment blinds an order's parameters behind a commitment hash
// before the full order is revealed, shrinking the front-running surface.
type OrderCommitment struct {
	OrderHash         common.Hash `json:"order_hash"`
	Commitment        common.Hash `json:"commitment"`
	RevealDeadline    time.Time   `json:"reveal_deadline"`
	ExecutionDeadline time.Time   `json:"execution_deadline"`
}

// SubmitRequest is the payload the relayer accepts for a signed order.
type SubmitRequest struct {
	FromChain   string           `json:"fromChain"`
	ToChain     string           `json:"toChain"`
	FromToken   string           `json:"fromToken"`
	ToToken     string           `json:"toToken"`
	Amount      string           `json:"amount"`
	UserAddress string           `json:"userAddress"`
	Signature   string           `json:"signature"`
	Timelock    map[string]int64 `json:"timelock"`
	SecretHash  string           `json:"secretHash"`
}

// ReadyFill is a fill index whose escrows on both chains are locked and may
// safely receive its secret.
type ReadyFill struct {
	Idx int `json:"idx"`
}

// AmountToUnits converts a display amount to the asset's smallest unit.
func AmountToUnits(amount decimal.Decimal, decimals int32) *big.Int {
	return amount.Shift(decimals).Truncate(0).BigInt()
}

// UnitsToAmount converts from smallest units back to the display amount.
func UnitsToAmount(units *big.Int, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(units, 0).Shift(-decimals)
}
