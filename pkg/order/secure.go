package order

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"

	"cross-swap/pkg/types"
)

// RevealWindow is how long a commitment may stay blinded before it expires
// unused.
const RevealWindow = time.Minute

// MEV-protection delay bounds.
const (
	minMEVDelay = 100 * time.Millisecond
	maxMEVDelay = 2000 * time.Millisecond
)

// ValidationResult is the outcome of an execution check. Reason is set only
// when invalid.
type ValidationResult struct {
	IsValid bool
	Reason  string
}

// SafetyReport carries advisory warnings; it never blocks execution.
type SafetyReport struct {
	IsSafe   bool
	Warnings []string
}

// Guard implements the pre-signature commitment and the last-line execution
// checks against the original quote.
type Guard struct {
	now func() time.Time
}

// NewGuard creates a guard with the real clock.
func NewGuard() *Guard {
	return &Guard{now: time.Now}
}

// WithClock overrides the guard's clock; used in tests.
func (g *Guard) WithClock(now func() time.Time) *Guard {
	g.now = now
	return g
}

// CreateCommitment hashes the full order intent, including the absolute
// minimum acceptable output, then blinds the hash with a random salt. The
// blinded commitment can be published before the order itself, leaving a
// front-runner nothing actionable to copy.
func (g *Guard) CreateCommitment(quote *types.Quote, userAddress string, deadline time.Time) (*types.OrderCommitment, error) {
	if err := requireHexAddress(userAddress, "userAddress"); err != nil {
		return nil, err
	}

	var nonce [32]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate commitment nonce: %w", err)
	}

	orderHash := intentHash(quote, userAddress, deadline, nonce)

	var salt [32]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, fmt.Errorf("failed to generate commitment salt: %w", err)
	}
	commitment := crypto.Keccak256Hash(orderHash.Bytes(), salt[:])

	return &types.OrderCommitment{
		OrderHash:         orderHash,
		Commitment:        commitment,
		RevealDeadline:    g.now().Add(RevealWindow),
		ExecutionDeadline: deadline,
	}, nil
}

// intentHash canonically encodes the order intent as 32-byte words. Using a
// fixed field order keeps the hash independent of any serialization library.
func intentHash(quote *types.Quote, userAddress string, deadline time.Time, nonce [32]byte) common.Hash {
	words := [][]byte{
		crypto.Keccak256([]byte(quote.SrcChain.ChainID)),
		crypto.Keccak256([]byte(quote.DstChain.ChainID)),
		crypto.Keccak256([]byte(quote.SrcToken.Address)),
		crypto.Keccak256([]byte(quote.DstToken.Address)),
		crypto.Keccak256([]byte(quote.SrcAmount.String())),
		crypto.Keccak256([]byte(quote.AbsoluteMinAmount.String())),
		common.LeftPadBytes(common.HexToAddress(userAddress).Bytes(), common.HashLength),
		common.BigToHash(big.NewInt(deadline.Unix())).Bytes(),
		nonce[:],
	}

	encoded := make([]byte, 0, len(words)*common.HashLength)
	for _, w := range words {
		encoded = append(encoded, w...)
	}
	return crypto.Keccak256Hash(encoded)
}

// ValidateExecution re-checks a proposed settlement against the quote it was
// priced from. All three checks are mandatory and order-independent; any one
// failing invalidates the execution. This is the last line of defense
// against a counterparty settling at a worse price than quoted.
func (g *Guard) ValidateExecution(quote *types.Quote, actualDstAmount decimal.Decimal) ValidationResult {
	if actualDstAmount.LessThan(quote.AbsoluteMinAmount) {
		return ValidationResult{
			IsValid: false,
			Reason:  fmt.Sprintf("amount %s below absolute minimum %s", actualDstAmount, quote.AbsoluteMinAmount),
		}
	}

	if quote.Expired(g.now()) {
		return ValidationResult{IsValid: false, Reason: "quote has expired"}
	}

	expected := quote.DstAmount
	if expected.IsPositive() {
		hundred := decimal.NewFromInt(100)
		slippage := expected.Sub(actualDstAmount).Div(expected).Mul(hundred)
		if slippage.GreaterThan(quote.MaxSlippage) {
			return ValidationResult{
				IsValid: false,
				Reason: fmt.Sprintf("slippage %s%% exceeds maximum %s%%",
					slippage.Round(2), quote.MaxSlippage),
			}
		}
	}

	return ValidationResult{IsValid: true}
}

// Safety thresholds for CheckSafety.
var (
	priceImpactWarnThreshold = decimal.NewFromInt(2) // percent
	feeWarnThresholdPct      = decimal.NewFromInt(5) // percent of trade value
	expiryWarnWindow         = 30 * time.Second
)

// CheckSafety flags suspicious quote conditions without blocking. The caller
// decides whether to proceed.
func (g *Guard) CheckSafety(quote *types.Quote) SafetyReport {
	var warnings []string

	if quote.PriceImpact.GreaterThan(priceImpactWarnThreshold) {
		warnings = append(warnings, fmt.Sprintf("high price impact: %s%%", quote.PriceImpact))
	}

	if quote.SrcAmountUsd.IsPositive() {
		feePct := quote.TotalFeesUsd.Div(quote.SrcAmountUsd).Mul(decimal.NewFromInt(100))
		if feePct.GreaterThan(feeWarnThresholdPct) {
			warnings = append(warnings, fmt.Sprintf("high fees: %s%% of transaction", feePct.Round(1)))
		}
	}

	if quote.ValidUntil.Sub(g.now()) < expiryWarnWindow {
		warnings = append(warnings, "quote expires very soon")
	}

	return SafetyReport{IsSafe: len(warnings) == 0, Warnings: warnings}
}

// MEVDelay sleeps a random interval between 100ms and 2s before submission,
// making transaction timing harder to predict. Best-effort mitigation only.
// Returns early if the context is cancelled.
func MEVDelay(ctx context.Context) (time.Duration, error) {
	span := big.NewInt(int64(maxMEVDelay - minMEVDelay))
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return 0, fmt.Errorf("failed to pick delay: %w", err)
	}
	delay := minMEVDelay + time.Duration(n.Int64())

	select {
	case <-time.After(delay):
		return delay, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
