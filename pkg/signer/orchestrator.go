// Package signer drives the ordered wallet-signature sequence an order
// needs before submission: token approval, bridge authorization, order
// confirmation. The steps are strictly sequential and each blocks on the
// wallet; a rejection anywhere is terminal for the whole sequence.
package signer

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/sirupsen/logrus"

	"cross-swap/logger"
	"cross-swap/pkg/types"
	"cross-swap/pkg/wallet"
)

// State is the orchestrator's position in the signature sequence.
type State string

const (
	StateNotStarted        State = "not_started"
	StateApprovalRequested State = "approval_requested"
	StateApprovalSigned    State = "approval_signed"
	StateBridgeRequested   State = "bridge_requested"
	StateBridgeSigned      State = "bridge_signed"
	StateOrderRequested    State = "order_requested"
	StateOrderSigned       State = "order_signed" // terminal success
	StateFailed            State = "failed"       // terminal failure
)

// Terminal reports whether the sequence is finished.
func (s State) Terminal() bool {
	return s == StateOrderSigned || s == StateFailed
}

// Signatures holds whatever the sequence collected. After a failure the
// earlier signatures remain populated for inspection but are not resumable:
// later payloads commit to values fixed at order-build time, so a partial
// set can only be retried by restarting the sequence against a re-validated
// quote.
type Signatures struct {
	Approval string
	Bridge   string
	Order    string
}

// Params carries the per-order inputs the signature payloads commit to.
type Params struct {
	SpenderAddress string // settlement/bridge contract authorized by the permit
	PermitNonce    uint64
	Deadline       time.Time
}

// Orchestrator walks a wallet through the three-step sequence.
type Orchestrator struct {
	wallet wallet.Wallet
	state  State
	sigs   Signatures
	log    *logrus.Entry
}

// New creates an orchestrator in the NotStarted state.
func New(w wallet.Wallet, log *logger.Log) *Orchestrator {
	if log == nil {
		log = logger.Discard()
	}
	return &Orchestrator{
		wallet: w,
		state:  StateNotStarted,
		log:    log.WithComponent("signer"),
	}
}

// State returns the current sequence state.
func (o *Orchestrator) State() State {
	return o.state
}

// Signatures returns the signatures collected so far.
func (o *Orchestrator) Signatures() Signatures {
	return o.sigs
}

// Run collects the three signatures in order. Any wallet error or context
// cancellation moves the sequence to Failed and stops; nothing is retried
// silently. A failed orchestrator cannot be rerun: build a new one after
// re-validating the quote.
func (o *Orchestrator) Run(ctx context.Context, quote *types.Quote, params Params) (Signatures, error) {
	if o.state != StateNotStarted {
		return o.sigs, fmt.Errorf("signature sequence already ran (state %s); restart with a fresh orchestrator", o.state)
	}

	steps := []struct {
		request State
		signed  State
		name    string
		sign    func() (string, error)
		out     *string
	}{
		{StateApprovalRequested, StateApprovalSigned, "approval", func() (string, error) {
			return o.signApproval(quote, params)
		}, &o.sigs.Approval},
		{StateBridgeRequested, StateBridgeSigned, "bridge", func() (string, error) {
			return o.signBridge(quote, params)
		}, &o.sigs.Bridge},
		{StateOrderRequested, StateOrderSigned, "order", func() (string, error) {
			return o.signOrder(quote)
		}, &o.sigs.Order},
	}

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			o.state = StateFailed
			return o.sigs, fmt.Errorf("signature sequence cancelled at step %d/3: %w", i+1, err)
		}

		o.state = step.request
		o.log.WithFields(logger.Fields{"step": i + 1, "kind": step.name}).Info("requesting signature")

		sig, err := step.sign()
		if err != nil {
			o.state = StateFailed
			return o.sigs, fmt.Errorf("%s signature failed at step %d/3: %w", step.name, i+1, err)
		}

		*step.out = sig
		o.state = step.signed
	}

	return o.sigs, nil
}

// signApproval builds and signs the EIP-2612 permit authorizing the
// settlement contract to move the source asset.
func (o *Orchestrator) signApproval(quote *types.Quote, params Params) (string, error) {
	chainID, err := strconv.ParseInt(quote.SrcChain.ChainID, 10, 64)
	if err != nil {
		return "", fmt.Errorf("source chain id %q is not numeric: %w", quote.SrcChain.ChainID, err)
	}
	if !common.IsHexAddress(params.SpenderAddress) {
		return "", fmt.Errorf("invalid address in spenderAddress: %s", params.SpenderAddress)
	}

	value := types.AmountToUnits(quote.SrcAmount, quote.SrcToken.Decimals)

	// The permit layout follows the settlement layer's published schema:
	// the canonical five-field EIP-2612 type.
	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"Permit": {
				{Name: "owner", Type: "address"},
				{Name: "spender", Type: "address"},
				{Name: "value", Type: "uint256"},
				{Name: "nonce", Type: "uint256"},
				{Name: "deadline", Type: "uint256"},
			},
		},
		PrimaryType: "Permit",
		Domain: apitypes.TypedDataDomain{
			Name:              quote.SrcToken.Name,
			Version:           "1",
			ChainId:           math.NewHexOrDecimal256(chainID),
			VerifyingContract: quote.SrcToken.Address,
		},
		Message: apitypes.TypedDataMessage{
			"owner":    o.wallet.Address().Hex(),
			"spender":  common.HexToAddress(params.SpenderAddress).Hex(),
			"value":    (*math.HexOrDecimal256)(value),
			"nonce":    (*math.HexOrDecimal256)(new(big.Int).SetUint64(params.PermitNonce)),
			"deadline": (*math.HexOrDecimal256)(big.NewInt(params.Deadline.Unix())),
		},
	}

	return o.wallet.SignTypedData(typedData)
}

// signBridge signs a human-readable attestation of the bridge parameters.
func (o *Orchestrator) signBridge(quote *types.Quote, params Params) (string, error) {
	message := fmt.Sprintf(
		"Bridge %s %s from %s to %s\n\nFees: %s %s\nExpected: %s %s\nDeadline: %d",
		quote.SrcAmount, quote.SrcToken.Symbol,
		quote.SrcChain.Name, quote.DstChain.Name,
		quote.TotalFees, quote.SrcToken.Symbol,
		quote.MinDstAmount, quote.DstToken.Symbol,
		params.Deadline.Unix(),
	)
	return o.wallet.SignMessage([]byte(message))
}

// signOrder signs the final order confirmation committing to the quote id,
// route and minimum-receive guarantee.
func (o *Orchestrator) signOrder(quote *types.Quote) (string, error) {
	message := fmt.Sprintf(
		"Confirm Cross-Chain Order\n\nQuote ID: %s\nRoute: %s via %s\nAmount: %s %s\nMinimum Receive: %s %s",
		quote.ID,
		quote.SrcChain.Name+" -> "+quote.DstChain.Name, quote.Route.Name,
		quote.SrcAmount, quote.SrcToken.Symbol,
		quote.MinDstAmount, quote.DstToken.Symbol,
	)
	return o.wallet.SignMessage([]byte(message))
}
