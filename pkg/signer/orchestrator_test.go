package signer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cross-swap/pkg/types"
)

// fakeWallet signs with canned strings and can be told to reject a given
// call number (1-based across both signing methods).
type fakeWallet struct {
	calls    int
	rejectAt int

	typedData []apitypes.TypedData
	messages  []string
}

func (w *fakeWallet) Address() common.Address {
	return common.HexToAddress("0x39d7835Bb1Da816D1c45a71f2ea0653816B2B6f8")
}

func (w *fakeWallet) SignTypedData(td apitypes.TypedData) (string, error) {
	w.calls++
	if w.calls == w.rejectAt {
		return "", errors.New("user rejected request")
	}
	w.typedData = append(w.typedData, td)
	return "0xtyped", nil
}

func (w *fakeWallet) SignMessage(message []byte) (string, error) {
	w.calls++
	if w.calls == w.rejectAt {
		return "", errors.New("user rejected request")
	}
	w.messages = append(w.messages, string(message))
	return "0xpersonal", nil
}

func signerQuote() *types.Quote {
	return &types.Quote{
		ID: "quote_test",
		SrcChain: types.Chain{
			ChainID: "11155111",
			Name:    "Sepolia",
		},
		DstChain: types.Chain{
			ChainID: "cosmoshub-4",
			Name:    "Cosmos Hub",
		},
		SrcToken: types.Token{
			Address:  "0xfFf9976782d46CC05630D1f6eBAb18b2324d6B14",
			Symbol:   "WETH",
			Name:     "Wrapped Ether",
			Decimals: 18,
		},
		DstToken: types.Token{
			Address:  "uatom",
			Symbol:   "ATOM",
			Decimals: 6,
		},
		Route:        types.BridgeRoute{Name: "wormhole"},
		SrcAmount:    decimal.NewFromInt(1),
		DstAmount:    decimal.NewFromInt(100),
		MinDstAmount: decimal.NewFromInt(99),
		TotalFees:    decimal.RequireFromString("0.002"),
		ValidUntil:   time.Now().Add(5 * time.Minute),
	}
}

func signerParams() Params {
	return Params{
		SpenderAddress: "0xf58B8c71986d5E412BA260d686D5CE062274bfBd",
		PermitNonce:    7,
		Deadline:       time.Now().Add(time.Hour),
	}
}

func TestRunCollectsAllThreeSignatures(t *testing.T) {
	w := &fakeWallet{}
	o := New(w, nil)

	sigs, err := o.Run(context.Background(), signerQuote(), signerParams())
	require.NoError(t, err)

	assert.Equal(t, StateOrderSigned, o.State())
	assert.True(t, o.State().Terminal())
	assert.Equal(t, "0xtyped", sigs.Approval)
	assert.Equal(t, "0xpersonal", sigs.Bridge)
	assert.Equal(t, "0xpersonal", sigs.Order)

	// The approval is a Permit over the source token.
	require.Len(t, w.typedData, 1)
	assert.Equal(t, "Permit", w.typedData[0].PrimaryType)
	assert.Equal(t, "Wrapped Ether", w.typedData[0].Domain.Name)

	// The two personal messages cover the bridge and the final order.
	require.Len(t, w.messages, 2)
	assert.Contains(t, w.messages[0], "Bridge 1 WETH")
	assert.Contains(t, w.messages[1], "quote_test")
}

func TestRunRejectionAtBridgeStepIsTerminal(t *testing.T) {
	w := &fakeWallet{rejectAt: 2}
	o := New(w, nil)

	sigs, err := o.Run(context.Background(), signerQuote(), signerParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bridge signature failed")

	// Failed, but the approval signature gathered before the rejection
	// stays visible.
	assert.Equal(t, StateFailed, o.State())
	assert.True(t, o.State().Terminal())
	assert.Equal(t, "0xtyped", sigs.Approval)
	assert.Empty(t, sigs.Bridge)
	assert.Empty(t, sigs.Order)
}

func TestRunDoesNotRestartAfterFailure(t *testing.T) {
	w := &fakeWallet{rejectAt: 1}
	o := New(w, nil)

	_, err := o.Run(context.Background(), signerQuote(), signerParams())
	require.Error(t, err)
	require.Equal(t, StateFailed, o.State())

	w.rejectAt = 0
	_, err = o.Run(context.Background(), signerQuote(), signerParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already ran")
	assert.Equal(t, StateFailed, o.State())
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := New(&fakeWallet{}, nil)
	_, err := o.Run(ctx, signerQuote(), signerParams())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateFailed, o.State())
}

func TestRunRejectsNonNumericChainID(t *testing.T) {
	q := signerQuote()
	q.SrcChain.ChainID = "cosmoshub-4"

	o := New(&fakeWallet{}, nil)
	_, err := o.Run(context.Background(), q, signerParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not numeric")
	assert.Equal(t, StateFailed, o.State())
}
