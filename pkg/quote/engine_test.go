package quote

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cross-swap/pkg/types"
)

type fakeOracle struct {
	prices   map[string]decimal.Decimal
	metadata map[string]types.Token
}

func (f *fakeOracle) GetUsdPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if price, ok := f.prices[symbol]; ok {
		return price, nil
	}
	return decimal.Zero, ErrPriceUnavailable
}

func (f *fakeOracle) GetTokenMetadata(ctx context.Context, chain types.Chain, address string) (types.Token, error) {
	if token, ok := f.metadata[address]; ok {
		return token, nil
	}
	return types.Token{}, ErrMetadataUnavailable
}

func zeroGas() GasEstimator {
	return NewStaticGasEstimator(map[string]decimal.Decimal{
		"11155111":    decimal.Zero,
		"cosmoshub-4": decimal.Zero,
		"osmosis-1":   decimal.Zero,
	})
}

func freeRoute(maxAmount string) types.BridgeRoute {
	return types.BridgeRoute{
		Protocol:         "test",
		Name:             "Test Bridge",
		EstimatedMinutes: 10,
		BaseFee:          decimal.Zero,
		FeePercent:       decimal.Zero,
		MinAmount:        decimal.Zero,
		MaxAmount:        decimal.RequireFromString(maxAmount),
		TrustLevel:       types.TrustHigh,
		Active:           true,
	}
}

func TestGetQuoteAppliesSlippage(t *testing.T) {
	oracle := &fakeOracle{prices: map[string]decimal.Decimal{
		"ETH":  decimal.NewFromInt(2000),
		"ATOM": decimal.NewFromInt(1),
	}}

	// Zero-fee route so the raw conversion survives intact.
	engine := NewEngine(oracle, zeroGas(), []types.BridgeRoute{freeRoute("1000")}, nil, nil)

	q, err := engine.GetQuote(context.Background(), Params{
		SrcChain: "sepolia",
		DstChain: "cosmoshub",
		SrcToken: nativePlaceholder,
		DstToken: "uatom",
		Amount:   decimal.NewFromInt(100),
		Slippage: decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	assert.True(t, q.DstAmount.Equal(decimal.NewFromInt(200000)), "dst=%s", q.DstAmount)
	expectedMin := q.DstAmount.Mul(decimal.RequireFromString("0.99"))
	assert.True(t, q.MinDstAmount.Equal(expectedMin), "min=%s", q.MinDstAmount)
	assert.True(t, q.MinDstAmount.LessThan(q.DstAmount))
	assert.True(t, q.AbsoluteMinAmount.Equal(q.MinDstAmount))
	assert.True(t, q.ExchangeRate.Equal(decimal.NewFromInt(2000)))
}

func TestGetQuoteNoRouteForAmount(t *testing.T) {
	oracle := &fakeOracle{prices: map[string]decimal.Decimal{
		"ETH":  decimal.NewFromInt(2000),
		"ATOM": decimal.NewFromInt(1),
	}}
	engine := NewEngine(oracle, zeroGas(), []types.BridgeRoute{freeRoute("2000")}, nil, nil)

	_, err := engine.GetQuote(context.Background(), Params{
		SrcChain: "sepolia",
		DstChain: "cosmoshub",
		SrcToken: nativePlaceholder,
		DstToken: "uatom",
		Amount:   decimal.NewFromInt(5000),
	})
	require.ErrorIs(t, err, ErrNoRoute)
}

func TestGetQuotePriceUnavailableIsFatal(t *testing.T) {
	oracle := &fakeOracle{prices: map[string]decimal.Decimal{
		"ETH": decimal.NewFromInt(2000),
		// no ATOM price
	}}
	engine := NewEngine(oracle, zeroGas(), []types.BridgeRoute{freeRoute("1000")}, nil, nil)

	_, err := engine.GetQuote(context.Background(), Params{
		SrcChain: "sepolia",
		DstChain: "cosmoshub",
		SrcToken: nativePlaceholder,
		DstToken: "uatom",
		Amount:   decimal.NewFromInt(10),
	})
	require.ErrorIs(t, err, ErrPriceUnavailable)
}

func TestGetQuoteUnknownTokenDegrades(t *testing.T) {
	oracle := &fakeOracle{prices: map[string]decimal.Decimal{
		"ETH":     decimal.NewFromInt(2000),
		"UNKNOWN": decimal.NewFromInt(1),
	}}
	engine := NewEngine(oracle, zeroGas(), []types.BridgeRoute{freeRoute("1000")}, nil, nil)

	q, err := engine.GetQuote(context.Background(), Params{
		SrcChain: "sepolia",
		DstChain: "cosmoshub",
		SrcToken: nativePlaceholder,
		DstToken: "ufoo", // not in any table
		Amount:   decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "UNKNOWN", q.DstToken.Symbol)
	assert.Equal(t, int32(6), q.DstToken.Decimals)
}

func TestGetQuoteStampsValidity(t *testing.T) {
	oracle := &fakeOracle{prices: map[string]decimal.Decimal{
		"ETH":  decimal.NewFromInt(2000),
		"ATOM": decimal.NewFromInt(1),
	}}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	engine := NewEngine(oracle, zeroGas(), []types.BridgeRoute{freeRoute("1000")}, nil, nil).
		WithClock(func() time.Time { return now })

	q, err := engine.GetQuote(context.Background(), Params{
		SrcChain: "sepolia",
		DstChain: "cosmoshub",
		SrcToken: nativePlaceholder,
		DstToken: "uatom",
		Amount:   decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, now.Add(QuoteTTL), q.ValidUntil)
	assert.NotEmpty(t, q.ID)
	assert.False(t, q.Expired(now))
	assert.True(t, q.Expired(now.Add(QuoteTTL+time.Second)))
}

func TestGetQuoteRejectsNonPositiveAmount(t *testing.T) {
	engine := NewEngine(&fakeOracle{}, zeroGas(), []types.BridgeRoute{freeRoute("1000")}, nil, nil)
	_, err := engine.GetQuote(context.Background(), Params{
		SrcChain: "sepolia",
		DstChain: "cosmoshub",
		SrcToken: nativePlaceholder,
		DstToken: "uatom",
		Amount:   decimal.Zero,
	})
	require.Error(t, err)
}

func TestGetQuoteUnsupportedChain(t *testing.T) {
	engine := NewEngine(&fakeOracle{}, zeroGas(), nil, nil, nil)
	_, err := engine.GetQuote(context.Background(), Params{
		SrcChain: "dogecoin",
		DstChain: "cosmoshub",
		SrcToken: nativePlaceholder,
		DstToken: "uatom",
		Amount:   decimal.NewFromInt(1),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported chain")
}
