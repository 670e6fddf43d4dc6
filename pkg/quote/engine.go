// Package quote prices cross-ecosystem trades: it resolves token metadata,
// fetches USD prices, selects a bridge route and produces an immutable,
// time-bounded quote with a guaranteed minimum output.
package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cross-swap/logger"
	"cross-swap/pkg/types"
)

// QuoteTTL is how long a quote remains executable.
const QuoteTTL = 5 * time.Minute

// DefaultSlippage is the maximum tolerated slippage in percent when the
// caller does not specify one.
var DefaultSlippage = decimal.NewFromInt(1)

// Params describes a quote request.
type Params struct {
	SrcChain string // short name or chain id
	DstChain string
	SrcToken string // address or denom
	DstToken string
	Amount   decimal.Decimal
	Slippage decimal.Decimal // percent; zero means DefaultSlippage
}

// Engine produces quotes. All collaborators are injected; the engine holds
// no global state and never mutates a quote it has returned.
type Engine struct {
	oracle Oracle
	gas    GasEstimator
	routes []types.BridgeRoute
	chains map[string]types.Chain
	now    func() time.Time
	log    *logrus.Entry
}

// NewEngine wires a quote engine. Nil routes or chains fall back to the
// built-in tables; nil now falls back to time.Now.
func NewEngine(oracle Oracle, gas GasEstimator, routes []types.BridgeRoute, chains map[string]types.Chain, log *logger.Log) *Engine {
	if routes == nil {
		routes = DefaultRoutes()
	}
	if chains == nil {
		chains = DefaultChains()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Engine{
		oracle: oracle,
		gas:    gas,
		routes: routes,
		chains: chains,
		now:    time.Now,
		log:    log.WithComponent("quote"),
	}
}

// WithClock overrides the engine's clock; used in tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// GetQuote builds a quote for the requested pair and amount.
//
// Metadata lookups degrade to an unknown-token placeholder; a missing USD
// price on either leg fails the quote outright, since every downstream fee
// and slippage computation depends on it.
func (e *Engine) GetQuote(ctx context.Context, params Params) (*types.Quote, error) {
	if !params.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be greater than 0")
	}

	slippage := params.Slippage
	if slippage.IsZero() {
		slippage = DefaultSlippage
	}
	if slippage.IsNegative() || slippage.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("slippage must be between 0 and 100 percent")
	}

	srcChain, err := ResolveChain(e.chains, params.SrcChain)
	if err != nil {
		return nil, fmt.Errorf("source chain: %w", err)
	}
	dstChain, err := ResolveChain(e.chains, params.DstChain)
	if err != nil {
		return nil, fmt.Errorf("destination chain: %w", err)
	}

	srcToken := e.resolveToken(ctx, srcChain, params.SrcToken)
	dstToken := e.resolveToken(ctx, dstChain, params.DstToken)

	srcPrice, err := e.oracle.GetUsdPrice(ctx, srcToken.Symbol)
	if err != nil {
		return nil, fmt.Errorf("source token %s: %w", srcToken.Symbol, err)
	}
	dstPrice, err := e.oracle.GetUsdPrice(ctx, dstToken.Symbol)
	if err != nil {
		return nil, fmt.Errorf("destination token %s: %w", dstToken.Symbol, err)
	}

	exchangeRate := srcPrice.Div(dstPrice)
	dstAmountRaw := params.Amount.Mul(exchangeRate)

	route, err := SelectRoute(e.routes, params.Amount)
	if err != nil {
		return nil, err
	}

	bridgeFee := BridgeFee(route, params.Amount)
	srcGasFee, err := e.gas.EstimateGasFee(ctx, srcChain)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate source gas fee: %w", err)
	}
	dstGasFee, err := e.gas.EstimateGasFee(ctx, dstChain)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate destination gas fee: %w", err)
	}

	totalFees := bridgeFee.Add(srcGasFee).Add(dstGasFee)
	dstAmount := dstAmountRaw.Sub(totalFees)
	if !dstAmount.IsPositive() {
		return nil, fmt.Errorf("fees %s exceed output amount %s", totalFees, dstAmountRaw)
	}

	hundred := decimal.NewFromInt(100)
	minDstAmount := dstAmount.Mul(hundred.Sub(slippage)).Div(hundred)

	q := &types.Quote{
		ID:                "quote_" + uuid.NewString(),
		SrcChain:          srcChain,
		DstChain:          dstChain,
		SrcToken:          srcToken,
		DstToken:          dstToken,
		SrcAmount:         params.Amount,
		DstAmount:         dstAmount,
		MinDstAmount:      minDstAmount,
		AbsoluteMinAmount: minDstAmount,
		SrcTokenUsdPrice:  srcPrice,
		DstTokenUsdPrice:  dstPrice,
		SrcAmountUsd:      params.Amount.Mul(srcPrice),
		DstAmountUsd:      dstAmount.Mul(dstPrice),
		ExchangeRate:      exchangeRate,
		PriceImpact:       priceImpact(params.Amount),
		MaxSlippage:       slippage,
		BridgeFee:         bridgeFee,
		SrcGasFee:         srcGasFee,
		DstGasFee:         dstGasFee,
		TotalFees:         totalFees,
		TotalFeesUsd:      totalFees.Mul(srcPrice),
		Route:             route,
		EstimatedMinutes:  route.EstimatedMinutes,
		ValidUntil:        e.now().Add(QuoteTTL),
	}

	e.log.WithFields(logger.Fields{
		"quote_id": q.ID,
		"route":    route.Protocol,
		"rate":     exchangeRate.String(),
		"dst":      dstAmount.String(),
	}).Debug("quote built")

	return q, nil
}

// resolveToken falls through known-token table, oracle metadata lookup and
// finally an unknown-token placeholder. It never fails the quote on its own.
func (e *Engine) resolveToken(ctx context.Context, chain types.Chain, address string) types.Token {
	if token, ok := lookupKnownToken(chain, address); ok {
		return token
	}

	token, err := e.oracle.GetTokenMetadata(ctx, chain, address)
	if err == nil {
		return token
	}
	e.log.WithFields(logger.Fields{"chain": chain.ChainID, "address": address}).
		WithError(err).Debug("metadata lookup failed, using placeholder")

	return unknownToken(chain, address)
}

// priceImpact bands the impact by trade size. A stand-in for pool-depth
// analysis: larger trades always report at least as much impact.
func priceImpact(amount decimal.Decimal) decimal.Decimal {
	switch {
	case amount.LessThan(decimal.NewFromInt(1)):
		return decimal.RequireFromString("0.1")
	case amount.LessThan(decimal.NewFromInt(10)):
		return decimal.RequireFromString("0.3")
	case amount.LessThan(decimal.NewFromInt(100)):
		return decimal.RequireFromString("0.8")
	default:
		return decimal.RequireFromString("1.5")
	}
}
