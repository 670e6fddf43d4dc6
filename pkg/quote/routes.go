package quote

import (
	"fmt"

	"github.com/shopspring/decimal"

	"cross-swap/pkg/types"
)

// ErrNoRoute is returned when no active route's bounds contain the amount.
var ErrNoRoute = fmt.Errorf("no available routes for this amount")

// DefaultRoutes is the built-in bridge route table.
func DefaultRoutes() []types.BridgeRoute {
	return []types.BridgeRoute{
		{
			Protocol:         "gravity",
			Name:             "Gravity Bridge",
			EstimatedMinutes: 15,
			BaseFee:          decimal.RequireFromString("0.001"),
			FeePercent:       decimal.RequireFromString("0.1"),
			MinAmount:        decimal.RequireFromString("0.01"),
			MaxAmount:        decimal.RequireFromString("1000"),
			TrustLevel:       types.TrustHigh,
			Active:           true,
		},
		{
			Protocol:         "axelar",
			Name:             "Axelar Network",
			EstimatedMinutes: 10,
			BaseFee:          decimal.RequireFromString("0.002"),
			FeePercent:       decimal.RequireFromString("0.15"),
			MinAmount:        decimal.RequireFromString("0.01"),
			MaxAmount:        decimal.RequireFromString("500"),
			TrustLevel:       types.TrustHigh,
			Active:           true,
		},
		{
			Protocol:         "wormhole",
			Name:             "Wormhole Bridge",
			EstimatedMinutes: 5,
			BaseFee:          decimal.RequireFromString("0.0015"),
			FeePercent:       decimal.RequireFromString("0.05"),
			MinAmount:        decimal.RequireFromString("0.005"),
			MaxAmount:        decimal.RequireFromString("2000"),
			TrustLevel:       types.TrustMedium,
			Active:           true,
		},
	}
}

// SelectRoute picks the highest-scoring active route whose [min, max] bounds
// contain the amount.
func SelectRoute(routes []types.BridgeRoute, amount decimal.Decimal) (types.BridgeRoute, error) {
	var best types.BridgeRoute
	bestScore := decimal.Zero
	found := false

	for _, route := range routes {
		if !route.Active {
			continue
		}
		if amount.LessThan(route.MinAmount) || amount.GreaterThan(route.MaxAmount) {
			continue
		}
		score := routeScore(route)
		if !found || score.GreaterThan(bestScore) {
			best = route
			bestScore = score
			found = true
		}
	}

	if !found {
		return types.BridgeRoute{}, ErrNoRoute
	}
	return best, nil
}

// routeScore rewards cheap fees and short transit, weighted by trust:
// 1/(baseFee+feePct) + 1/minutes + trustWeight.
func routeScore(route types.BridgeRoute) decimal.Decimal {
	one := decimal.NewFromInt(1)

	feeScore := one.Div(route.BaseFee.Add(route.FeePercent))
	timeScore := one.Div(decimal.NewFromInt(int64(route.EstimatedMinutes)))

	var trustScore decimal.Decimal
	switch route.TrustLevel {
	case types.TrustHigh:
		trustScore = decimal.RequireFromString("1.5")
	case types.TrustMedium:
		trustScore = decimal.NewFromInt(1)
	default:
		trustScore = decimal.RequireFromString("0.5")
	}

	return feeScore.Add(timeScore).Add(trustScore)
}

// BridgeFee computes a route's fee for a given amount: baseFee + amount *
// feePercent / 100.
func BridgeFee(route types.BridgeRoute, amount decimal.Decimal) decimal.Decimal {
	return route.BaseFee.Add(amount.Mul(route.FeePercent).Div(decimal.NewFromInt(100)))
}
