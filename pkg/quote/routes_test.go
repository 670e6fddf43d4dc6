package quote

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cross-swap/pkg/types"
)

func TestSelectRouteFiltersByBounds(t *testing.T) {
	routes := DefaultRoutes()

	// 1500 only fits wormhole's [0.005, 2000] bounds.
	route, err := SelectRoute(routes, decimal.NewFromInt(1500))
	require.NoError(t, err)
	assert.Equal(t, "wormhole", route.Protocol)
}

func TestSelectRoutePrefersHighestScore(t *testing.T) {
	// 100 fits every default route; wormhole wins on cheap fees and speed
	// despite its lower trust weight.
	route, err := SelectRoute(DefaultRoutes(), decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, "wormhole", route.Protocol)
}

func TestSelectRouteNoneInBounds(t *testing.T) {
	_, err := SelectRoute(DefaultRoutes(), decimal.NewFromInt(5000))
	require.ErrorIs(t, err, ErrNoRoute)
}

func TestSelectRouteIgnoresInactive(t *testing.T) {
	routes := []types.BridgeRoute{
		{
			Protocol:         "dormant",
			EstimatedMinutes: 1,
			BaseFee:          decimal.RequireFromString("0.0001"),
			FeePercent:       decimal.RequireFromString("0.01"),
			MinAmount:        decimal.Zero,
			MaxAmount:        decimal.NewFromInt(1000),
			TrustLevel:       types.TrustHigh,
			Active:           false,
		},
	}
	_, err := SelectRoute(routes, decimal.NewFromInt(10))
	require.ErrorIs(t, err, ErrNoRoute)
}

func TestBridgeFee(t *testing.T) {
	route := types.BridgeRoute{
		BaseFee:    decimal.RequireFromString("0.001"),
		FeePercent: decimal.RequireFromString("0.1"),
	}
	fee := BridgeFee(route, decimal.NewFromInt(100))
	// 0.001 + 100 * 0.1 / 100 = 0.101
	assert.True(t, fee.Equal(decimal.RequireFromString("0.101")), "fee=%s", fee)
}
