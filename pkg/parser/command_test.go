package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSwapCommand(t *testing.T) {
	cases := []struct {
		command string
		want    SwapRequest
	}{
		{
			command: "swap 1 WETH to ATOM",
			want:    SwapRequest{SrcToken: "WETH", DstToken: "ATOM"},
		},
		{
			command: "1.5 WETH to uatom",
			want:    SwapRequest{SrcToken: "WETH", DstToken: "uatom"},
		},
		{
			command: "100 USDC on sepolia to OSMO on osmosis",
			want:    SwapRequest{SrcToken: "USDC", SrcChain: "sepolia", DstToken: "OSMO", DstChain: "osmosis"},
		},
		{
			command: "Swap 2 WETH to ibc/27394FB092D2ECCD56123C74F36E4C1F926001CEADA9CA97EA622B25F41E5EB2",
			want:    SwapRequest{SrcToken: "WETH", DstToken: "ibc/27394FB092D2ECCD56123C74F36E4C1F926001CEADA9CA97EA622B25F41E5EB2"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.command, func(t *testing.T) {
			got, err := ParseSwapCommand(tc.command)
			require.NoError(t, err)

			assert.Equal(t, tc.want.SrcToken, got.SrcToken)
			assert.Equal(t, tc.want.DstToken, got.DstToken)
			assert.Equal(t, tc.want.SrcChain, got.SrcChain)
			assert.Equal(t, tc.want.DstChain, got.DstChain)
			assert.True(t, got.Amount.IsPositive())
		})
	}
}

func TestParseSwapCommandRejectsMalformed(t *testing.T) {
	for _, command := range []string{
		"",
		"swap WETH to ATOM",
		"1 WETH",
		"-1 WETH to ATOM",
		"0 WETH to ATOM",
	} {
		t.Run(command, func(t *testing.T) {
			_, err := ParseSwapCommand(command)
			require.Error(t, err)
		})
	}
}

func TestValidateRequiresChains(t *testing.T) {
	req, err := ParseSwapCommand("1 WETH to ATOM")
	require.NoError(t, err)
	require.Error(t, req.Validate())

	req.SrcChain = "sepolia"
	require.Error(t, req.Validate())

	req.DstChain = "cosmoshub"
	require.NoError(t, req.Validate())
}

func TestValidateRejectsSameAsset(t *testing.T) {
	req := &SwapRequest{
		SrcToken: "WETH", DstToken: "weth",
		SrcChain: "sepolia", DstChain: "sepolia",
	}
	require.Error(t, req.Validate())
}
