package order

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cross-swap/pkg/hashlock"
	"cross-swap/pkg/timelock"
	"cross-swap/pkg/types"
)

const (
	testFactory  = "0xf58B8c71986d5E412BA260d686D5CE062274bfBd"
	testResolver = "0x352f24B4dD631629088Ca1b01531118960F2C3De"
	testWallet   = "0x39d7835Bb1Da816D1c45a71f2ea0653816B2B6f8"
)

func testBuilderConfig() BuilderConfig {
	return BuilderConfig{
		SrcEscrowFactory: testFactory,
		DstEscrowFactory: testFactory,
		ResolverAddress:  testResolver,
	}
}

func testQuote() *types.Quote {
	return &types.Quote{
		ID: "quote_test",
		SrcChain: types.Chain{
			ChainID:   "11155111",
			Ecosystem: types.EcosystemEVM,
		},
		DstChain: types.Chain{
			ChainID:   "cosmoshub-4",
			Ecosystem: types.EcosystemCosmos,
		},
		SrcToken: types.Token{
			Address:  "0xfFf9976782d46CC05630D1f6eBAb18b2324d6B14",
			Symbol:   "WETH",
			Decimals: 18,
		},
		DstToken: types.Token{
			Address:  "uatom",
			Symbol:   "ATOM",
			Decimals: 6,
		},
		SrcAmount:         decimal.NewFromInt(1),
		DstAmount:         decimal.NewFromInt(100),
		MinDstAmount:      decimal.NewFromInt(99),
		AbsoluteMinAmount: decimal.NewFromInt(99),
		MaxSlippage:       decimal.NewFromInt(1),
		ValidUntil:        time.Now().Add(5 * time.Minute),
	}
}

func TestBuildProducesImmutableOrder(t *testing.T) {
	builder := NewBuilder(testBuilderConfig())

	built, err := builder.Build(testQuote(), testWallet, timelock.PresetFast)
	require.NoError(t, err)

	assert.Len(t, built.Secrets, timelock.PresetFast.SecretsCount())
	assert.Equal(t, built.Order.Maker, built.Order.Receiver)
	assert.Equal(t, types.EcosystemCosmos, built.Order.Ecosystem)
	assert.True(t, built.Order.AllowPartialFills)
	assert.NoError(t, built.Order.Timelocks.Validate())

	// Hash matches recomputation and commits to the built fields.
	assert.Equal(t, built.Hash, built.Order.HashValue())

	lock, err := hashlock.New(built.Secrets)
	require.NoError(t, err)
	assert.Equal(t, lock, built.Order.HashLock)
}

func TestBuildConvertsTakerAssetDeterministically(t *testing.T) {
	builder := NewBuilder(testBuilderConfig())

	first, err := builder.Build(testQuote(), testWallet, timelock.PresetFast)
	require.NoError(t, err)
	second, err := builder.Build(testQuote(), testWallet, timelock.PresetFast)
	require.NoError(t, err)

	// Secrets and salt differ run to run; the canonical taker asset must not.
	assert.Equal(t, first.Order.TakerAsset, second.Order.TakerAsset)
	assert.NotEqual(t, first.Hash, second.Hash)
}

func TestBuildScalesAmountsByDecimals(t *testing.T) {
	builder := NewBuilder(testBuilderConfig())

	built, err := builder.Build(testQuote(), testWallet, timelock.PresetFast)
	require.NoError(t, err)

	assert.Equal(t, "1000000000000000000", built.Order.MakingAmount.String())
	assert.Equal(t, "100000000", built.Order.TakingAmount.String())
}

func TestBuildRejectsInvalidAddresses(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*BuilderConfig, *types.Quote, *string)
		field  string
	}{
		{
			name:   "srcEscrowFactory",
			mutate: func(cfg *BuilderConfig, _ *types.Quote, _ *string) { cfg.SrcEscrowFactory = "0x0" },
			field:  "srcEscrowFactory",
		},
		{
			name:   "resolverAddress",
			mutate: func(cfg *BuilderConfig, _ *types.Quote, _ *string) { cfg.ResolverAddress = "not-an-address" },
			field:  "resolverAddress",
		},
		{
			name:   "walletAddress",
			mutate: func(_ *BuilderConfig, _ *types.Quote, wallet *string) { *wallet = "0x123" },
			field:  "walletAddress",
		},
		{
			name:   "makerAsset",
			mutate: func(_ *BuilderConfig, q *types.Quote, _ *string) { q.SrcToken.Address = "uatom" },
			field:  "makerAsset",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testBuilderConfig()
			q := testQuote()
			wallet := testWallet
			tc.mutate(&cfg, q, &wallet)

			_, err := NewBuilder(cfg).Build(q, wallet, timelock.PresetFast)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid address in "+tc.field)
		})
	}
}

func TestBuildSecretCountFollowsPreset(t *testing.T) {
	builder := NewBuilder(testBuilderConfig())

	for _, p := range []timelock.Preset{timelock.PresetFast, timelock.PresetMedium, timelock.PresetSlow} {
		built, err := builder.Build(testQuote(), testWallet, p)
		require.NoError(t, err)
		assert.Len(t, built.Secrets, p.SecretsCount())
		assert.Len(t, built.SecretHashes(), p.SecretsCount())
	}
}

func TestOrderHashIsDeterministic(t *testing.T) {
	builder := NewBuilder(testBuilderConfig())

	built, err := builder.Build(testQuote(), testWallet, timelock.PresetFast)
	require.NoError(t, err)

	assert.Equal(t, built.Order.HashValue(), built.Order.HashValue())
}
