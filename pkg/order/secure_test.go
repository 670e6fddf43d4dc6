package order

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCommitmentBlindsOrderHash(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	guard := NewGuard().WithClock(func() time.Time { return now })

	deadline := now.Add(10 * time.Minute)
	c, err := guard.CreateCommitment(testQuote(), testWallet, deadline)
	require.NoError(t, err)

	assert.NotEqual(t, c.OrderHash, c.Commitment)
	assert.Equal(t, now.Add(RevealWindow), c.RevealDeadline)
	assert.Equal(t, deadline, c.ExecutionDeadline)
}

func TestCreateCommitmentNoncePreventsReplay(t *testing.T) {
	guard := NewGuard()
	deadline := time.Now().Add(10 * time.Minute)

	first, err := guard.CreateCommitment(testQuote(), testWallet, deadline)
	require.NoError(t, err)
	second, err := guard.CreateCommitment(testQuote(), testWallet, deadline)
	require.NoError(t, err)

	assert.NotEqual(t, first.OrderHash, second.OrderHash)
	assert.NotEqual(t, first.Commitment, second.Commitment)
}

func TestCreateCommitmentRejectsBadAddress(t *testing.T) {
	_, err := NewGuard().CreateCommitment(testQuote(), "nobody", time.Now().Add(time.Minute))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid address in userAddress")
}

func TestValidateExecutionBoundaryInclusive(t *testing.T) {
	guard := NewGuard()
	q := testQuote()
	q.AbsoluteMinAmount = decimal.NewFromInt(99)
	q.MaxSlippage = decimal.NewFromInt(5)

	// Exactly at the absolute minimum: valid.
	res := guard.ValidateExecution(q, decimal.NewFromInt(99))
	assert.True(t, res.IsValid, res.Reason)

	// One unit below: invalid.
	res = guard.ValidateExecution(q, decimal.NewFromInt(98))
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Reason, "below absolute minimum")
}

func TestValidateExecutionExpiredQuote(t *testing.T) {
	guard := NewGuard()
	q := testQuote()
	q.ValidUntil = time.Now().Add(-time.Second)

	res := guard.ValidateExecution(q, q.DstAmount)
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Reason, "expired")
}

func TestValidateExecutionSlippageExceeded(t *testing.T) {
	guard := NewGuard()
	q := testQuote()
	q.DstAmount = decimal.NewFromInt(100)
	q.AbsoluteMinAmount = decimal.NewFromInt(90)
	q.MaxSlippage = decimal.NewFromInt(1)

	// 95 is above the absolute floor but 5% below expectation.
	res := guard.ValidateExecution(q, decimal.NewFromInt(95))
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Reason, "slippage")
}

func TestValidateExecutionHappyPath(t *testing.T) {
	guard := NewGuard()
	q := testQuote()

	res := guard.ValidateExecution(q, q.DstAmount)
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Reason)
}

func TestCheckSafetyCleanQuote(t *testing.T) {
	guard := NewGuard()
	q := testQuote()
	q.PriceImpact = decimal.RequireFromString("0.3")
	q.SrcAmountUsd = decimal.NewFromInt(1000)
	q.TotalFeesUsd = decimal.NewFromInt(10)

	report := guard.CheckSafety(q)
	assert.True(t, report.IsSafe)
	assert.Empty(t, report.Warnings)
}

func TestCheckSafetyFlagsRiskyQuote(t *testing.T) {
	now := time.Now()
	guard := NewGuard().WithClock(func() time.Time { return now })

	q := testQuote()
	q.PriceImpact = decimal.NewFromInt(3)
	q.SrcAmountUsd = decimal.NewFromInt(100)
	q.TotalFeesUsd = decimal.NewFromInt(10)
	q.ValidUntil = now.Add(10 * time.Second)

	report := guard.CheckSafety(q)
	assert.False(t, report.IsSafe)
	assert.Len(t, report.Warnings, 3)
}

func TestMEVDelayBounded(t *testing.T) {
	delay, err := MEVDelay(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, delay, 100*time.Millisecond)
	assert.LessOrEqual(t, delay, 2*time.Second)
}

func TestMEVDelayCancellable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := MEVDelay(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
