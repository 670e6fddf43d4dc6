// Package monitor watches a submitted order and releases fill secrets as
// the settlement layer reports escrows ready for them.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sirupsen/logrus"

	"cross-swap/logger"
	"cross-swap/pkg/hashlock"
	"cross-swap/pkg/relayer"
	"cross-swap/pkg/types"
)

// Settlement is the slice of the relayer API the monitor needs.
type Settlement interface {
	ReadyFills(ctx context.Context, orderHash string) ([]types.ReadyFill, error)
	Status(ctx context.Context, orderHash string) (*relayer.StatusResponse, error)
	SubmitSecret(ctx context.Context, orderHash string, idx int, secret string) error
}

const (
	defaultPollInterval = 5 * time.Second
	defaultMaxBackoff   = 1 * time.Minute
)

// Monitor polls one order until it reaches a terminal status, revealing
// each fill's secret exactly once and only after the settlement layer
// reports that fill ready. All polling happens on the caller's goroutine;
// there is no internal concurrency to race the revealed set against.
type Monitor struct {
	settlement   Settlement
	pollInterval time.Duration
	maxBackoff   time.Duration
	onStatus     func(types.OrderStatus)
	log          *logrus.Entry
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithPollInterval overrides the default 5s poll cadence.
func WithPollInterval(d time.Duration) Option {
	return func(m *Monitor) { m.pollInterval = d }
}

// WithStatusFunc registers a callback invoked on every status change.
func WithStatusFunc(fn func(types.OrderStatus)) Option {
	return func(m *Monitor) { m.onStatus = fn }
}

// New creates a monitor over the given settlement client.
func New(settlement Settlement, log *logger.Log, opts ...Option) *Monitor {
	if log == nil {
		log = logger.Discard()
	}
	m := &Monitor{
		settlement:   settlement,
		pollInterval: defaultPollInterval,
		maxBackoff:   defaultMaxBackoff,
		log:          log.WithComponent("monitor"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run polls until the order reaches a terminal status and returns that
// status. Transient settlement errors back off and retry; only context
// cancellation aborts early. A secret index rejected by the relayer stays
// unrevealed and is retried on a later ready report.
func (m *Monitor) Run(ctx context.Context, orderHash string, secrets []hashlock.Secret) (types.OrderStatus, error) {
	revealed := make(map[int]bool, len(secrets))
	lastStatus := types.StatusPending
	backoff := m.pollInterval

	for {
		status, err := m.poll(ctx, orderHash, secrets, revealed)
		if err != nil {
			if ctx.Err() != nil {
				return lastStatus, ctx.Err()
			}
			m.log.WithError(err).Warn("poll failed, backing off")
			if err := sleep(ctx, backoff); err != nil {
				return lastStatus, err
			}
			if backoff *= 2; backoff > m.maxBackoff {
				backoff = m.maxBackoff
			}
			continue
		}
		backoff = m.pollInterval

		if status != lastStatus {
			m.log.WithFields(logger.Fields{"order": orderHash, "status": status}).Info("order status changed")
			if m.onStatus != nil {
				m.onStatus(status)
			}
			lastStatus = status
		}

		if status.Terminal() {
			return status, nil
		}

		if err := sleep(ctx, m.pollInterval); err != nil {
			return lastStatus, err
		}
	}
}

// poll runs one status-and-reveal cycle.
func (m *Monitor) poll(ctx context.Context, orderHash string, secrets []hashlock.Secret, revealed map[int]bool) (types.OrderStatus, error) {
	resp, err := m.settlement.Status(ctx, orderHash)
	if err != nil {
		return "", err
	}
	if resp.Status.Terminal() {
		return resp.Status, nil
	}

	fills, err := m.settlement.ReadyFills(ctx, orderHash)
	if err != nil {
		return "", err
	}

	for _, fill := range fills {
		if revealed[fill.Idx] {
			continue
		}
		if fill.Idx < 0 || fill.Idx >= len(secrets) {
			m.log.WithField("idx", fill.Idx).Warn("relayer reported out-of-range fill index")
			continue
		}

		secret := secrets[fill.Idx]
		if err := m.settlement.SubmitSecret(ctx, orderHash, fill.Idx, hexutil.Encode(secret[:])); err != nil {
			return "", fmt.Errorf("failed to reveal secret for fill %d: %w", fill.Idx, err)
		}

		// Marked only after the relayer accepted it, so a failed reveal is
		// retried on the next ready report.
		revealed[fill.Idx] = true
		m.log.WithFields(logger.Fields{"order": orderHash, "idx": fill.Idx}).Info("secret revealed")
	}

	return resp.Status, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
