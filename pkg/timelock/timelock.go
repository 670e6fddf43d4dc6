// Package timelock computes the withdrawal and cancellation deadlines that
// shape an atomic swap's escrow windows on both chains.
package timelock

import (
	"fmt"
	"time"
)

// Preset names a speed/security tradeoff. Faster presets use fewer secrets
// and tighter escrow windows.
type Preset string

const (
	PresetFast   Preset = "fast"
	PresetMedium Preset = "medium"
	PresetSlow   Preset = "slow"
)

// SecretsCount returns the number of fill secrets the preset uses.
func (p Preset) SecretsCount() int {
	switch p {
	case PresetFast:
		return 4
	case PresetMedium:
		return 8
	case PresetSlow:
		return 16
	default:
		return 1
	}
}

// ParsePreset validates a preset name.
func ParsePreset(s string) (Preset, error) {
	switch Preset(s) {
	case PresetFast, PresetMedium, PresetSlow:
		return Preset(s), nil
	default:
		return "", fmt.Errorf("unknown preset %q (want fast, medium or slow)", s)
	}
}

// Durations holds the seven escrow-window offsets, each relative to the
// order's reference time.
type Durations struct {
	SrcWithdrawal         time.Duration
	SrcPublicWithdrawal   time.Duration
	SrcCancellation       time.Duration
	SrcPublicCancellation time.Duration
	DstWithdrawal         time.Duration
	DstPublicWithdrawal   time.Duration
	DstCancellation       time.Duration
}

// PresetDurations returns the duration table for a preset. The fast table is
// the protocol default; medium and slow scale every window up, keeping the
// destination cancellation ahead of the source cancellation so the maker's
// refund path opens only after the taker's window has closed.
func PresetDurations(p Preset) Durations {
	base := Durations{
		SrcWithdrawal:         1 * time.Hour,
		SrcPublicWithdrawal:   2 * time.Hour,
		SrcCancellation:       3 * time.Hour,
		SrcPublicCancellation: 4 * time.Hour,
		DstWithdrawal:         30 * time.Minute,
		DstPublicWithdrawal:   1 * time.Hour,
		DstCancellation:       90 * time.Minute,
	}

	switch p {
	case PresetMedium:
		return base.scale(2)
	case PresetSlow:
		return base.scale(4)
	default:
		return base
	}
}

func (d Durations) scale(factor int64) Durations {
	return Durations{
		SrcWithdrawal:         d.SrcWithdrawal * time.Duration(factor),
		SrcPublicWithdrawal:   d.SrcPublicWithdrawal * time.Duration(factor),
		SrcCancellation:       d.SrcCancellation * time.Duration(factor),
		SrcPublicCancellation: d.SrcPublicCancellation * time.Duration(factor),
		DstWithdrawal:         d.DstWithdrawal * time.Duration(factor),
		DstPublicWithdrawal:   d.DstPublicWithdrawal * time.Duration(factor),
		DstCancellation:       d.DstCancellation * time.Duration(factor),
	}
}

// Schedule is the ordered set of absolute deadlines for both chains.
type Schedule struct {
	SrcWithdrawal         time.Time
	SrcPublicWithdrawal   time.Time
	SrcCancellation       time.Time
	SrcPublicCancellation time.Time
	DstWithdrawal         time.Time
	DstPublicWithdrawal   time.Time
	DstCancellation       time.Time
}

// Build adds each configured offset to the reference time. Ordering of the
// resulting deadlines is the caller's responsibility; the order builder
// enforces it through Validate before signing anything.
func Build(reference time.Time, d Durations) Schedule {
	return Schedule{
		SrcWithdrawal:         reference.Add(d.SrcWithdrawal),
		SrcPublicWithdrawal:   reference.Add(d.SrcPublicWithdrawal),
		SrcCancellation:       reference.Add(d.SrcCancellation),
		SrcPublicCancellation: reference.Add(d.SrcPublicCancellation),
		DstWithdrawal:         reference.Add(d.DstWithdrawal),
		DstPublicWithdrawal:   reference.Add(d.DstPublicWithdrawal),
		DstCancellation:       reference.Add(d.DstCancellation),
	}
}

// Validate checks that deadlines are strictly increasing per chain and that
// the destination cancellation window closes before the source cancellation
// opens. The swap's economic security depends on that asymmetry: the taker
// must lose their claim on the destination chain before the maker can walk
// away on the source chain.
func (s Schedule) Validate() error {
	if !s.SrcPublicWithdrawal.After(s.SrcWithdrawal) {
		return fmt.Errorf("srcPublicWithdrawal must be after srcWithdrawal")
	}
	if !s.SrcCancellation.After(s.SrcPublicWithdrawal) {
		return fmt.Errorf("srcCancellation must be after srcPublicWithdrawal")
	}
	if !s.SrcPublicCancellation.After(s.SrcCancellation) {
		return fmt.Errorf("srcPublicCancellation must be after srcCancellation")
	}
	if !s.DstPublicWithdrawal.After(s.DstWithdrawal) {
		return fmt.Errorf("dstPublicWithdrawal must be after dstWithdrawal")
	}
	if !s.DstCancellation.After(s.DstPublicWithdrawal) {
		return fmt.Errorf("dstCancellation must be after dstPublicWithdrawal")
	}
	if !s.DstCancellation.Before(s.SrcCancellation) {
		return fmt.Errorf("dstCancellation must be before srcCancellation")
	}
	return nil
}

// Offsets returns the schedule as unix timestamps keyed by the relayer's
// wire field names.
func (s Schedule) Offsets() map[string]int64 {
	return map[string]int64{
		"srcWithdrawal":         s.SrcWithdrawal.Unix(),
		"srcPublicWithdrawal":   s.SrcPublicWithdrawal.Unix(),
		"srcCancellation":       s.SrcCancellation.Unix(),
		"srcPublicCancellation": s.SrcPublicCancellation.Unix(),
		"dstWithdrawal":         s.DstWithdrawal.Unix(),
		"dstPublicWithdrawal":   s.DstPublicWithdrawal.Unix(),
		"dstCancellation":       s.DstCancellation.Unix(),
	}
}
