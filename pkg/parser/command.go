// Package parser turns the CLI's natural swap phrasing into a structured
// request.
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// SwapRequest is the parsed form of a swap command.
type SwapRequest struct {
	Amount   decimal.Decimal
	SrcToken string
	DstToken string
	SrcChain string
	DstChain string
}

// Pattern: <amount> <source_token> to <dest_token>, with an optional
// leading "swap" and optional "on <chain>" after either token.
var swapPattern = regexp.MustCompile(
	`^(\d+\.?\d*)\s+([A-Za-z0-9/_-]+)(?:\s+ON\s+([A-Za-z0-9-]+))?\s+TO\s+([A-Za-z0-9/_-]+)(?:\s+ON\s+([A-Za-z0-9-]+))?$`)

// ParseSwapCommand parses a swap command.
// Examples:
//   - "swap 1 WETH to ATOM"
//   - "100 USDC on sepolia to OSMO on osmosis"
//   - "0.5 WETH to uatom"
func ParseSwapCommand(command string) (*SwapRequest, error) {
	command = strings.TrimSpace(command)
	if len(command) > 5 && strings.EqualFold(command[:5], "swap ") {
		command = command[5:]
	}

	// Normalize only the keywords; token references like ibc/... and
	// bech32 accounts are case-sensitive.
	normalized := regexp.MustCompile(`(?i)\s+to\s+`).ReplaceAllString(command, " TO ")
	normalized = regexp.MustCompile(`(?i)\s+on\s+`).ReplaceAllString(normalized, " ON ")

	matches := swapPattern.FindStringSubmatch(normalized)
	if matches == nil {
		return nil, fmt.Errorf("invalid swap command format. Expected: '<amount> <token> to <token>' (e.g., 'swap 1 WETH to ATOM')")
	}

	amount, err := decimal.NewFromString(matches[1])
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", matches[1], err)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be greater than 0")
	}

	return &SwapRequest{
		Amount:   amount,
		SrcToken: matches[2],
		SrcChain: strings.ToLower(matches[3]),
		DstToken: matches[4],
		DstChain: strings.ToLower(matches[5]),
	}, nil
}

// Validate checks that a swap request has everything the quote engine needs.
func (r *SwapRequest) Validate() error {
	if r.SrcChain == "" {
		return fmt.Errorf("source chain is required. Use 'on <chain>' or --from-chain")
	}
	if r.DstChain == "" {
		return fmt.Errorf("destination chain is required. Use 'on <chain>' or --to-chain")
	}
	if r.SrcChain == r.DstChain && strings.EqualFold(r.SrcToken, r.DstToken) {
		return fmt.Errorf("source and destination are the same asset")
	}
	return nil
}
