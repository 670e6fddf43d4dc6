package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cross-swap",
	Short: "A CLI for trustless cross-ecosystem atomic swaps",
	Long: `cross-swap is a command-line tool for hashlock/timelock atomic swaps
between EVM, Cosmos and Solana chains. It prices the trade, builds an
immutable order with per-fill secrets, collects the wallet signatures and
releases secrets as escrows lock on both sides.

Examples:
  cross-swap quote 1 WETH on sepolia to ATOM on cosmoshub
  cross-swap swap 1 WETH on sepolia to ATOM on cosmoshub --preset fast
  cross-swap routes --amount 100
  cross-swap status <order-hash> --watch`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}
