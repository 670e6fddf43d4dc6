package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"cross-swap/config"
	"cross-swap/logger"
	"cross-swap/pkg/parser"
	"cross-swap/pkg/quote"
	"cross-swap/pkg/types"
)

var (
	quoteFromChain string
	quoteToChain   string
	quoteSlippage  float64
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <source-token> to <dest-token>",
	Short: "Price a cross-chain swap without executing it",
	Long: `Get a priced quote for a cross-chain swap: exchange rate, bridge route,
fees and the guaranteed minimum output. Quotes are valid for 5 minutes.

Examples:
  cross-swap quote 1 WETH on sepolia to ATOM on cosmoshub
  cross-swap quote 100 USDC to OSMO --from-chain sepolia --to-chain osmosis
  cross-swap quote 1 WETH on sepolia to ATOM on cosmoshub --slippage 0.5`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().StringVar(&quoteFromChain, "from-chain", "", "Source chain (overrides 'on <chain>')")
	quoteCmd.Flags().StringVar(&quoteToChain, "to-chain", "", "Destination chain (overrides 'on <chain>')")
	quoteCmd.Flags().Float64Var(&quoteSlippage, "slippage", 0, "Max slippage percent (default 1)")
}

func runQuote(cmd *cobra.Command, args []string) {
	req, err := parseSwapArgs(args, quoteFromChain, quoteToChain)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	q, err := fetchQuote(cfg, req, quoteSlippage, jsonOutput, verbose)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(q, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	displayQuote(q)
}

// parseSwapArgs joins the positional args back into a command string and
// applies the chain flags on top.
func parseSwapArgs(args []string, fromChain, toChain string) (*parser.SwapRequest, error) {
	req, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		return nil, err
	}

	if fromChain != "" {
		req.SrcChain = strings.ToLower(fromChain)
	}
	if toChain != "" {
		req.DstChain = strings.ToLower(toChain)
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// fetchQuote wires a quote engine from the configuration and prices the
// request, showing a spinner on interactive output.
func fetchQuote(cfg *config.Config, req *parser.SwapRequest, slippage float64, jsonOutput, verbose bool) (*types.Quote, error) {
	log := logger.New()
	engine := quote.NewEngine(
		quote.NewCoinGeckoOracle(cfg.OracleURL),
		quote.NewEVMGasEstimator(quote.NewStaticGasEstimator(nil)),
		nil, nil,
		log,
	)

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching quote..."
		s.Start()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	q, err := engine.GetQuote(ctx, quote.Params{
		SrcChain: req.SrcChain,
		DstChain: req.DstChain,
		SrcToken: req.SrcToken,
		DstToken: req.DstToken,
		Amount:   req.Amount,
		Slippage: decimal.NewFromFloat(slippage),
	})
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		if verbose {
			fmt.Printf("\nDebug: quote failed: %v\n", err)
		}
		return nil, err
	}

	return q, nil
}

func displayQuote(q *types.Quote) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     SWAP QUOTE")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  Quote ID:          %s\n", color.CyanString(q.ID))
	fmt.Printf("  From:              %s %s (%s)\n", q.SrcAmount, color.YellowString(q.SrcToken.Symbol), q.SrcChain.Name)
	fmt.Printf("  To:                ~%s %s (%s)\n", q.DstAmount.StringFixed(6), color.YellowString(q.DstToken.Symbol), q.DstChain.Name)
	fmt.Printf("  Guaranteed Min:    %s %s\n", q.MinDstAmount.StringFixed(6), q.DstToken.Symbol)
	fmt.Printf("  Exchange Rate:     1 %s = %s %s\n", q.SrcToken.Symbol, q.ExchangeRate.StringFixed(6), q.DstToken.Symbol)

	fmt.Printf("\n  Route:             %s (%s trust)\n", q.Route.Name, q.Route.TrustLevel)
	fmt.Printf("  Estimated Time:    %d minutes\n", q.EstimatedMinutes)
	fmt.Printf("  Price Impact:      %s%%\n", q.PriceImpact)

	fmt.Printf("\n  Bridge Fee:        %s %s\n", q.BridgeFee.StringFixed(6), q.SrcToken.Symbol)
	fmt.Printf("  Gas Fees:          %s %s\n", q.SrcGasFee.Add(q.DstGasFee).StringFixed(6), q.SrcToken.Symbol)
	fmt.Printf("  Total Fees:        %s %s (~$%s)\n", q.TotalFees.StringFixed(6), q.SrcToken.Symbol, q.TotalFeesUsd.StringFixed(2))

	fmt.Printf("\n  Valid Until:       %s\n", q.ValidUntil.Format("2006-01-02 15:04:05"))

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}
