package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cross-swap/config"
	"cross-swap/logger"
	"cross-swap/pkg/monitor"
	"cross-swap/pkg/order"
	"cross-swap/pkg/orderstore"
	"cross-swap/pkg/relayer"
	"cross-swap/pkg/signer"
	"cross-swap/pkg/timelock"
	"cross-swap/pkg/types"
	"cross-swap/pkg/wallet"
)

var (
	swapFromChain   string
	swapToChain     string
	swapPreset      string
	swapSlippage    float64
	swapPermitNonce uint64
	swapNoConfirm   bool
	swapNoMonitor   bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <source-token> to <dest-token>",
	Short: "Execute a cross-chain atomic swap",
	Long: `Run the full swap lifecycle: quote, order construction, commitment,
wallet signatures, submission and secret-release monitoring.

The timelock preset controls how long each settlement window stays open and
how many partial fills the order supports:
  fast    4 secrets, 1h withdrawal windows
  medium  8 secrets, 2h withdrawal windows
  slow    16 secrets, 4h withdrawal windows

Examples:
  cross-swap swap 1 WETH on sepolia to ATOM on cosmoshub
  cross-swap swap 100 USDC to OSMO --from-chain sepolia --to-chain osmosis --preset medium
  cross-swap swap 1 WETH on sepolia to ATOM on cosmoshub --yes --no-monitor`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().StringVar(&swapFromChain, "from-chain", "", "Source chain (overrides 'on <chain>')")
	swapCmd.Flags().StringVar(&swapToChain, "to-chain", "", "Destination chain (overrides 'on <chain>')")
	swapCmd.Flags().StringVar(&swapPreset, "preset", "fast", "Timelock preset: fast, medium or slow")
	swapCmd.Flags().Float64Var(&swapSlippage, "slippage", 0, "Max slippage percent (default 1)")
	swapCmd.Flags().Uint64Var(&swapPermitNonce, "permit-nonce", 0, "Current EIP-2612 nonce of the source token for this wallet")
	swapCmd.Flags().BoolVarP(&swapNoConfirm, "yes", "y", false, "Skip confirmation prompt")
	swapCmd.Flags().BoolVar(&swapNoMonitor, "no-monitor", false, "Submit without waiting for settlement")
}

func runSwap(cmd *cobra.Command, args []string) {
	req, err := parseSwapArgs(args, swapFromChain, swapToChain)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	preset, err := timelock.ParsePreset(swapPreset)
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
	if err := cfg.RequireSigning(); err != nil {
		printError(err)
		os.Exit(1)
	}

	w, err := wallet.NewLocalWallet(cfg.PrivateKey)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	// Cancel everything downstream on Ctrl+C so no secret is revealed after
	// the user bails out.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Step 1: quote.
	q, err := fetchQuote(cfg, req, swapSlippage, jsonOutput, verbose)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if !jsonOutput {
		displayQuote(q)
	}

	// Step 2: safety review and confirmation.
	guard := order.NewGuard()
	report := guard.CheckSafety(q)
	if !report.IsSafe && !jsonOutput {
		color.Yellow("  Safety warnings:")
		for _, warning := range report.Warnings {
			color.Yellow("   - %s", warning)
		}
		fmt.Println()
	}

	if !swapNoConfirm && !jsonOutput {
		if !confirmSwap() {
			fmt.Println("\nSwap cancelled.")
			os.Exit(0)
		}
	}

	// Step 3: build the order and its blinded commitment.
	builder := order.NewBuilder(order.BuilderConfig{
		SrcEscrowFactory: cfg.SrcEscrowFactory,
		DstEscrowFactory: cfg.DstEscrowFactory,
		ResolverAddress:  cfg.ResolverAddress,
	})
	built, err := builder.Build(q, w.Address().Hex(), preset)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	commitment, err := guard.CreateCommitment(q, w.Address().Hex(), q.ValidUntil)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if verbose {
		fmt.Printf("\nOrder hash:  %s\n", built.Hash.Hex())
		fmt.Printf("Commitment:  %s\n", commitment.Commitment.Hex())
		fmt.Printf("Secrets:     %d\n", len(built.Secrets))
	}

	// Step 4: signatures.
	orchestrator := signer.New(w, logger.New())
	sigs, err := orchestrator.Run(ctx, q, signer.Params{
		SpenderAddress: cfg.SrcEscrowFactory,
		PermitNonce:    swapPermitNonce,
		Deadline:       commitment.ExecutionDeadline,
	})
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	// Step 5: randomized delay between signing and broadcast.
	if delay, err := order.MEVDelay(ctx); err != nil {
		printError(err)
		os.Exit(1)
	} else if verbose {
		fmt.Printf("Submission delayed %s\n", delay)
	}

	// Step 6: submit.
	client := relayer.NewClient(cfg.RelayerURL)
	resp, err := submitOrder(ctx, client, q, built, sigs.Order, w.Address().Hex(), jsonOutput)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	orderHash := resp.OrderHash
	if orderHash == "" {
		orderHash = built.Hash.Hex()
	}

	recordOrder(q, built, orderHash, preset)

	if jsonOutput {
		output := map[string]interface{}{
			"order_hash":     orderHash,
			"quote_id":       q.ID,
			"status":         resp.Status,
			"secrets":        len(built.Secrets),
			"min_dst_amount": q.MinDstAmount.String(),
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		color.Green("\n✓ Order submitted!")
		fmt.Printf("  Order Hash: %s\n", color.CyanString(orderHash))
	}

	if swapNoMonitor {
		if !jsonOutput {
			fmt.Println("\nYou can monitor the swap using:")
			color.Cyan("  cross-swap status %s --watch\n", orderHash)
		}
		return
	}

	// Step 7: watch settlement and release secrets as escrows lock.
	finalStatus := monitorOrder(ctx, client, orderHash, built, jsonOutput)

	if jsonOutput {
		fmt.Printf(`{"order_hash": %q, "status": %q}`+"\n", orderHash, finalStatus)
		return
	}

	switch finalStatus {
	case types.StatusExecuted:
		color.Green("\n✓ Swap executed! Funds delivered on %s.\n", q.DstChain.Name)
	case types.StatusRefunded:
		color.Yellow("\nSwap refunded. Funds returned on %s.\n", q.SrcChain.Name)
	case types.StatusExpired:
		color.Red("\nSwap expired before settlement completed.\n")
	default:
		color.Yellow("\nMonitoring stopped with status: %s\n", finalStatus)
	}
}

// submitOrder maps the built order onto the relayer's wire format.
func submitOrder(ctx context.Context, client *relayer.Client, q *types.Quote, built *order.Built, signature, userAddress string, jsonOutput bool) (*relayer.SubmitResponse, error) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Submitting order..."
		s.Start()
		defer s.Stop()
	}

	return client.Submit(ctx, &types.SubmitRequest{
		FromChain:   q.SrcChain.ChainID,
		ToChain:     q.DstChain.ChainID,
		FromToken:   q.SrcToken.Address,
		ToToken:     q.DstToken.Address,
		Amount:      built.Order.MakingAmount.String(),
		UserAddress: userAddress,
		Signature:   signature,
		Timelock:    built.Order.Timelocks.Offsets(),
		SecretHash:  built.Order.HashLock.Hex(),
	})
}

// monitorOrder runs the secret-release monitor, echoing status changes and
// keeping the local order store current.
func monitorOrder(ctx context.Context, client *relayer.Client, orderHash string, built *order.Built, jsonOutput bool) types.OrderStatus {
	store, storeErr := orderstore.NewStore("")

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		fmt.Println()
		s.Suffix = " Waiting for settlement..."
		s.Start()
		defer s.Stop()
	}

	m := monitor.New(client, logger.New(), monitor.WithStatusFunc(func(status types.OrderStatus) {
		if storeErr == nil {
			_ = store.UpdateStatus(orderHash, status)
		}
		if !jsonOutput {
			s.Suffix = fmt.Sprintf(" Status: %s...", status)
		}
	}))

	status, err := m.Run(ctx, orderHash, built.Secrets)
	if err != nil && !jsonOutput {
		s.Stop()
		color.Red("\nMonitoring interrupted: %v", err)
	}
	return status
}

// recordOrder saves the submission to the local history. Failure to record
// is not fatal to the swap.
func recordOrder(q *types.Quote, built *order.Built, orderHash string, preset timelock.Preset) {
	store, err := orderstore.NewStore("")
	if err != nil {
		return
	}

	now := time.Now()
	_ = store.Save(&orderstore.Record{
		OrderHash: orderHash,
		QuoteID:   q.ID,
		SrcChain:  q.SrcChain.Name,
		DstChain:  q.DstChain.Name,
		SrcToken:  q.SrcToken.Symbol,
		DstToken:  q.DstToken.Symbol,
		SrcAmount: q.SrcAmount.String(),
		MinDst:    q.MinDstAmount.String(),
		Preset:    string(preset),
		Status:    types.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func confirmSwap() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("\nProceed with swap? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
