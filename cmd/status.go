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
	"github.com/spf13/cobra"

	"cross-swap/config"
	"cross-swap/pkg/orderstore"
	"cross-swap/pkg/relayer"
	"cross-swap/pkg/types"
)

var (
	watchStatus   bool
	watchInterval int
)

var statusCmd = &cobra.Command{
	Use:   "status [order-hash]",
	Short: "Check the status of a submitted order",
	Long: `Check the settlement status of a cross-chain swap by its order hash.
Without an argument, the most recently submitted order is used.

Examples:
  cross-swap status
  cross-swap status 0x1234...abcd
  cross-swap status 0x1234...abcd --watch
  cross-swap status 0x1234...abcd --watch --interval 10`,
	Args: cobra.MaximumNArgs(1),
	Run:  runStatus,
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List locally recorded orders",
	Args:  cobra.NoArgs,
	Run:   runOrders,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(ordersCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch status updates continuously")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 5, "Polling interval in seconds (when watching)")
}

func runStatus(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	orderHash, err := resolveOrderHash(args)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	client := relayer.NewClient(cfg.RelayerURL)

	if watchStatus {
		watchOrderStatus(client, orderHash, jsonOutput)
	} else {
		checkOrderStatus(client, orderHash, jsonOutput)
	}
}

// resolveOrderHash takes the hash argument or falls back to the latest
// locally recorded order.
func resolveOrderHash(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	store, err := orderstore.NewStore("")
	if err != nil {
		return "", err
	}
	latest, err := store.Latest()
	if err != nil {
		return "", fmt.Errorf("%w. Pass an order hash explicitly", err)
	}
	return latest.OrderHash, nil
}

func checkOrderStatus(client *relayer.Client, orderHash string, jsonOutput bool) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Checking order status..."
		s.Start()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	status, err := client.Status(ctx, orderHash)
	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	rememberStatus(orderHash, status.Status)

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(status, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayStatus(status, orderHash)
	}
}

func watchOrderStatus(client *relayer.Client, orderHash string, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
		os.Exit(1)
	}

	fmt.Printf("\nWatching order %s\n", color.CyanString(orderHash))
	fmt.Printf("Checking every %d seconds. Press Ctrl+C to stop.\n", watchInterval)

	ticker := time.NewTicker(time.Duration(watchInterval) * time.Second)
	defer ticker.Stop()

	// Check immediately first, then on each tick; stop once terminal.
	if checkAndDisplayStatus(client, orderHash) {
		return
	}
	for range ticker.C {
		if checkAndDisplayStatus(client, orderHash) {
			return
		}
	}
}

func checkAndDisplayStatus(client *relayer.Client, orderHash string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	status, err := client.Status(ctx, orderHash)
	if err != nil {
		color.Red("Error: %v", err)
		return false
	}

	rememberStatus(orderHash, status.Status)
	displayStatus(status, orderHash)
	return status.Status.Terminal()
}

// rememberStatus mirrors the relayer's answer into the local store when the
// order is known there.
func rememberStatus(orderHash string, status types.OrderStatus) {
	store, err := orderstore.NewStore("")
	if err != nil {
		return
	}
	_ = store.UpdateStatus(orderHash, status)
}

func displayStatus(status *relayer.StatusResponse, orderHash string) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        ORDER STATUS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Order Hash:    %s\n", color.CyanString(orderHash))
	fmt.Printf("  Status:        %s\n", coloredStatus(status.Status))
	if !status.UpdatedAt.IsZero() {
		fmt.Printf("  Last Updated:  %s\n", status.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	if len(status.Fills) > 0 {
		indices := make([]string, len(status.Fills))
		for i, fill := range status.Fills {
			indices[i] = fmt.Sprintf("%d", fill.Idx)
		}
		fmt.Printf("  Ready Fills:   %s\n", strings.Join(indices, ", "))
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func runOrders(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := orderstore.NewStore("")
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	records := store.List()

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(records, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	if len(records) == 0 {
		fmt.Println("\nNo orders recorded yet.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        RECENT ORDERS")
	fmt.Println(strings.Repeat("=", 70) + "\n")

	for _, record := range records {
		fmt.Printf("  %s\n", color.CyanString(record.OrderHash))
		fmt.Printf("    %s %s (%s) -> min %s %s (%s)\n",
			record.SrcAmount, record.SrcToken, record.SrcChain,
			record.MinDst, record.DstToken, record.DstChain)
		fmt.Printf("    %s  preset=%s  created %s\n\n",
			coloredStatus(record.Status), record.Preset,
			record.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func coloredStatus(status types.OrderStatus) string {
	text := strings.ToUpper(string(status))

	switch status {
	case types.StatusExecuted:
		return color.GreenString(text)
	case types.StatusPending:
		return color.YellowString(text)
	case types.StatusExpired, types.StatusRefunded:
		return color.RedString(text)
	default:
		return text
	}
}
