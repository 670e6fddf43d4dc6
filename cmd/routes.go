package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"cross-swap/pkg/quote"
)

var routesAmount float64

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List supported bridge routes",
	Long: `List the bridge routes the quote engine can choose from, with their
fees, time estimates and amount bounds. With --amount, shows which route
would be selected for that trade size.

Examples:
  cross-swap routes
  cross-swap routes --amount 100`,
	Args: cobra.NoArgs,
	Run:  runRoutes,
}

func init() {
	rootCmd.AddCommand(routesCmd)

	routesCmd.Flags().Float64Var(&routesAmount, "amount", 0, "Trade amount to evaluate routes against")
}

func runRoutes(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	routes := quote.DefaultRoutes()

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(routes, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        BRIDGE ROUTES")
	fmt.Println(strings.Repeat("=", 70) + "\n")

	var selected string
	if routesAmount > 0 {
		amount := decimal.NewFromFloat(routesAmount)
		route, err := quote.SelectRoute(routes, amount)
		if err != nil {
			printError(err)
			os.Exit(1)
		}
		selected = route.Protocol
	}

	for _, route := range routes {
		marker := "  "
		name := color.YellowString(route.Name)
		if route.Protocol == selected {
			marker = color.GreenString("> ")
			name = color.GreenString(route.Name)
		}

		fmt.Printf("%s%s (%s trust)\n", marker, name, route.TrustLevel)
		fmt.Printf("    Fee:      %s + %s%%\n", route.BaseFee, route.FeePercent)
		fmt.Printf("    Time:     ~%d minutes\n", route.EstimatedMinutes)
		fmt.Printf("    Bounds:   %s - %s\n", route.MinAmount, route.MaxAmount)

		if route.Protocol == selected {
			fee := quote.BridgeFee(route, decimal.NewFromFloat(routesAmount))
			fmt.Printf("    Fee at %v: %s\n", routesAmount, fee)
		}
		fmt.Println()
	}

	if selected != "" {
		fmt.Printf("Selected route for amount %v: %s\n\n", routesAmount, color.GreenString(selected))
	}
}
