package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"cross-swap/cmd"
)

func main() {
	// .env is optional; environment variables alone are enough.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
