// Package main provides the entry point for the contract generation service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kontrak",
	Short: "Employee contract generation service",
	Long:  "Kontrak validates employee batches from spreadsheets and generates contracts, annexes, disclosures and regulatory reports as a compressed bundle.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
