// Package main provides the entry point for the cvscout CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cvscout",
	Short: "AI-assisted candidate CV scraper and scorer",
	Long: "cvscout scrapes candidate profiles from configured sources, extracts structured " +
		"candidate records with an LLM, classifies roles and seniority, optionally matches " +
		"candidates against a job description, and exports a deduplicated ranked set to CSV and JSON.",
	RunE: runScrape,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
