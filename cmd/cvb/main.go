// Package main provides the cvb command line client for the CV Builder backend.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cvb",
	Short: "CV Builder client",
	Long:  "cvb manages CV documents on the job-search platform: editing sections, requesting AI enhancement suggestions, ATS scoring, and PDF export.",
}

var (
	rootConfigPath string
	rootAPIURL     string
	rootCVID       string
	rootVerbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().StringVar(&rootAPIURL, "api-url", "", "Backend API base URL (defaults to CVB_API_URL env var)")
	rootCmd.PersistentFlags().StringVar(&rootCVID, "cv", "", "CV id to operate on (defaults to the primary CV)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed output")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
