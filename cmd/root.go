// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "github-stats",
	Short: "Fetch GitHub contribution calendars and language statistics.",
	Long: `github-stats fetches a user's contribution calendar and per-language
code-size statistics from the GitHub GraphQL API. The calendar can be printed,
exported as JSON or rendered as an interactive HTML heatmap.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// A missing .env is fine; the environment may already carry the token.
	_ = godotenv.Load()

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}

// newRunLogger builds the logger for one command run: silent by default,
// standard error when --verbose is set.
func newRunLogger(cmd *cobra.Command) *log.Logger {
	logger := log.New(io.Discard, "", log.LstdFlags)
	if verbose, _ := cmd.InheritedFlags().GetBool("verbose"); verbose {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// requireToken resolves the GitHub token from the environment.
func requireToken() (string, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return "", fmt.Errorf("GITHUB_TOKEN environment variable is not set")
	}
	return token, nil
}
