package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/nuwandev/github-stats/internal/display"
	"github.com/nuwandev/github-stats/internal/domain"
	"github.com/nuwandev/github-stats/internal/gateway"
	"github.com/nuwandev/github-stats/internal/usecase"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "Aggregate a user's language statistics across all repositories",
	Long: `Fetches every repository of the given user, merges the per-repository
language byte counts and prints the languages sorted by share. Forks and
private repositories are excluded unless explicitly included.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newRunLogger(cmd)

		user, _ := cmd.Flags().GetString("user")
		format, _ := cmd.Flags().GetString("format")
		limit, _ := cmd.Flags().GetInt("top")
		opts := domain.FilterOptions{}
		opts.IncludeForks, _ = cmd.Flags().GetBool("include-forks")
		opts.IncludePrivate, _ = cmd.Flags().GetBool("include-private")

		token, err := requireToken()
		if err != nil {
			display.Error(os.Stderr, err.Error())
			os.Exit(1)
		}

		githubGateway, err := gateway.NewGitHubGateway(token, logger)
		if err != nil {
			display.Error(os.Stderr, fmt.Sprintf("Failed to create GitHub gateway: %v", err))
			os.Exit(1)
		}
		service := usecase.NewLanguageService(githubGateway, logger)

		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Suffix = " Fetching repositories and languages..."
		s.Start()
		result, err := service.FetchLanguageStats(ctx, user, opts)
		s.Stop()
		if err != nil {
			display.Error(os.Stderr, fmt.Sprintf("Failed to fetch language stats: %v", err))
			os.Exit(1)
		}

		if limit > 0 && len(result.Languages) > limit {
			result.Languages = result.Languages[:limit]
		}

		if format == "json" {
			if err := display.JSON(os.Stdout, result); err != nil {
				display.Error(os.Stderr, fmt.Sprintf("Failed to encode result: %v", err))
				os.Exit(1)
			}
			return
		}
		display.LanguagesTable(os.Stdout, result)
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
	languagesCmd.Flags().StringP("user", "u", "", "Target GitHub user name (required)")
	languagesCmd.MarkFlagRequired("user")
	languagesCmd.Flags().Int("top", 0, "Show only the top N languages (0 = all)")
	languagesCmd.Flags().Bool("include-forks", false, "Include forked repositories")
	languagesCmd.Flags().Bool("include-private", false, "Include private repositories (token owner only)")
	languagesCmd.Flags().String("format", "table", "Output format: table, json")
}
