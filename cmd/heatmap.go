package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/nuwandev/github-stats/internal/display"
	"github.com/nuwandev/github-stats/internal/gateway"
	"github.com/nuwandev/github-stats/internal/heatmap"
	"github.com/nuwandev/github-stats/internal/usecase"
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Render a user's contribution calendar as an interactive HTML heatmap",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newRunLogger(cmd)

		user, _ := cmd.Flags().GetString("user")
		output, _ := cmd.Flags().GetString("out")
		title, _ := cmd.Flags().GetString("title")

		opts, err := parseCalendarWindow(cmd)
		if err != nil {
			display.Error(os.Stderr, err.Error())
			os.Exit(1)
		}

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
		service := usecase.NewCalendarService(githubGateway, logger)

		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Suffix = " Fetching contribution calendar..."
		s.Start()
		calendar, err := service.FetchCalendar(ctx, user, opts)
		s.Stop()
		if err != nil {
			display.Error(os.Stderr, fmt.Sprintf("Failed to fetch calendar: %v", err))
			os.Exit(1)
		}

		if title == "" {
			title = fmt.Sprintf("Contributions of %s", user)
		}

		f, err := os.Create(output)
		if err != nil {
			display.Error(os.Stderr, fmt.Sprintf("Failed to create %s: %v", output, err))
			os.Exit(1)
		}
		defer f.Close()

		if err := heatmap.Render(f, calendar, heatmap.Config{Title: title}); err != nil {
			display.Error(os.Stderr, fmt.Sprintf("Failed to render heatmap: %v", err))
			os.Exit(1)
		}
		display.Success(os.Stdout, fmt.Sprintf("Wrote %s (%d contributions)", output, calendar.Total))
	},
}

func init() {
	rootCmd.AddCommand(heatmapCmd)
	heatmapCmd.Flags().StringP("user", "u", "", "Target GitHub user name (required)")
	heatmapCmd.MarkFlagRequired("user")
	heatmapCmd.Flags().String("from", "", "Start date (YYYY/MM/DD, default: one year before end)")
	heatmapCmd.Flags().String("to", "", "End date (YYYY/MM/DD, default: today)")
	heatmapCmd.Flags().String("out", "heatmap.html", "Output HTML file path")
	heatmapCmd.Flags().String("title", "", "Heatmap title override")
}
