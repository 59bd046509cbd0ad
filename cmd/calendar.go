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
	"github.com/nuwandev/github-stats/internal/usecase"
)

const inputDateLayout = "2006/01/02"

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Fetch and display a user's contribution calendar",
	Long: `Fetches the contribution calendar for a GitHub user over a date range
(default: the last year) and prints it as a colored grid or as JSON.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newRunLogger(cmd)

		user, _ := cmd.Flags().GetString("user")
		format, _ := cmd.Flags().GetString("format")
		withSummary, _ := cmd.Flags().GetBool("summary")

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

		if format == "json" {
			if err := display.JSON(os.Stdout, calendar); err != nil {
				display.Error(os.Stderr, fmt.Sprintf("Failed to encode result: %v", err))
				os.Exit(1)
			}
			return
		}

		display.CalendarGrid(os.Stdout, calendar)
		if withSummary {
			display.SummaryTable(os.Stdout, usecase.Summarize(calendar))
		}
	},
}

// parseCalendarWindow reads the optional --from/--to flags. Range validation
// itself belongs to the calendar service.
func parseCalendarWindow(cmd *cobra.Command) (usecase.CalendarOptions, error) {
	var opts usecase.CalendarOptions

	if fromStr, _ := cmd.Flags().GetString("from"); fromStr != "" {
		from, err := time.Parse(inputDateLayout, fromStr)
		if err != nil {
			return opts, fmt.Errorf("invalid --from date, use YYYY/MM/DD: %w", err)
		}
		opts.From = from
	}
	if toStr, _ := cmd.Flags().GetString("to"); toStr != "" {
		to, err := time.Parse(inputDateLayout, toStr)
		if err != nil {
			return opts, fmt.Errorf("invalid --to date, use YYYY/MM/DD: %w", err)
		}
		opts.To = to
	}
	return opts, nil
}

func init() {
	rootCmd.AddCommand(calendarCmd)
	calendarCmd.Flags().StringP("user", "u", "", "Target GitHub user name (required)")
	calendarCmd.MarkFlagRequired("user")
	calendarCmd.Flags().String("from", "", "Start date (YYYY/MM/DD, default: one year before end)")
	calendarCmd.Flags().String("to", "", "End date (YYYY/MM/DD, default: today)")
	calendarCmd.Flags().String("format", "grid", "Output format: grid, json")
	calendarCmd.Flags().Bool("summary", false, "Print summary statistics of daily counts")
}
