// Package display renders results for the terminal.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/nuwandev/github-stats/internal/domain"
)

var levelPrinters = []*color.Color{
	color.New(color.FgWhite),
	color.New(color.FgGreen),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgHiGreen),
	color.New(color.FgHiGreen, color.Bold),
}

func Error(w io.Writer, msg string) {
	red := color.New(color.FgRed, color.Bold)
	_, _ = red.Fprintf(w, "✗ %s\n", msg)
}

func Success(w io.Writer, msg string) {
	green := color.New(color.FgGreen)
	_, _ = green.Fprintf(w, "✓ %s\n", msg)
}

// JSON pretty-prints any result value.
func JSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// LanguagesTable prints the aggregated language statistics plus the
// repository counts of the fetched and filtered sets.
func LanguagesTable(w io.Writer, result domain.LanguageStatsResult) {
	cyan := color.New(color.FgCyan, color.Bold)
	_, _ = cyan.Fprintln(w, "\nLANGUAGES")
	fmt.Fprintln(w, strings.Repeat("-", 60))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Language", "Bytes", "Repos", "Share"})
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, lang := range result.Languages {
		table.Append([]string{
			lang.Name,
			fmt.Sprintf("%d", lang.Bytes),
			fmt.Sprintf("%d", lang.RepoCount),
			fmt.Sprintf("%.1f%%", lang.Percentage),
		})
	}
	table.Render()

	fmt.Fprintf(w, "\nTotal: %d bytes across %d repositories\n", result.TotalBytes, result.TotalRepos)
	fmt.Fprintf(w, "Fetched: %d repos (%d public, %d private, %d forks)\n",
		result.RepoCounts.Total, result.RepoCounts.Public,
		result.RepoCounts.Private, result.RepoCounts.Forks)
	fmt.Fprintf(w, "Counted: %d repos (%d public, %d private, %d forks)\n",
		result.FilteredRepoCounts.Total, result.FilteredRepoCounts.Public,
		result.FilteredRepoCounts.Private, result.FilteredRepoCounts.Forks)
}

// CalendarGrid prints the calendar as columns of colored blocks, one column
// per week, rows Sunday through Saturday.
func CalendarGrid(w io.Writer, calendar domain.ContributionCalendar) {
	cyan := color.New(color.FgCyan, color.Bold)
	_, _ = cyan.Fprintf(w, "\nCONTRIBUTIONS (%d total)\n", calendar.Total)
	fmt.Fprintln(w, strings.Repeat("-", 60))

	for row := 0; row < 7; row++ {
		for _, week := range calendar.Weeks {
			if row >= len(week.Days) {
				fmt.Fprint(w, " ")
				continue
			}
			level := week.Days[row].Level
			if level < 0 || level >= len(levelPrinters) {
				level = 0
			}
			_, _ = levelPrinters[level].Fprint(w, "■")
		}
		fmt.Fprintln(w)
	}
}

// SummaryTable prints the calendar's descriptive statistics.
func SummaryTable(w io.Writer, summary domain.CalendarSummary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Mean/Day", "Median", "Max", "P90"})
	table.SetBorder(false)
	table.Append([]string{
		fmt.Sprintf("%.2f", summary.Mean),
		fmt.Sprintf("%.1f", summary.Median),
		fmt.Sprintf("%.0f", summary.Max),
		fmt.Sprintf("%.1f", summary.P90),
	})
	table.Render()
}
