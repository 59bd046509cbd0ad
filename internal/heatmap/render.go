package heatmap

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/nuwandev/github-stats/internal/domain"
	"github.com/nuwandev/github-stats/internal/gateway"
	"github.com/nuwandev/github-stats/internal/usecase"
)

// levelColors follows the familiar five-step green scale, index = level.
var levelColors = []string{"#ebedf0", "#9be9a8", "#40c463", "#30a14e", "#216e39"}

var defaultWeekdayLabels = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Config carries the optional display overrides of the rendered chart.
type Config struct {
	Title         string
	WeekdayLabels []string
}

// Render writes the calendar as an interactive HTML heatmap with hover
// tooltips. A calendar without data renders an inline message instead of
// failing, so embedding the output can never break a host page.
func Render(w io.Writer, calendar domain.ContributionCalendar, cfg Config) error {
	if len(calendar.Weeks) == 0 {
		_, err := fmt.Fprintf(w, `<p class="heatmap-empty">%s</p>`,
			html.EscapeString("no contribution data available"))
		return err
	}

	title := cfg.Title
	if title == "" {
		title = "Contributions"
	}
	weekdayLabels := cfg.WeekdayLabels
	if len(weekdayLabels) == 0 {
		weekdayLabels = defaultWeekdayLabels
	}

	// One x-axis slot per week, labeled at month boundaries.
	xLabels := make([]string, len(calendar.Weeks))
	for _, label := range MonthLabels(calendar) {
		xLabels[label.WeekIndex] = label.Label
	}

	var maxCount int
	data := make([]opts.HeatMapData, 0, len(calendar.Weeks)*7)
	for weekIndex, week := range calendar.Weeks {
		for dayIndex, day := range week.Days {
			if day.Count > maxCount {
				maxCount = day.Count
			}
			data = append(data, opts.HeatMapData{
				Name:  day.Date,
				Value: [3]interface{}{weekIndex, dayIndex, day.Count},
			})
		}
	}
	if maxCount == 0 {
		maxCount = 1 // keep the visual map range valid
	}

	chart := charts.NewHeatMap()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       title,
			BackgroundColor: "transparent",
		}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("%s (%d total)", title, calendar.Total)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: xLabels}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: weekdayLabels}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Min: 0,
			Max: float32(maxCount),
			InRange: &opts.VisualMapInRange{
				Color: levelColors,
			},
		}),
	)
	chart.AddSeries("contributions", data)

	return chart.Render(w)
}

// RenderUser fetches the user's calendar itself and renders it, for hosts
// that do not manage the calendar. A missing user or missing contribution
// data becomes an inline message in the output rather than an error, so the
// host page still renders.
func RenderUser(ctx context.Context, w io.Writer, username, token string, cfg Config) error {
	logger := log.New(io.Discard, "", 0)
	githubGateway, err := gateway.NewGitHubGateway(token, logger)
	if err != nil {
		return err
	}
	service := usecase.NewCalendarService(githubGateway, logger)

	calendar, err := service.FetchCalendar(ctx, username, usecase.CalendarOptions{})
	return renderFetched(w, username, calendar, err, cfg)
}

// renderFetched turns a fetch outcome into output. A missing user or missing
// contribution data becomes an inline message; other errors propagate.
func renderFetched(w io.Writer, username string, calendar domain.ContributionCalendar, err error, cfg Config) error {
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			_, werr := fmt.Fprintf(w, `<p class="heatmap-empty">%s</p>`, html.EscapeString(err.Error()))
			return werr
		}
		return err
	}
	if cfg.Title == "" {
		cfg.Title = "Contributions of " + username
	}
	return Render(w, calendar, cfg)
}
