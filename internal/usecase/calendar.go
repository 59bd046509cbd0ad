// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"log"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/nuwandev/github-stats/internal/domain"
	"github.com/nuwandev/github-stats/internal/gateway"
)

// CalendarOptions bound the fetched date window. Zero values pick the
// defaults: To is now, From is one year before To.
type CalendarOptions struct {
	From time.Time
	To   time.Time
}

// CalendarService fetches and normalizes a user's contribution calendar.
type CalendarService struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
}

// NewCalendarService creates a new CalendarService instance.
func NewCalendarService(fetcher gateway.Fetcher, logger *log.Logger) *CalendarService {
	return &CalendarService{
		fetcher: fetcher,
		logger:  logger,
	}
}

// FetchCalendar resolves the date window, issues one gateway call for the
// whole range and maps the raw weeks into the normalized calendar. A
// backwards range fails before any network traffic; equal dates are allowed.
func (s *CalendarService) FetchCalendar(ctx context.Context, username string, opts CalendarOptions) (domain.ContributionCalendar, error) {
	to := opts.To
	if to.IsZero() {
		to = time.Now()
	}
	from := opts.From
	if from.IsZero() {
		from = to.AddDate(-1, 0, 0)
	}
	if from.After(to) {
		return domain.ContributionCalendar{}, &domain.InvalidRangeError{Start: from, End: to}
	}

	s.logger.Println("Usecase: fetching contribution calendar...")
	weeks, err := s.fetcher.FetchCalendar(ctx, username, from, to)
	if err != nil {
		return domain.ContributionCalendar{}, err
	}
	return mapCalendar(weeks), nil
}

// mapCalendar is the pure raw-weeks to calendar conversion. The total is
// summed in the same traversal that builds the weeks, so it always matches
// the contained days regardless of what the server reported.
func mapCalendar(raw []gateway.RawWeek) domain.ContributionCalendar {
	calendar := domain.ContributionCalendar{
		Weeks: make([]domain.ContributionWeek, 0, len(raw)),
	}
	for _, rawWeek := range raw {
		week := domain.ContributionWeek{
			Days: make([]domain.ContributionDay, 0, len(rawWeek.ContributionDays)),
		}
		for _, rawDay := range rawWeek.ContributionDays {
			calendar.Total += rawDay.ContributionCount
			week.Days = append(week.Days, domain.ContributionDay{
				Date:  rawDay.Date,
				Count: rawDay.ContributionCount,
				Level: domain.LevelForCount(rawDay.ContributionCount),
			})
		}
		calendar.Weeks = append(calendar.Weeks, week)
	}
	return calendar
}

// Summarize computes descriptive statistics over the calendar's daily counts.
// An empty calendar yields a zero summary.
func Summarize(calendar domain.ContributionCalendar) domain.CalendarSummary {
	var counts []float64
	for _, week := range calendar.Weeks {
		for _, day := range week.Days {
			counts = append(counts, float64(day.Count))
		}
	}
	if len(counts) == 0 {
		return domain.CalendarSummary{}
	}

	// These cannot fail on a non-empty input.
	mean, _ := stats.Mean(counts)
	median, _ := stats.Median(counts)
	max, _ := stats.Max(counts)
	p90, _ := stats.Percentile(counts, 90)

	return domain.CalendarSummary{
		Mean:   mean,
		Median: median,
		Max:    max,
		P90:    p90,
	}
}
