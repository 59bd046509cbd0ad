// Package heatmap presents a contribution calendar as a grid: it tracks the
// tooltip hover state for host UIs and renders an interactive HTML chart.
// It never mutates the calendar it displays and performs no network calls of
// its own.
package heatmap

import (
	"fmt"
	"time"

	"github.com/nuwandev/github-stats/internal/domain"
)

// Model tracks which cell of the rendered grid the pointer is over. It has
// two states: idle and hovering over one day at a screen position. The model
// lives for the component's lifetime; there is no terminal state.
type Model struct {
	day      domain.ContributionDay
	x, y     int
	hovering bool
}

// EnterCell moves the model to the hovering state for the given day and
// pointer position. Entering a cell with no date (grid padding) is treated as
// leaving. Moving between cells transitions directly without passing idle.
func (m *Model) EnterCell(day domain.ContributionDay, x, y int) {
	if day.Date == "" {
		m.Leave()
		return
	}
	m.day = day
	m.x = x
	m.y = y
	m.hovering = true
}

// Leave returns the model to the idle state.
func (m *Model) Leave() {
	*m = Model{}
}

// Hovering reports the hovered day and pointer position, and whether the
// model is in the hovering state at all.
func (m *Model) Hovering() (domain.ContributionDay, int, int, bool) {
	return m.day, m.x, m.y, m.hovering
}

// TooltipText is the human-readable tooltip for the current state, empty
// when idle.
func (m *Model) TooltipText() string {
	if !m.hovering {
		return ""
	}
	switch m.day.Count {
	case 0:
		return fmt.Sprintf("No contributions on %s", m.day.Date)
	case 1:
		return fmt.Sprintf("1 contribution on %s", m.day.Date)
	default:
		return fmt.Sprintf("%d contributions on %s", m.day.Count, m.day.Date)
	}
}

// MonthLabel places a month name above a week column.
type MonthLabel struct {
	WeekIndex int
	Label     string
}

// MonthLabels derives the month boundary labels for a calendar: scanning
// weeks in order, a label is emitted whenever the first day's month differs
// from the previously emitted month, so the first labelable week always gets
// one. Weeks without a parseable first day are skipped.
func MonthLabels(calendar domain.ContributionCalendar) []MonthLabel {
	var labels []MonthLabel
	var last time.Month // zero value matches no real month

	for i, week := range calendar.Weeks {
		if len(week.Days) == 0 {
			continue
		}
		day, err := time.Parse("2006-01-02", week.Days[0].Date)
		if err != nil {
			continue
		}
		if day.Month() != last {
			last = day.Month()
			labels = append(labels, MonthLabel{WeekIndex: i, Label: day.Format("Jan")})
		}
	}
	return labels
}
