// Package domain contains the core data structures and domain logic for the application.
package domain

// ContributionDay is a single day of the contribution calendar. Level is a
// deterministic bucket of Count, see LevelForCount.
type ContributionDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// ContributionWeek is an ordered run of days as reported by the API. Leading
// and trailing weeks may hold fewer than seven days; they are kept as-is.
type ContributionWeek struct {
	Days []ContributionDay `json:"days"`
}

// ContributionCalendar is the normalized contribution calendar. Total is
// recomputed from the contained days rather than trusted from upstream.
type ContributionCalendar struct {
	Weeks []ContributionWeek `json:"weeks"`
	Total int                `json:"total"`
}

// LevelForCount buckets a raw contribution count into a display intensity
// level between 0 and 4. Boundaries are inclusive on the lower level:
// 0, 1-2, 3-5, 6-10, 11+.
func LevelForCount(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 2:
		return 1
	case count <= 5:
		return 2
	case count <= 10:
		return 3
	default:
		return 4
	}
}

// FilterOptions selects which repositories participate in language
// aggregation. Both default to false: only public non-fork repositories.
type FilterOptions struct {
	IncludeForks   bool
	IncludePrivate bool
}

// LanguageStat is one language's share of the aggregated byte counts.
type LanguageStat struct {
	Name       string  `json:"name"`
	Bytes      int64   `json:"bytes"`
	RepoCount  int     `json:"repo_count"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color,omitempty"`
}

// LanguageStatsResult is the full language aggregation output. Languages is
// sorted by percentage descending, ties keeping first-seen order, and the
// percentages of a non-empty result sum to ~100.
type LanguageStatsResult struct {
	Languages          []LanguageStat `json:"languages"`
	TotalBytes         int64          `json:"total_bytes"`
	TotalRepos         int            `json:"total_repos"`
	RepoCounts         RepoCounts     `json:"repo_counts"`
	FilteredRepoCounts RepoCounts     `json:"filtered_repo_counts"`
}

// RepoCounts are descriptive counts over a repository list snapshot.
// Public+Private and Forks+NonForks both equal Total.
type RepoCounts struct {
	Total    int `json:"total"`
	Public   int `json:"public"`
	Private  int `json:"private"`
	Forks    int `json:"forks"`
	NonForks int `json:"non_forks"`
}

// CalendarSummary holds descriptive statistics over the daily contribution
// counts of one calendar.
type CalendarSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
	P90    float64 `json:"p90"`
}
