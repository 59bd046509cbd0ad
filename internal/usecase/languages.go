package usecase

import (
	"context"
	"log"
	"sort"

	"github.com/nuwandev/github-stats/internal/domain"
	"github.com/nuwandev/github-stats/internal/gateway"
)

// DefaultTopLanguages is the cutoff used when TopLanguages is called with a
// non-positive limit.
const DefaultTopLanguages = 10

// LanguageService aggregates per-language byte counts across all of a user's
// repositories.
type LanguageService struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
}

// NewLanguageService creates a new LanguageService instance.
func NewLanguageService(fetcher gateway.Fetcher, logger *log.Logger) *LanguageService {
	return &LanguageService{
		fetcher: fetcher,
		logger:  logger,
	}
}

// FetchLanguageStats fetches every repository page, filters out forks and
// private repositories unless requested, and folds the language edges into a
// sorted, percentage-annotated result. Counts are reported for both the full
// fetched set and the filtered set.
func (s *LanguageService) FetchLanguageStats(ctx context.Context, username string, opts domain.FilterOptions) (domain.LanguageStatsResult, error) {
	s.logger.Println("Usecase: fetching language statistics...")

	repos, err := s.fetcher.FetchRepositories(ctx, username, opts)
	if err != nil {
		return domain.LanguageStatsResult{}, err
	}

	filtered := filterRepositories(repos, opts)
	s.logger.Printf("Usecase: aggregating %d of %d repositories", len(filtered), len(repos))

	result := aggregateLanguages(filtered)
	result.TotalRepos = len(filtered)
	result.RepoCounts = countRepos(repos)
	result.FilteredRepoCounts = countRepos(filtered)
	return result, nil
}

// TopLanguages is a thin projection over FetchLanguageStats.
func (s *LanguageService) TopLanguages(ctx context.Context, username string, limit int, opts domain.FilterOptions) ([]domain.LanguageStat, error) {
	if limit <= 0 {
		limit = DefaultTopLanguages
	}
	result, err := s.FetchLanguageStats(ctx, username, opts)
	if err != nil {
		return nil, err
	}
	if len(result.Languages) > limit {
		return result.Languages[:limit], nil
	}
	return result.Languages, nil
}

func filterRepositories(repos []gateway.Repository, opts domain.FilterOptions) []gateway.Repository {
	filtered := make([]gateway.Repository, 0, len(repos))
	for _, repo := range repos {
		if repo.IsFork && !opts.IncludeForks {
			continue
		}
		if repo.IsPrivate && !opts.IncludePrivate {
			continue
		}
		filtered = append(filtered, repo)
	}
	return filtered
}

// languageRecord is the per-language accumulator. It is local to one
// aggregation pass and never shared across calls.
type languageRecord struct {
	bytes int64
	repos map[string]struct{}
	color string
}

// aggregateLanguages folds all language edges into per-language byte totals,
// distinct repository counts and a representative color. For a non-empty
// result the percentages sum to ~100 and the slice is sorted by percentage
// descending, ties keeping first-seen order.
func aggregateLanguages(repos []gateway.Repository) domain.LanguageStatsResult {
	records := make(map[string]*languageRecord)
	var order []string

	for _, repo := range repos {
		if len(repo.Languages) == 0 {
			continue
		}
		repoKey := repo.Name
		if repo.Owner != "" {
			repoKey = repo.Owner + "/" + repo.Name
		}
		for _, edge := range repo.Languages {
			record, ok := records[edge.Name]
			if !ok {
				record = &languageRecord{repos: make(map[string]struct{})}
				records[edge.Name] = record
				order = append(order, edge.Name)
			}
			record.bytes += edge.Size
			record.repos[repoKey] = struct{}{}
			if record.color == "" && edge.Color != "" {
				record.color = edge.Color
			}
		}
	}

	var totalBytes int64
	for _, record := range records {
		totalBytes += record.bytes
	}

	result := domain.LanguageStatsResult{
		Languages:  []domain.LanguageStat{},
		TotalBytes: totalBytes,
	}
	if totalBytes == 0 {
		return result
	}

	languages := make([]domain.LanguageStat, 0, len(order))
	for _, name := range order {
		record := records[name]
		languages = append(languages, domain.LanguageStat{
			Name:       name,
			Bytes:      record.bytes,
			RepoCount:  len(record.repos),
			Percentage: 100 * float64(record.bytes) / float64(totalBytes),
			Color:      record.color,
		})
	}
	sort.SliceStable(languages, func(i, j int) bool {
		return languages[i].Percentage > languages[j].Percentage
	})
	result.Languages = languages
	return result
}

// countRepos derives descriptive counts from a repository list snapshot.
func countRepos(repos []gateway.Repository) domain.RepoCounts {
	counts := domain.RepoCounts{Total: len(repos)}
	for _, repo := range repos {
		if repo.IsPrivate {
			counts.Private++
		}
		if repo.IsFork {
			counts.Forks++
		}
	}
	counts.Public = counts.Total - counts.Private
	counts.NonForks = counts.Total - counts.Forks
	return counts
}
