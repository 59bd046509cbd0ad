package gateway

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/nuwandev/github-stats/internal/domain"
)

// languageCursor marks a repository whose language edge list was truncated
// server-side, along with the cursor to resume from.
type languageCursor struct {
	repoIndex int
	cursor    string
}

const repositoryLanguagesQuery = `
query($owner: String!, $name: String!, $cursor: String) {
  repository(owner: $owner, name: $name) {
    languages(first: 100, after: $cursor, orderBy: {field: SIZE, direction: DESC}) {
      pageInfo {
        hasNextPage
        endCursor
      }
      edges {
        size
        node {
          name
          color
        }
      }
    }
  }
}`

type repositoryLanguagesData struct {
	Repository *struct {
		Languages languageConnection `json:"languages"`
	} `json:"repository"`
}

// fetchRemainingLanguages completes the language edge lists of repositories
// whose first page was truncated. Repositories are independent and fetched in
// parallel; pages within one repository stay sequential because each page's
// cursor comes from the previous response. Every goroutine appends only to
// the slice of its own repository.
func (g *GitHubGateway) fetchRemainingLanguages(ctx context.Context, repos []Repository, truncated []languageCursor) error {
	if len(truncated) == 0 {
		return nil
	}
	g.logger.Printf("  %d repositories have more language pages", len(truncated))

	eg, egCtx := errgroup.WithContext(ctx)
	for _, entry := range truncated {
		entry := entry
		eg.Go(func() error {
			repo := &repos[entry.repoIndex]
			cursor := entry.cursor
			for {
				connection, err := g.fetchLanguagePage(egCtx, repo.Owner, repo.Name, cursor)
				if err != nil {
					return err
				}
				repo.Languages = append(repo.Languages, convertEdges(*connection)...)
				if !connection.PageInfo.HasNextPage {
					return nil
				}
				cursor = connection.PageInfo.EndCursor
			}
		})
	}
	return eg.Wait()
}

func (g *GitHubGateway) fetchLanguagePage(ctx context.Context, owner, name, cursor string) (*languageConnection, error) {
	variables := map[string]interface{}{
		"owner":  owner,
		"name":   name,
		"cursor": cursor,
	}

	var data repositoryLanguagesData
	if err := g.client.Do(ctx, repositoryLanguagesQuery, variables, &data); err != nil {
		return nil, err
	}
	if data.Repository == nil {
		return nil, &domain.NotFoundError{Resource: "repository " + owner + "/" + name}
	}
	return &data.Repository.Languages, nil
}
