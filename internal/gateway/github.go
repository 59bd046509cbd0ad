// Package gateway provides a gateway to the GitHub GraphQL API, turning its
// paginated, loosely-typed responses into validated value types.
package gateway

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/nuwandev/github-stats/internal/domain"
)

const repoPageSize = 100

// LanguageEdge is one (language, byte-size) pair reported for a repository.
type LanguageEdge struct {
	Size  int64
	Name  string
	Color string
}

// Repository is the transient repository shape consumed by the aggregator.
// Languages is appended to by the sub-paginator when the server truncated the
// initial edge list.
type Repository struct {
	Name      string
	Owner     string
	IsFork    bool
	IsPrivate bool
	Languages []LanguageEdge
}

// RawDay and RawWeek mirror the calendar substructure of the API response.
type RawDay struct {
	Date              string `json:"date"`
	ContributionCount int    `json:"contributionCount"`
}

type RawWeek struct {
	ContributionDays []RawDay `json:"contributionDays"`
}

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	FetchCalendar(ctx context.Context, username string, from, to time.Time) ([]RawWeek, error)
	FetchRepositories(ctx context.Context, username string, opts domain.FilterOptions) ([]Repository, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	client *GraphQLClient
	logger *log.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *log.Logger) (*GitHubGateway, error) {
	client, err := NewGraphQLClient(token, logger)
	if err != nil {
		return nil, err
	}
	return &GitHubGateway{client: client, logger: logger}, nil
}

// RateLimit exposes the rate limit metadata seen on the latest response.
func (g *GitHubGateway) RateLimit() RateLimit {
	return g.client.RateLimit()
}

const calendarQuery = `
query($login: String!, $from: DateTime!, $to: DateTime!) {
  user(login: $login) {
    contributionsCollection(from: $from, to: $to) {
      contributionCalendar {
        totalContributions
        weeks {
          contributionDays {
            date
            contributionCount
          }
        }
      }
    }
  }
}`

type calendarData struct {
	User *struct {
		ContributionsCollection struct {
			ContributionCalendar *struct {
				TotalContributions int       `json:"totalContributions"`
				Weeks              []RawWeek `json:"weeks"`
			} `json:"contributionCalendar"`
		} `json:"contributionsCollection"`
	} `json:"user"`
}

// FetchCalendar retrieves the raw contribution weeks for one date range. The
// calendar field returns the whole range in a single response, so no
// pagination happens here.
func (g *GitHubGateway) FetchCalendar(ctx context.Context, username string, from, to time.Time) ([]RawWeek, error) {
	g.logger.Printf("Fetching contribution calendar for %s (%s .. %s)",
		username, from.Format("2006-01-02"), to.Format("2006-01-02"))

	variables := map[string]interface{}{
		"login": username,
		"from":  from.Format(time.RFC3339),
		"to":    to.Format(time.RFC3339),
	}

	var data calendarData
	if err := g.client.Do(ctx, calendarQuery, variables, &data); err != nil {
		return nil, err
	}
	if data.User == nil {
		return nil, &domain.NotFoundError{Resource: "user " + username}
	}
	calendar := data.User.ContributionsCollection.ContributionCalendar
	if calendar == nil {
		return nil, &domain.NotFoundError{Resource: "contribution data for " + username}
	}
	g.logger.Printf("Fetched %d calendar weeks", len(calendar.Weeks))
	return calendar.Weeks, nil
}

const userRepositoriesQuery = `
query($login: String!, $pageSize: Int!, $cursor: String) {
  user(login: $login) {
    repositories(first: $pageSize, after: $cursor, ownerAffiliations: OWNER, privacy: PUBLIC) {
      pageInfo {
        hasNextPage
        endCursor
      }
      nodes {
        name
        owner { login }
        isFork
        isPrivate
        languages(first: 100, orderBy: {field: SIZE, direction: DESC}) {
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
    }
  }
}`

const viewerRepositoriesQuery = `
query($pageSize: Int!, $cursor: String) {
  viewer {
    login
    repositories(first: $pageSize, after: $cursor, ownerAffiliations: OWNER) {
      pageInfo {
        hasNextPage
        endCursor
      }
      nodes {
        name
        owner { login }
        isFork
        isPrivate
        languages(first: 100, orderBy: {field: SIZE, direction: DESC}) {
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
    }
  }
}`

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type languageConnection struct {
	PageInfo pageInfo `json:"pageInfo"`
	Edges    []struct {
		Size int64 `json:"size"`
		Node struct {
			Name  string `json:"name"`
			Color string `json:"color"`
		} `json:"node"`
	} `json:"edges"`
}

type repositoryNode struct {
	Name  string `json:"name"`
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
	IsFork    bool               `json:"isFork"`
	IsPrivate bool               `json:"isPrivate"`
	Languages languageConnection `json:"languages"`
}

type repositoryConnection struct {
	PageInfo pageInfo         `json:"pageInfo"`
	Nodes    []repositoryNode `json:"nodes"`
}

type userRepositoriesData struct {
	User *struct {
		Repositories *repositoryConnection `json:"repositories"`
	} `json:"user"`
}

type viewerRepositoriesData struct {
	Viewer struct {
		Login        string                `json:"login"`
		Repositories *repositoryConnection `json:"repositories"`
	} `json:"viewer"`
}

// FetchRepositories collects every repository page for the user. When private
// repositories are requested the query runs viewer-scoped, which requires the
// token to belong to the requested username. Public-only fetches filter
// privacy server-side; forks are left for the caller to filter. Any failure
// aborts the whole pagination with no partial result.
func (g *GitHubGateway) FetchRepositories(ctx context.Context, username string, opts domain.FilterOptions) ([]Repository, error) {
	g.logger.Printf("Fetching repositories for %s (forks=%t private=%t)",
		username, opts.IncludeForks, opts.IncludePrivate)

	var repos []Repository
	var truncated []languageCursor
	var cursor interface{} // nil on the first page

	for {
		connection, err := g.fetchRepositoryPage(ctx, username, opts.IncludePrivate, cursor)
		if err != nil {
			return nil, err
		}

		for _, node := range connection.Nodes {
			repos = append(repos, Repository{
				Name:      node.Name,
				Owner:     node.Owner.Login,
				IsFork:    node.IsFork,
				IsPrivate: node.IsPrivate,
				Languages: convertEdges(node.Languages),
			})
			if node.Languages.PageInfo.HasNextPage {
				truncated = append(truncated, languageCursor{
					repoIndex: len(repos) - 1,
					cursor:    node.Languages.PageInfo.EndCursor,
				})
			}
		}

		if !connection.PageInfo.HasNextPage {
			break
		}
		cursor = connection.PageInfo.EndCursor
		g.logger.Println("  Fetching next page of repositories...")
	}

	if err := g.fetchRemainingLanguages(ctx, repos, truncated); err != nil {
		return nil, err
	}

	g.logger.Printf("Fetched %d repositories", len(repos))
	return repos, nil
}

func (g *GitHubGateway) fetchRepositoryPage(ctx context.Context, username string, viewerScoped bool, cursor interface{}) (*repositoryConnection, error) {
	variables := map[string]interface{}{
		"pageSize": repoPageSize,
		"cursor":   cursor,
	}

	if viewerScoped {
		var data viewerRepositoriesData
		if err := g.client.Do(ctx, viewerRepositoriesQuery, variables, &data); err != nil {
			return nil, err
		}
		if !strings.EqualFold(data.Viewer.Login, username) {
			return nil, &domain.IdentityMismatchError{Viewer: data.Viewer.Login, Requested: username}
		}
		if data.Viewer.Repositories == nil {
			return nil, &domain.DataShapeError{Field: "viewer.repositories"}
		}
		return data.Viewer.Repositories, nil
	}

	variables["login"] = username
	var data userRepositoriesData
	if err := g.client.Do(ctx, userRepositoriesQuery, variables, &data); err != nil {
		return nil, err
	}
	if data.User == nil {
		return nil, &domain.NotFoundError{Resource: "user " + username}
	}
	if data.User.Repositories == nil {
		return nil, &domain.DataShapeError{Field: "user.repositories"}
	}
	return data.User.Repositories, nil
}

func convertEdges(connection languageConnection) []LanguageEdge {
	if len(connection.Edges) == 0 {
		return nil
	}
	edges := make([]LanguageEdge, 0, len(connection.Edges))
	for _, edge := range connection.Edges {
		edges = append(edges, LanguageEdge{
			Size:  edge.Size,
			Name:  edge.Node.Name,
			Color: edge.Node.Color,
		})
	}
	return edges
}
