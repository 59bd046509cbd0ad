package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuwandev/github-stats/internal/domain"
)

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler) (*GitHubGateway, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := log.New(io.Discard, "", 0)
	client := &GraphQLClient{
		httpClient: server.Client(),
		endpoint:   server.URL,
		logger:     logger,
	}
	return &GitHubGateway{client: client, logger: logger}, server
}

// decodeRequest pulls the query and variables out of a captured request body.
func decodeRequest(t *testing.T, r *http.Request) graphQLRequest {
	t.Helper()
	var req graphQLRequest
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
	return req
}

func TestGitHubGateway_FetchCalendar(t *testing.T) {
	testCases := []struct {
		name         string
		responseBody string
		expectWeeks  int
		expectError  bool
		errorCheck   func(t *testing.T, err error)
	}{
		{
			name: "happy path - returns raw weeks",
			responseBody: `{"data":{"user":{"contributionsCollection":{"contributionCalendar":{
				"totalContributions":3,
				"weeks":[{"contributionDays":[{"date":"2025-06-01","contributionCount":3}]}]}}}}}`,
			expectWeeks: 1,
		},
		{
			name:         "user not found - null user",
			responseBody: `{"data":{"user":null}}`,
			expectError:  true,
			errorCheck: func(t *testing.T, err error) {
				var notFound *domain.NotFoundError
				assert.ErrorAs(t, err, &notFound)
			},
		},
		{
			name:         "missing calendar substructure",
			responseBody: `{"data":{"user":{"contributionsCollection":{"contributionCalendar":null}}}}`,
			expectError:  true,
			errorCheck: func(t *testing.T, err error) {
				var notFound *domain.NotFoundError
				assert.ErrorAs(t, err, &notFound)
			},
		},
		{
			name:         "forbidden wins over partial data",
			responseBody: `{"data":{"user":{}},"errors":[{"type":"FORBIDDEN","message":"Resource Forbidden: token scope"}]}`,
			expectError:  true,
			errorCheck: func(t *testing.T, err error) {
				var permission *domain.PermissionError
				assert.ErrorAs(t, err, &permission)
			},
		},
		{
			name:         "generic graphql error",
			responseBody: `{"errors":[{"message":"Something went wrong"}]}`,
			expectError:  true,
			errorCheck: func(t *testing.T, err error) {
				var gqlErr *domain.GraphQLError
				assert.ErrorAs(t, err, &gqlErr)
				assert.Contains(t, gqlErr.Message, "Something went wrong")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				req := decodeRequest(t, r)
				assert.Contains(t, req.Query, "contributionsCollection")
				assert.Equal(t, "octocat", req.Variables["login"])
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, tc.responseBody)
			}
			gw, _ := setupTestGateway(t, http.HandlerFunc(handler))

			to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
			weeks, err := gw.FetchCalendar(context.Background(), "octocat", to.AddDate(-1, 0, 0), to)

			if tc.expectError {
				require.Error(t, err)
				tc.errorCheck(t, err)
			} else {
				require.NoError(t, err)
				assert.Len(t, weeks, tc.expectWeeks)
			}
		})
	}
}

func repoNodeJSON(name string, languagesMore bool) string {
	langPage := `{"hasNextPage":false,"endCursor":""}`
	if languagesMore {
		langPage = `{"hasNextPage":true,"endCursor":"lang-cursor-1"}`
	}
	return fmt.Sprintf(`{
		"name":"%s","owner":{"login":"octocat"},"isFork":false,"isPrivate":false,
		"languages":{"pageInfo":%s,"edges":[{"size":100,"node":{"name":"Go","color":"#00ADD8"}}]}
	}`, name, langPage)
}

// TestGitHubGateway_FetchRepositories_Pagination: three pages of 100 nodes
// with hasNextPage true,true,false must yield exactly 300 repositories and
// stop after the third request.
func TestGitHubGateway_FetchRepositories_Pagination(t *testing.T) {
	var requests int
	handler := func(w http.ResponseWriter, r *http.Request) {
		requests++
		req := decodeRequest(t, r)
		assert.Contains(t, req.Query, "repositories(first: $pageSize")

		switch requests {
		case 1:
			assert.Nil(t, req.Variables["cursor"])
		case 2:
			assert.Equal(t, "cursor-1", req.Variables["cursor"])
		case 3:
			assert.Equal(t, "cursor-2", req.Variables["cursor"])
		default:
			t.Fatalf("unexpected request %d: pagination must stop after the last page", requests)
		}

		nodes := make([]string, 0, 100)
		for i := 0; i < 100; i++ {
			nodes = append(nodes, repoNodeJSON(fmt.Sprintf("repo-%d-%d", requests, i), false))
		}
		hasNext := requests < 3
		fmt.Fprintf(w, `{"data":{"user":{"repositories":{
			"pageInfo":{"hasNextPage":%t,"endCursor":"cursor-%d"},
			"nodes":[%s]}}}}`, hasNext, requests, strings.Join(nodes, ","))
	}
	gw, _ := setupTestGateway(t, http.HandlerFunc(handler))

	repos, err := gw.FetchRepositories(context.Background(), "octocat", domain.FilterOptions{})
	require.NoError(t, err)
	assert.Len(t, repos, 300)
	assert.Equal(t, 3, requests)
}

// TestGitHubGateway_FetchRepositories_LanguageSubPagination: a repository
// whose language list was truncated gets completed by repository-scoped
// follow-up queries, with edges appended in arrival order.
func TestGitHubGateway_FetchRepositories_LanguageSubPagination(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)

		if strings.Contains(req.Query, "repository(owner: $owner") {
			assert.Equal(t, "octocat", req.Variables["owner"])
			assert.Equal(t, "alpha", req.Variables["name"])
			switch req.Variables["cursor"] {
			case "lang-cursor-1":
				fmt.Fprint(w, `{"data":{"repository":{"languages":{
					"pageInfo":{"hasNextPage":true,"endCursor":"lang-cursor-2"},
					"edges":[{"size":50,"node":{"name":"Shell","color":"#89e051"}}]}}}}`)
			case "lang-cursor-2":
				fmt.Fprint(w, `{"data":{"repository":{"languages":{
					"pageInfo":{"hasNextPage":false,"endCursor":""},
					"edges":[{"size":25,"node":{"name":"Makefile","color":""}}]}}}}`)
			default:
				t.Errorf("unexpected language cursor %v", req.Variables["cursor"])
			}
			return
		}

		fmt.Fprintf(w, `{"data":{"user":{"repositories":{
			"pageInfo":{"hasNextPage":false,"endCursor":""},
			"nodes":[%s]}}}}`, repoNodeJSON("alpha", true))
	}
	gw, _ := setupTestGateway(t, http.HandlerFunc(handler))

	repos, err := gw.FetchRepositories(context.Background(), "octocat", domain.FilterOptions{})
	require.NoError(t, err)
	require.Len(t, repos, 1)

	expected := []LanguageEdge{
		{Size: 100, Name: "Go", Color: "#00ADD8"},
		{Size: 50, Name: "Shell", Color: "#89e051"},
		{Size: 25, Name: "Makefile", Color: ""},
	}
	assert.Equal(t, expected, repos[0].Languages)
}

// TestGitHubGateway_FetchRepositories_IdentityMismatch: private access runs
// viewer-scoped and must reject a username that is not the token's login.
func TestGitHubGateway_FetchRepositories_IdentityMismatch(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		assert.Contains(t, req.Query, "viewer")
		fmt.Fprint(w, `{"data":{"viewer":{"login":"someone-else","repositories":{
			"pageInfo":{"hasNextPage":false,"endCursor":""},"nodes":[]}}}}`)
	}
	gw, _ := setupTestGateway(t, http.HandlerFunc(handler))

	_, err := gw.FetchRepositories(context.Background(), "octocat", domain.FilterOptions{IncludePrivate: true})

	var mismatch *domain.IdentityMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "someone-else", mismatch.Viewer)
	assert.Equal(t, "octocat", mismatch.Requested)
}

// TestGitHubGateway_FetchRepositories_ViewerScoped: a matching login is
// accepted case-insensitively.
func TestGitHubGateway_FetchRepositories_ViewerScoped(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"data":{"viewer":{"login":"OctoCat","repositories":{
			"pageInfo":{"hasNextPage":false,"endCursor":""},
			"nodes":[%s]}}}}`, repoNodeJSON("alpha", false))
	}
	gw, _ := setupTestGateway(t, http.HandlerFunc(handler))

	repos, err := gw.FetchRepositories(context.Background(), "octocat", domain.FilterOptions{IncludePrivate: true})
	require.NoError(t, err)
	assert.Len(t, repos, 1)
}

// TestGitHubGateway_FetchRepositories_ErrorAbortsPagination: a failure on a
// later page must abort the whole fetch with no partial result.
func TestGitHubGateway_FetchRepositories_ErrorAbortsPagination(t *testing.T) {
	var requests int
	handler := func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			fmt.Fprintf(w, `{"data":{"user":{"repositories":{
				"pageInfo":{"hasNextPage":true,"endCursor":"cursor-1"},
				"nodes":[%s]}}}}`, repoNodeJSON("alpha", false))
			return
		}
		fmt.Fprint(w, `{"errors":[{"message":"Something went wrong"}]}`)
	}
	gw, _ := setupTestGateway(t, http.HandlerFunc(handler))

	repos, err := gw.FetchRepositories(context.Background(), "octocat", domain.FilterOptions{})
	assert.Error(t, err)
	assert.Nil(t, repos)
}

func TestGraphQLClient_RateLimit(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "4997")
		w.Header().Set("X-RateLimit-Reset", "1750000000")
		fmt.Fprint(w, `{"data":{"user":null}}`)
	}
	gw, _ := setupTestGateway(t, http.HandlerFunc(handler))

	_, err := gw.FetchCalendar(context.Background(), "octocat", time.Now().AddDate(-1, 0, 0), time.Now())
	assert.Error(t, err) // null user, but headers were still recorded

	rl := gw.RateLimit()
	assert.Equal(t, 4997, rl.Remaining)
	assert.Equal(t, time.Unix(1750000000, 0), rl.Reset)
}

func TestGraphQLClient_TransportError(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}
	gw, _ := setupTestGateway(t, http.HandlerFunc(handler))

	_, err := gw.FetchCalendar(context.Background(), "octocat", time.Now().AddDate(-1, 0, 0), time.Now())

	var transportErr *domain.TransportError
	assert.ErrorAs(t, err, &transportErr)
}
