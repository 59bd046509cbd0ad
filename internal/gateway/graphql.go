package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/nuwandev/github-stats/internal/domain"
)

const graphQLEndpoint = "https://api.github.com/graphql"

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphQLErrorEntry struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// graphQLEnvelope is the raw response envelope. Data stays unparsed until the
// envelope has been validated.
type graphQLEnvelope struct {
	Data   json.RawMessage     `json:"data"`
	Errors []graphQLErrorEntry `json:"errors"`
}

// RateLimit is the most recent rate limit metadata reported by the API. It is
// surfaced for callers to inspect; nothing in this package throttles on it.
type RateLimit struct {
	Remaining int
	Reset     time.Time
}

// GraphQLClient posts queries with variables to the GitHub GraphQL endpoint
// and decodes validated responses. It performs no retries.
type GraphQLClient struct {
	httpClient *http.Client
	endpoint   string
	logger     *log.Logger

	mu        sync.Mutex
	rateLimit RateLimit
}

// NewGraphQLClient builds a client whose HTTP transport injects the bearer
// token and waits out secondary rate limits.
func NewGraphQLClient(token string, logger *log.Logger) (*GraphQLClient, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GraphQLClient{
		httpClient: httpClient,
		endpoint:   graphQLEndpoint,
		logger:     logger,
	}, nil
}

// Do executes one GraphQL request and unmarshals the validated data payload
// into out. Server-reported errors take precedence over any partial data.
func (c *GraphQLClient) Do(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	c.recordRateLimit(resp)

	if resp.StatusCode != http.StatusOK {
		return &domain.TransportError{Err: fmt.Errorf("unexpected status %d from %s", resp.StatusCode, c.endpoint)}
	}

	var envelope graphQLEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &domain.TransportError{Err: fmt.Errorf("failed to decode graphql response: %w", err)}
	}

	if err := validateEnvelope(&envelope); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &domain.DataShapeError{Field: "data"}
	}
	return nil
}

// RateLimit returns the metadata observed on the most recent response.
func (c *GraphQLClient) RateLimit() RateLimit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rateLimit
}

func (c *GraphQLClient) recordRateLimit(resp *http.Response) {
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return
	}
	rl := RateLimit{}
	if n, err := strconv.Atoi(remaining); err == nil {
		rl.Remaining = n
	}
	if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		if epoch, err := strconv.ParseInt(reset, 10, 64); err == nil {
			rl.Reset = time.Unix(epoch, 0)
		}
	}
	c.mu.Lock()
	c.rateLimit = rl
	c.mu.Unlock()
	c.logger.Printf("  rate limit: %d remaining", rl.Remaining)
}
