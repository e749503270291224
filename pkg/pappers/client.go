// Package pappers provides a client for the Pappers company-registry API:
// suggestion search, full company profiles, and ownership cartography.
package pappers

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/pappers-sync/internal/model"
	"github.com/sells-group/pappers-sync/internal/resilience"
)

const (
	defaultBaseURL        = "https://api.pappers.fr/v2"
	defaultSuggestionsURL = "https://suggestions.pappers.fr/v2"
	defaultSuggestionLen  = 10
)

// Client defines the registry operations used by the sync workflow.
type Client interface {
	// SearchByText returns deduplicated candidates for a free-text query.
	// It degrades to an empty slice on any network or HTTP failure.
	SearchByText(ctx context.Context, query string) []model.CompanyCandidate

	// FetchDetail fetches the full profile for a SIRET. When includeScoring
	// is set, the supplementary financial-scoring field is requested.
	// Returns (nil, nil) on fetch failure; callers must check for nil.
	FetchDetail(ctx context.Context, siret string, includeScoring bool) (*model.CompanyDetail, error)

	// FetchEstablishments lists the open establishments of a SIREN.
	FetchEstablishments(ctx context.Context, siren string) ([]model.Establishment, error)

	// FetchCartography fetches the ownership graph for a SIREN. Unlike the
	// search and detail lookups, failures propagate to the caller.
	FetchCartography(ctx context.Context, siren string) (*model.CartographySnapshot, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the main API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithSuggestionsURL overrides the suggestions host.
func WithSuggestionsURL(u string) Option {
	return func(c *httpClient) { c.suggestionsURL = u }
}

// WithSuggestionLen sets the number of suggestions requested per target.
func WithSuggestionLen(n int) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.suggestionLen = n
		}
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithRateLimit caps requests per second across all endpoints.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

// WithRetry overrides the retry settings for transient failures.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) { c.retry = cfg }
}

type httpClient struct {
	apiToken       string
	baseURL        string
	suggestionsURL string
	suggestionLen  int
	http           *http.Client
	limiter        *rate.Limiter
	retry          resilience.RetryConfig
}

// NewClient creates a Pappers API client.
func NewClient(apiToken string, opts ...Option) Client {
	c := &httpClient{
		apiToken:       apiToken,
		baseURL:        defaultBaseURL,
		suggestionsURL: defaultSuggestionsURL,
		suggestionLen:  defaultSuggestionLen,
		retry:          resilience.DefaultRetryConfig(),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// get performs a rate-limited, retried GET and returns the response body.
// Non-2xx statuses are errors; 429/5xx are marked transient for the retrier.
func (c *httpClient) get(ctx context.Context, rawURL string, op string) ([]byte, error) {
	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, eris.Wrap(err, "pappers: rate limit")
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, eris.Wrapf(err, "pappers: build %s request", op)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, eris.Wrapf(err, "pappers: %s request", op)
		}
		defer resp.Body.Close() //nolint:errcheck

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrapf(err, "pappers: read %s response", op)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			err := eris.Errorf("pappers: %s returned status %d", op, resp.StatusCode)
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, resilience.NewTransientError(err, resp.StatusCode)
			}
			return nil, err
		}

		return body, nil
	})
}

// entrepriseURL builds /entreprise?… with the API token and extra params.
func (c *httpClient) entrepriseURL(params url.Values) string {
	params.Set("api_token", c.apiToken)
	return c.baseURL + "/entreprise?" + params.Encode()
}
