package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cinefill/internal/logging"
)

// Client looks up registry records by registry id.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithLogger sets the logger used for lookup warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

var (
	errMissingAPIKey  = errors.New("registry api key required")
	errMissingBaseURL = errors.New("registry base url required")
)

// New creates a registry client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errMissingAPIKey
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errMissingBaseURL
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, "registry")
	return client, nil
}

// Lookup fetches the record for registryID. The boolean is false when the id
// is blank or the registry returned nothing usable.
func (c *Client) Lookup(ctx context.Context, registryID string) (Movie, bool) {
	registryID = strings.TrimSpace(registryID)
	if registryID == "" {
		return Movie{}, false
	}
	movie, err := c.fetch(ctx, registryID)
	if err != nil {
		logging.WarnWithContext(c.logger, "registry lookup failed", "registry_lookup_failed",
			logging.String(logging.FieldRegistryID, registryID),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "verify registry.api_key and registry.base_url"),
			logging.String(logging.FieldImpact, "record treated as absent from the registry"),
		)
		return Movie{}, false
	}
	if movie == nil {
		c.logger.Debug("registry returned no record", logging.String(logging.FieldRegistryID, registryID))
		return Movie{}, false
	}
	return *movie, true
}

func (c *Client) fetch(ctx context.Context, registryID string) (*Movie, error) {
	endpoint, err := url.Parse(c.baseURL + "/movie/searchMovieInfo.json")
	if err != nil {
		return nil, fmt.Errorf("parse registry url: %w", err)
	}
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("movieCd", registryID)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry lookup returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode registry response: %w", err)
	}
	if payload.FaultInfo != nil {
		return nil, fmt.Errorf("registry fault %s: %s", payload.FaultInfo.ErrorCode, payload.FaultInfo.Message)
	}
	if payload.MovieInfoResult == nil || payload.MovieInfoResult.MovieInfo == nil {
		return nil, nil
	}
	movie := payload.MovieInfoResult.MovieInfo.toMovie(registryID)
	if movie.Title == "" && movie.EnglishTitle == "" {
		return nil, nil
	}
	return &movie, nil
}
