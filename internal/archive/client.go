package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"cinefill/internal/logging"
)

const (
	defaultCollection = "kmdb_new2"
	defaultListCount  = 10
	maxListCount      = 10
	maxResponseBytes  = 4 << 20
)

// Query describes one archive search.
type Query struct {
	Title     string
	Year      int
	Director  string
	ListCount int
}

// Client searches the archive by free-text title.
type Client struct {
	apiKey     string
	baseURL    string
	collection string
	listCount  int
	httpClient *http.Client
	limiter    *rate.Limiter
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

// WithLogger sets the logger used for search warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCollection overrides the archive collection searched.
func WithCollection(collection string) Option {
	return func(c *Client) {
		if collection = strings.TrimSpace(collection); collection != "" {
			c.collection = collection
		}
	}
}

// WithListCount sets the result cap used when a Query leaves ListCount zero.
func WithListCount(count int) Option {
	return func(c *Client) {
		if count > 0 {
			c.listCount = clampListCount(count)
		}
	}
}

// WithRateLimit throttles requests to perSecond. Zero or negative disables
// throttling.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// New creates an archive client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("archive api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("archive base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: defaultCollection,
		listCount:  defaultListCount,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, "archive")
	return client, nil
}

// Search returns the sanitized candidates for q. A blank title, a cancelled
// context or any upstream failure yields an empty result.
func (c *Client) Search(ctx context.Context, q Query) []Candidate {
	title := trimQuery(q.Title)
	if title == "" {
		return nil
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			c.logger.Debug("archive search throttle interrupted", logging.Error(err))
			return nil
		}
	}
	candidates, err := c.search(ctx, title, q)
	if err != nil {
		logging.WarnWithContext(c.logger, "archive search failed", "archive_search_failed",
			logging.String("title", title),
			logging.Int("year", q.Year),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "verify archive.api_key and archive.base_url"),
			logging.String(logging.FieldImpact, "search strategy treated as empty"),
		)
		return nil
	}
	c.logger.Debug("archive search completed",
		logging.String("title", title),
		logging.Int("year", q.Year),
		logging.String("director", q.Director),
		logging.Int("results", len(candidates)),
	)
	return candidates
}

func (c *Client) search(ctx context.Context, title string, q Query) ([]Candidate, error) {
	endpoint, err := url.Parse(c.baseURL + "/search_api/search_json2.jsp")
	if err != nil {
		return nil, fmt.Errorf("parse archive url: %w", err)
	}
	listCount := c.listCount
	if q.ListCount > 0 {
		listCount = clampListCount(q.ListCount)
	}
	params := url.Values{}
	params.Set("collection", c.collection)
	params.Set("ServiceKey", c.apiKey)
	params.Set("detail", "Y")
	params.Set("listCount", strconv.Itoa(listCount))
	params.Set("title", title)
	if q.Year > 0 {
		year := strconv.Itoa(q.Year)
		params.Set("releaseDts", year)
		params.Set("releaseDte", year)
	}
	if director := strings.TrimSpace(q.Director); director != "" {
		params.Set("director", director)
	}
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
		return nil, fmt.Errorf("archive search returned %d (latency=%v)", resp.StatusCode, latency)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read archive response: %w", err)
	}
	candidates, err := decodeCandidates(body)
	if err != nil {
		return nil, fmt.Errorf("decode archive response: %w", err)
	}
	return candidates, nil
}

func clampListCount(count int) int {
	switch {
	case count < 1:
		return 1
	case count > maxListCount:
		return maxListCount
	default:
		return count
	}
}
