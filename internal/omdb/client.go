package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/cinepedia/cinepedia/internal/domain"
)

const (
	defaultTimeout = 15 * time.Second
	defaultRetries = 3
	defaultBackoff = 500 * time.Millisecond
)

// Not-found answers. These are terminal and returned as data.
const (
	ReasonMovieNotFound = "Movie not found!"
	ReasonIncorrectID   = "Incorrect IMDb ID."
)

func isNotFound(reason string) bool {
	return reason == ReasonMovieNotFound || reason == ReasonIncorrectID
}

// policy tunes fetch for one kind of request
type policy struct {
	retries int
	// terminal reports whether a "Response": "False" answer is returned as data
	terminal func(reason string) bool
}

// previewPolicy makes one plain attempt and hands back any negative answer
var previewPolicy = policy{terminal: func(string) bool { return true }}

func (c *Client) retryPolicy() policy {
	return policy{retries: c.retries, terminal: isNotFound}
}

// StatusError is a non-2xx HTTP answer
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

// APIError is a "Response": "False" answer other than not-found
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "omdb error: " + e.Message
}

// Client implements domain.MetadataRepository against the OMDb API
type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	retries    int
	backoff    time.Duration
	timer      retry.Timer // nil uses real time
	logger     *slog.Logger
}

var _ domain.MetadataRepository = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-attempt HTTP timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRetry sets the number of extra attempts and the initial backoff,
// which doubles after every failed attempt.
func WithRetry(retries int, backoff time.Duration) Option {
	return func(c *Client) {
		if retries >= 0 {
			c.retries = retries
		}
		if backoff >= 0 {
			c.backoff = backoff
		}
	}
}

// WithTimer replaces the clock used for backoff waits
func WithTimer(t retry.Timer) Option {
	return func(c *Client) { c.timer = t }
}

// NewClient creates a new OMDb API client
func NewClient(baseURL, apiKey string, logger *slog.Logger, opts ...Option) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url: %q", baseURL)
	}

	c := &Client{
		baseURL: u,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		retries: defaultRetries,
		backoff: defaultBackoff,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// LookupID fetches full detail for one identifier
func (c *Client) LookupID(ctx context.Context, id string) (domain.Lookup, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Lookup{}, domain.ErrEmptyQuery
	}
	params := url.Values{}
	params.Set("i", id)
	params.Set("plot", "full")
	return c.lookup(ctx, "id", params, c.retryPolicy())
}

// LookupTitle fetches full detail for the best title match. It is a single
// attempt: every negative answer, not only not-found, comes back as data.
func (c *Client) LookupTitle(ctx context.Context, title string) (domain.Lookup, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Lookup{}, domain.ErrEmptyQuery
	}
	params := url.Values{}
	params.Set("t", title)
	params.Set("plot", "full")
	return c.lookup(ctx, "title", params, previewPolicy)
}

// Search returns lightweight matches for a free-text query
func (c *Client) Search(ctx context.Context, query string) (domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.SearchResult{}, domain.ErrEmptyQuery
	}
	params := url.Values{}
	params.Set("s", query)

	resp, err := fetch[searchResponse](ctx, c, "search", params, c.retryPolicy())
	if err != nil {
		requestsTotal.WithLabelValues("search", outcomeFailed).Inc()
		return domain.SearchResult{}, err
	}
	if !resp.ok() {
		requestsTotal.WithLabelValues("search", outcomeNotFound).Inc()
		return domain.SearchResult{Reason: resp.Error}, nil
	}

	requestsTotal.WithLabelValues("search", outcomeFound).Inc()
	return mapSearch(resp), nil
}

func (c *Client) lookup(ctx context.Context, kind string, params url.Values, pol policy) (domain.Lookup, error) {
	resp, err := fetch[detailResponse](ctx, c, kind, params, pol)
	if err != nil {
		requestsTotal.WithLabelValues(kind, outcomeFailed).Inc()
		return domain.Lookup{}, err
	}
	if !resp.ok() {
		requestsTotal.WithLabelValues(kind, outcomeNotFound).Inc()
		return domain.Lookup{Reason: resp.Error}, nil
	}

	requestsTotal.WithLabelValues(kind, outcomeFound).Inc()
	return domain.Lookup{Record: mapDetail(resp), Found: true}, nil
}

type statusCarrier[T any] interface {
	*T
	status() *envelope
}

func (e *envelope) status() *envelope { return e }

// fetch performs one logical request with retry. A decoded terminal answer
// ends the loop; every other failure is retried until the budget runs out.
func fetch[T any, P statusCarrier[T]](ctx context.Context, c *Client, kind string, params url.Values, pol policy) (*T, error) {
	attempt := func() (*T, error) {
		attemptsTotal.WithLabelValues(kind).Inc()

		body, err := c.doRequest(ctx, params)
		if err != nil {
			return nil, err
		}

		out := new(T)
		if err := json.Unmarshal(body, out); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		env := P(out).status()
		if !env.ok() && !pol.terminal(env.Error) {
			return nil, &APIError{Message: env.Error}
		}
		return out, nil
	}

	opts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(uint(pol.retries + 1)),
		retry.Delay(c.backoff),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		// A cancelled caller gets its error back without further attempts
		retry.RetryIf(func(error) bool { return ctx.Err() == nil }),
		retry.OnRetry(func(n uint, err error) {
			retriesTotal.WithLabelValues(kind).Inc()
			c.logger.Warn("omdb request failed, will retry",
				"kind", kind,
				"attempt", n,
				"maxRetries", pol.retries,
				"error", err,
			)
		}),
	}
	if c.timer != nil {
		opts = append(opts, retry.WithTimer(c.timer))
	}

	out, err := retry.DoWithData(attempt, opts...)
	if err != nil {
		c.logger.Error("omdb request failed after retries", "kind", kind, "error", err)
		return nil, err
	}
	return out, nil
}

// doRequest performs a single GET and returns the body of a 2xx answer
func (c *Client) doRequest(ctx context.Context, params url.Values) ([]byte, error) {
	q := c.baseURL.Query()
	for k, vs := range params {
		q[k] = vs
	}
	q.Set("apikey", c.apiKey)

	u := *c.baseURL
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("omdb request", "params", params.Encode())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
