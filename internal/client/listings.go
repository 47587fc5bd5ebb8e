package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"car-listings-viewer/internal/model"
)

// ListingsClient talks to the remote listings service
type ListingsClient struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *RateLimiter
	logger      *slog.Logger
}

// Options configures a ListingsClient
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
	// HTTPClient overrides the default instrumented client.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewListingsClient creates a new listings API client
func NewListingsClient(opts Options) *ListingsClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return &ListingsClient{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		rateLimiter: NewRateLimiter(opts.RateLimit, opts.RateBurst),
		logger:      opts.Logger,
	}
}

// BaseURL returns the address relative references are resolved against
func (c *ListingsClient) BaseURL() string {
	return c.baseURL
}

// get performs a GET and returns the body of a 2xx reply
func (c *ListingsClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, &NetworkError{URL: endpoint, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{StatusCode: resp.StatusCode, URL: endpoint, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug("listings api request completed",
		"url", endpoint,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return body, &NetworkError{StatusCode: resp.StatusCode, URL: endpoint, Err: errorFromBody(body)}
	}

	return body, nil
}

// errorFromBody extracts the {"error": "..."} payload of a failed reply
func errorFromBody(body []byte) error {
	var payload model.ErrorResponse
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		return nil
	}
	return errors.New(payload.Error)
}

// FetchListingsPage fetches one page of listing summaries
func (c *ListingsClient) FetchListingsPage(ctx context.Context, page, pageSize int) (*model.ListingsPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(pageSize))
	endpoint := c.baseURL + "/api/listings?" + q.Encode()

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var resp model.ListingsPage
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &MalformedResponseError{Endpoint: "listings", Reason: "invalid JSON", Err: err}
	}
	if resp.Listings == nil {
		return nil, &MalformedResponseError{Endpoint: "listings", Reason: "missing listings array"}
	}
	if resp.Total < 0 {
		return nil, &MalformedResponseError{Endpoint: "listings", Reason: fmt.Sprintf("negative total %d", resp.Total)}
	}
	for i := range resp.Listings {
		if resp.Listings[i].ID == "" {
			return nil, &MalformedResponseError{Endpoint: "listings", Reason: fmt.Sprintf("listing %d has no id", i)}
		}
		resolveListing(c.baseURL, &resp.Listings[i])
	}
	if resp.Page <= 0 {
		resp.Page = page
	}
	if resp.Limit <= 0 {
		resp.Limit = pageSize
	}

	return &resp, nil
}

// FetchListingDetail fetches the full record of one listing
func (c *ListingsClient) FetchListingDetail(ctx context.Context, id string) (*model.ListingDetail, error) {
	endpoint := c.baseURL + "/api/listings/" + url.PathEscape(id)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		if StatusCode(err) == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	var resp model.ListingDetail
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &MalformedResponseError{Endpoint: "listing detail", Reason: "invalid JSON", Err: err}
	}
	if resp.ID == "" {
		return nil, &MalformedResponseError{Endpoint: "listing detail", Reason: "missing id"}
	}
	resolveDetail(c.baseURL, &resp)

	return &resp, nil
}

// FetchAnalysis fetches the aggregate image statistics
func (c *ListingsClient) FetchAnalysis(ctx context.Context) (*model.Analysis, error) {
	body, err := c.get(ctx, c.baseURL+"/api/analysis")
	if err != nil {
		return nil, err
	}

	var resp model.Analysis
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &MalformedResponseError{Endpoint: "analysis", Reason: "invalid JSON", Err: err}
	}

	return &resp, nil
}

// Ping checks that the listings service answers on its root route
func (c *ListingsClient) Ping(ctx context.Context) error {
	_, err := c.get(ctx, c.baseURL+"/")
	return err
}
