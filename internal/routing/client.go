package routing

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mrz1836/logosrc/internal/chain"
	"github.com/mrz1836/logosrc/internal/metrics"
	logoerr "github.com/mrz1836/logosrc/pkg/errors"
)

const (
	// httpTimeout is the default HTTP request timeout.
	httpTimeout = 15 * time.Second

	// maxResponseBody is the maximum response body size to read (1 MB).
	maxResponseBody = 1 << 20

	// rateLimitKey is the limiter bucket shared by every quote request.
	rateLimitKey = "routing-api"
)

// errorResponse is the body the routing API returns on failure.
type errorResponse struct {
	ErrorCode string `json:"errorCode"`
	Detail    string `json:"detail"`
}

// Client calls the routing API quote endpoint.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *chain.RateLimiter
	retry       chain.RetryConfig
}

// ClientOptions configures the routing client.
type ClientOptions struct {
	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
	// RateLimiter overrides the default limiter.
	RateLimiter *chain.RateLimiter
	// Retry overrides the retry configuration.
	Retry *chain.RetryConfig
}

// NewClient creates a routing API client for baseURL.
func NewClient(baseURL string, opts *ClientOptions) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, logoerr.WithDetails(logoerr.ErrInvalidInput, map[string]string{
			"reason": "routing api url is empty",
		})
	}

	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: httpTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			},
		},
		rateLimiter: chain.NewRateLimiter(2, 4),
		retry:       chain.DefaultRetryConfig(),
	}

	if opts != nil {
		if opts.HTTPClient != nil {
			c.httpClient = opts.HTTPClient
		}
		if opts.RateLimiter != nil {
			c.rateLimiter = opts.RateLimiter
		}
		if opts.Retry != nil {
			c.retry = *opts.Retry
		}
	}

	return c, nil
}

// GetQuote fetches a quote for req. A 404 or a NO_ROUTE error code maps to
// ErrNoRoute; other failures map to ErrQuoteFailed.
func (c *Client) GetQuote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	start := time.Now()
	quote, err := chain.RetryWithConfig(ctx, c.retry, func() (*Quote, error) {
		return c.doRequest(ctx, req)
	})
	metrics.Global.RecordQuote(time.Since(start), err)
	return quote, err
}

// QuoteURL returns the request URL for req.
func (c *Client) QuoteURL(req QuoteRequest) string {
	amount := "0"
	if req.Amount.Raw != nil {
		amount = req.Amount.Raw.Dec()
	}

	params := url.Values{}
	params.Set("tokenInAddress", req.TokenIn.WrappedAddress())
	params.Set("tokenInChainId", strconv.FormatUint(uint64(req.TokenIn.ChainID), 10))
	params.Set("tokenOutAddress", req.TokenOut.WrappedAddress())
	params.Set("tokenOutChainId", strconv.FormatUint(uint64(req.TokenOut.ChainID), 10))
	params.Set("amount", amount)
	params.Set("type", req.TradeType.String())

	return c.baseURL + "/quote?" + params.Encode()
}

func (c *Client) doRequest(ctx context.Context, req QuoteRequest) (*Quote, error) {
	if err := c.rateLimiter.Wait(ctx, rateLimitKey); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.QuoteURL(req), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq) //nolint:gosec // G704: URL is built from the configured routing api
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, chain.WrapRetryable(logoerr.Wrap(logoerr.ErrNetworkError, "sending quote request: %v", err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, chain.WrapRetryable(fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, body)
	}

	var quote Quote
	if err := json.Unmarshal(body, &quote); err != nil {
		return nil, logoerr.Wrap(logoerr.ErrQuoteFailed, "decoding quote: %v", err)
	}
	return &quote, nil
}

// statusError maps a non-200 response to a structured error.
func statusError(status int, body []byte) error {
	var apiErr errorResponse
	_ = json.Unmarshal(body, &apiErr)

	if status == http.StatusNotFound || apiErr.ErrorCode == "NO_ROUTE" {
		return logoerr.WithDetails(logoerr.ErrNoRoute, map[string]string{
			"status": strconv.Itoa(status),
		})
	}

	details := map[string]string{"status": strconv.Itoa(status)}
	if apiErr.ErrorCode != "" {
		details["code"] = apiErr.ErrorCode
	}
	if apiErr.Detail != "" {
		details["detail"] = apiErr.Detail
	}
	err := logoerr.WithDetails(logoerr.ErrQuoteFailed, details)

	if chain.RetryableStatus(status) {
		return chain.WrapRetryable(err)
	}
	return err
}
