// Package api is the HTTP client for the trend-analysis service.
//
// It speaks two endpoints:
//
//	GET  /api/trends?count=N   -> {"trends": ["...", ...]}
//	POST /api/analyze          -> {"keyword", "category", "ideas"}
//
// Non-2xx responses become *StatusError (carrying the server's {"error"}
// message when present). Network failures wrap ErrTransport and malformed
// bodies wrap ErrPayload, so callers classify with errors.Is / errors.As.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/abelbrown/trendscout/internal/logging"
	"github.com/abelbrown/trendscout/internal/model"
)

const (
	trendsPath  = "/api/trends"
	analyzePath = "/api/analyze"

	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 4 << 20

	userAgent = "trendscout/0.1"
)

var (
	// ErrTransport marks failures to reach the service, including non-2xx
	// statuses (see StatusError.Unwrap).
	ErrTransport = errors.New("transport error")

	// ErrPayload marks a response body that is not the expected JSON shape.
	ErrPayload = errors.New("unexpected payload")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Op         string // "trends" or "analyze"
	StatusCode int
	Message    string // server-provided {"error"} text, may be empty
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
}

// Unwrap lets errors.Is(err, ErrTransport) match status failures.
func (e *StatusError) Unwrap() error {
	return ErrTransport
}

// StatusCode returns the HTTP status behind err, or 0 when err is not a
// *StatusError.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// Client talks to the trend-analysis service.
// Safe for concurrent use.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	newID   func() string

	timeout    time.Duration
	hasTimeout bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.client = h
		}
	}
}

// WithTimeout sets a per-request timeout. Zero means no timeout.
// It applies regardless of option order and never modifies a client
// passed to WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
		c.hasTimeout = true
	}
}

// WithRateLimit limits outgoing requests to perSecond (burst 1).
// Zero or negative disables limiting.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// New creates a Client for the service rooted at baseURL.
// No timeout and no rate limit by default: a hung request stays pending
// until its context is cancelled.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		limiter: rate.NewLimiter(rate.Inf, 1),
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.hasTimeout {
		hc := *c.client
		hc.Timeout = c.timeout
		c.client = &hc
	}
	return c
}

// BaseURL returns the service root this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type trendsResponse struct {
	Trends []string `json:"trends"`
}

// Trends fetches up to count trending keywords.
// An absent or empty "trends" field yields an empty, non-nil catalog.
func (c *Client) Trends(ctx context.Context, count int) (model.TrendCatalog, error) {
	q := url.Values{}
	q.Set("count", strconv.Itoa(count))

	body, err := c.do(ctx, "trends", http.MethodGet, trendsPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp trendsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("trends: %w: %v", ErrPayload, err)
	}
	return model.TrendCatalog(resp.Trends).Clone(), nil
}

type analyzeResponse struct {
	Keyword  string  `json:"keyword"`
	Category *string `json:"category"`
	Ideas    *string `json:"ideas"`
}

// Analyze submits req and returns the analysis result.
func (c *Client) Analyze(ctx context.Context, req model.AnalysisRequest) (model.AnalysisResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return model.AnalysisResult{}, fmt.Errorf("analyze: marshal request: %w", err)
	}

	body, err := c.do(ctx, "analyze", http.MethodPost, analyzePath, payload)
	if err != nil {
		return model.AnalysisResult{}, err
	}

	var resp analyzeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.AnalysisResult{}, fmt.Errorf("analyze: %w: %v", ErrPayload, err)
	}
	if resp.Ideas == nil {
		return model.AnalysisResult{}, fmt.Errorf("analyze: %w: response has no ideas", ErrPayload)
	}

	result := model.AnalysisResult{
		Keyword: resp.Keyword,
		Ideas:   *resp.Ideas,
	}
	if resp.Category != nil {
		result.Category = *resp.Category
	}
	return result, nil
}

// do performs one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, op, method, path string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: rate limiter: %w", op, err)
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	reqID := c.newID()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		logging.Warn("request failed", "op", op, "request_id", reqID, "error", err)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: read body: %w", op, ErrTransport, err)
	}

	logging.Debug("response", "op", op, "request_id", reqID, "status", resp.StatusCode,
		"bytes", len(body), "dur", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
		}
	}
	return body, nil
}

// errorMessage extracts {"error": "..."} from a failure body.
// Returns "" when the body is not JSON or has no error field.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return strings.TrimSpace(e.Error)
}
