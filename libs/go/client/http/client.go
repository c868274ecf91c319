package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cyphera/cyphera-tax/libs/go/clock"
	"github.com/cyphera/cyphera-tax/libs/go/logger"
	"go.uber.org/zap"
)

// DefaultMaxBodySize caps how much of a response body is read
const DefaultMaxBodySize = 10 << 20

// RequestOption represents a function that can modify an HTTP request
type RequestOption func(*http.Request)

// ClientOption represents a function that can modify the HTTP client
type ClientOption func(*HTTPClient)

// Middleware represents a function that wraps an http.RoundTripper
type Middleware func(http.RoundTripper) http.RoundTripper

// HTTPError represents an error status returned from an HTTP request
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
	Method     string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s failed with status %d %s", e.Method, e.URL, e.StatusCode, e.Status)
}

// HTTPClient performs requests with per-attempt timeouts and exponential
// backoff retries
type HTTPClient struct {
	httpClient     *http.Client
	baseURL        string
	defaultHeaders map[string]string
	attemptTimeout time.Duration
	maxBodySize    int64
	retryConfig    *RetryConfig
	middlewares    []Middleware
	metrics        MetricsCollector
	clock          clock.Clock
	log            *zap.Logger
}

// RetryConfig configures the retry behavior. MaxRetries counts retries after
// the first attempt, so zero means a single attempt.
type RetryConfig struct {
	MaxRetries           int
	InitialInterval      time.Duration
	MaxInterval          time.Duration
	Multiplier           float64
	RetryableStatusCodes []int
}

// MetricsCollector defines an interface for collecting metrics
type MetricsCollector interface {
	RecordRequestDuration(method, path string, statusCode int, duration time.Duration)
	RecordRequestCount(method, path string, statusCode int)
	RecordRequestError(method, path string)
	RecordRetry(method, path string)
}

// DefaultRetryConfig provides sensible defaults for retries
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:           3,
		InitialInterval:      100 * time.Millisecond,
		MaxInterval:          10 * time.Second,
		Multiplier:           2.0,
		RetryableStatusCodes: []int{408, 429, 500, 502, 503, 504},
	}
}

// NewHTTPClient creates a new HTTPClient with the given options
func NewHTTPClient(options ...ClientOption) *HTTPClient {
	client := &HTTPClient{
		httpClient: &http.Client{},
		defaultHeaders: map[string]string{
			"Accept": "application/json",
		},
		attemptTimeout: 10 * time.Second,
		maxBodySize:    DefaultMaxBodySize,
		retryConfig:    DefaultRetryConfig(),
		metrics:        &NoopMetricsCollector{},
		clock:          clock.Real(),
	}

	for _, option := range options {
		option(client)
	}

	if len(client.middlewares) > 0 {
		transport := client.httpClient.Transport
		if transport == nil {
			transport = http.DefaultTransport
		}

		// Apply middlewares in reverse order so the first one is outermost
		for i := len(client.middlewares) - 1; i >= 0; i-- {
			transport = client.middlewares[i](transport)
		}
		client.httpClient.Transport = transport
	}

	return client
}

// WithBaseURL sets the base URL for all requests
func WithBaseURL(baseURL string) ClientOption {
	return func(c *HTTPClient) {
		c.baseURL = baseURL
	}
}

// WithDefaultHeader adds a default header to all requests
func WithDefaultHeader(key, value string) ClientOption {
	return func(c *HTTPClient) {
		c.defaultHeaders[key] = value
	}
}

// WithUserAgent sets the User-Agent header for all requests
func WithUserAgent(userAgent string) ClientOption {
	return WithDefaultHeader("User-Agent", userAgent)
}

// WithAttemptTimeout bounds every individual attempt, including reading the body
func WithAttemptTimeout(timeout time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.attemptTimeout = timeout
	}
}

// WithRetryConfig sets the retry configuration
func WithRetryConfig(config *RetryConfig) ClientOption {
	return func(c *HTTPClient) {
		c.retryConfig = config
	}
}

// WithMiddleware adds a middleware to the client
func WithMiddleware(middleware Middleware) ClientOption {
	return func(c *HTTPClient) {
		c.middlewares = append(c.middlewares, middleware)
	}
}

// WithMetricsCollector sets the metrics collector
func WithMetricsCollector(collector MetricsCollector) ClientOption {
	return func(c *HTTPClient) {
		c.metrics = collector
	}
}

// WithTransport replaces the underlying round tripper
func WithTransport(transport http.RoundTripper) ClientOption {
	return func(c *HTTPClient) {
		c.httpClient.Transport = transport
	}
}

// WithClock sets the clock used to wait between retries
func WithClock(clk clock.Clock) ClientOption {
	return func(c *HTTPClient) {
		c.clock = clk
	}
}

// WithLogger sets the logger; the global logger is used otherwise
func WithLogger(log *zap.Logger) ClientOption {
	return func(c *HTTPClient) {
		c.log = log
	}
}

// WithHeader adds a header to the request
func WithHeader(key, value string) RequestOption {
	return func(req *http.Request) {
		req.Header.Set(key, value)
	}
}

// WithQueryParam adds a query parameter to the request
func WithQueryParam(key, value string) RequestOption {
	return func(req *http.Request) {
		q := req.URL.Query()
		q.Add(key, value)
		req.URL.RawQuery = q.Encode()
	}
}

// Response is a fully read HTTP response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	URL        string
	Attempts   int
}

// GetBytes performs a GET and returns the fully read body
func (c *HTTPClient) GetBytes(ctx context.Context, path string, options ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, options...)
}

// Post performs an HTTP POST request with a JSON body
func (c *HTTPClient) Post(ctx context.Context, path string, body interface{}, options ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, options...)
}

// Delete performs an HTTP DELETE request
func (c *HTTPClient) Delete(ctx context.Context, path string, options ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, options...)
}

// Do executes the request, retrying transport failures, attempt timeouts and
// retryable statuses. Any other status >= 400 is returned as *HTTPError
// without retrying. Cancelling ctx stops retrying immediately.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body interface{}, options ...RequestOption) (*Response, error) {
	start := time.Now()
	log := logger.FromContext(ctx, c.logger())

	fullURL, err := c.buildURL(path)
	if err != nil {
		return nil, err
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var result *Response
	attempts := 0
	operation := func() error {
		attempts++
		resp, err := c.attempt(ctx, method, fullURL, payload, options)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		if resp.StatusCode >= 400 {
			httpErr := &HTTPError{
				StatusCode: resp.StatusCode,
				Status:     http.StatusText(resp.StatusCode),
				URL:        fullURL,
				Method:     method,
				Body:       truncate(string(resp.Body), 512),
			}
			if !c.isRetryableStatus(resp.StatusCode) {
				return backoff.Permanent(httpErr)
			}
			return httpErr
		}
		result = resp
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.metrics.RecordRetry(method, path)
		log.Warn("HTTP attempt failed, retrying",
			zap.String("method", method),
			zap.String("url", fullURL),
			zap.Int("attempt", attempts),
			zap.Duration("backoff", wait),
			zap.Error(err))
	}

	requestErr := backoff.RetryNotifyWithTimer(operation, c.newBackOff(ctx), notify, &clockTimer{clock: c.clock})

	duration := time.Since(start)
	statusCode := 0
	if result != nil {
		statusCode = result.StatusCode
	} else {
		var httpErr *HTTPError
		if errors.As(requestErr, &httpErr) {
			statusCode = httpErr.StatusCode
		}
	}
	c.metrics.RecordRequestDuration(method, path, statusCode, duration)
	c.metrics.RecordRequestCount(method, path, statusCode)

	if requestErr != nil {
		c.metrics.RecordRequestError(method, path)
		log.Warn("HTTP request failed",
			zap.String("method", method),
			zap.String("url", fullURL),
			zap.Int("attempts", attempts),
			zap.Error(requestErr),
			zap.Duration("duration", duration))
		return nil, fmt.Errorf("http request failed after %d attempt(s): %w", attempts, requestErr)
	}

	result.Attempts = attempts
	log.Debug("HTTP request successful",
		zap.String("method", method),
		zap.String("url", fullURL),
		zap.Int("status", result.StatusCode),
		zap.Int("attempts", attempts),
		zap.Duration("duration", duration))

	return result, nil
}

// attempt runs one request under the per-attempt timeout and reads the body
// before the timeout context is released
func (c *HTTPClient) attempt(ctx context.Context, method, fullURL string, payload []byte, options []RequestOption) (*Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(attemptCtx, method, fullURL, bodyReader)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	for key, value := range c.defaultHeaders {
		req.Header.Set(key, value)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, option := range options {
		option(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
		URL:        fullURL,
	}, nil
}

func (c *HTTPClient) buildURL(path string) (string, error) {
	if c.baseURL == "" {
		if _, err := url.ParseRequestURI(path); err != nil {
			return "", fmt.Errorf("invalid path used without base URL: %s, error: %w", path, err)
		}
		return path, nil
	}
	trimmedPath := path
	if !strings.HasPrefix(trimmedPath, "/") {
		trimmedPath = "/" + trimmedPath
	}
	return strings.TrimSuffix(c.baseURL, "/") + trimmedPath, nil
}

func (c *HTTPClient) newBackOff(ctx context.Context) backoff.BackOff {
	cfg := c.retryConfig
	if cfg == nil {
		cfg = &RetryConfig{}
	}
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = cfg.InitialInterval
	expBackoff.MaxInterval = cfg.MaxInterval
	if cfg.Multiplier > 0 {
		expBackoff.Multiplier = cfg.Multiplier
	}
	// The retry budget is counted in attempts, not elapsed time
	expBackoff.MaxElapsedTime = 0
	expBackoff.Reset()

	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(expBackoff, uint64(retries)), ctx)
}

func (c *HTTPClient) isRetryableStatus(code int) bool {
	if c.retryConfig == nil {
		return false
	}
	for _, retryable := range c.retryConfig.RetryableStatusCodes {
		if code == retryable {
			return true
		}
	}
	return false
}

func (c *HTTPClient) logger() *zap.Logger {
	if c.log != nil {
		return c.log
	}
	return logger.Log
}

func (c *HTTPClient) GetBaseURL() string {
	return c.baseURL
}

// DecodeJSON decodes a response body into target
func DecodeJSON(resp *Response, target interface{}) error {
	if err := json.Unmarshal(resp.Body, target); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", resp.URL, err)
	}
	return nil
}

// clockTimer adapts clock.Clock to backoff.Timer so retry waits follow the
// injected clock
type clockTimer struct {
	clock clock.Clock
	ch    <-chan time.Time
}

func (t *clockTimer) Start(d time.Duration) { t.ch = t.clock.After(d) }
func (t *clockTimer) Stop()                 {}
func (t *clockTimer) C() <-chan time.Time   { return t.ch }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
