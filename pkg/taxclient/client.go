// Package taxclient is a Go client for the tax rate HTTP API.
package taxclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cyphera/cyphera-tax/libs/go/constants"
	"github.com/cyphera/cyphera-tax/libs/go/taxerrors"
	"github.com/cyphera/cyphera-tax/libs/go/types/api/responses"

	"github.com/pkg/errors"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 30 * time.Second

	correlationIDHeader = "X-Correlation-ID"
)

type TaxAPIClient struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

type Option func(*TaxAPIClient)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *TaxAPIClient) {
		c.httpClient = httpClient
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *TaxAPIClient) {
		c.userAgent = userAgent
	}
}

func NewTaxAPIClient(baseURL string, opts ...Option) *TaxAPIClient {
	c := &TaxAPIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  constants.ServiceName + "-client/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewTaxAPIClientFromEnv points the client at TAX_API_URL, or DefaultBaseURL
func NewTaxAPIClientFromEnv(opts ...Option) *TaxAPIClient {
	baseURL := os.Getenv(constants.APIBaseURLEnvVar)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return NewTaxAPIClient(baseURL, opts...)
}

// APIError is a non-2xx response from the API. It matches the taxerrors
// sentinel of its kind, so errors.Is works the same on both sides of the wire.
type APIError struct {
	StatusCode    int
	Message       string
	Kind          taxerrors.Kind
	CorrelationID string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	s := taxerrors.Sentinel(e.Kind)
	return s != nil && s == target
}

// doRequest handles the common HTTP request/response logic used across all tax API calls
func (c *TaxAPIClient) doRequest(ctx context.Context, method, endpoint string, body any, queryParams url.Values) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, errors.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to build request")
	}
	if len(queryParams) > 0 {
		req.URL.RawQuery = queryParams.Encode()
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "%s %s failed", method, endpoint)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			StatusCode:    resp.StatusCode,
			Message:       http.StatusText(resp.StatusCode),
			CorrelationID: resp.Header.Get(correlationIDHeader),
		}
		var errResp responses.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
			apiErr.Kind = taxerrors.ParseKind(errResp.Kind)
			if errResp.CorrelationID != "" {
				apiErr.CorrelationID = errResp.CorrelationID
			}
		}
		return nil, resp.StatusCode, errors.Wrap(apiErr, "tax api error")
	}

	return respBody, resp.StatusCode, nil
}

func (c *TaxAPIClient) doJSON(ctx context.Context, method, endpoint string, body any, queryParams url.Values, out any) error {
	respBody, _, err := c.doRequest(ctx, method, endpoint, body, queryParams)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.Wrapf(err, "failed to decode %s response", endpoint)
	}
	return nil
}
