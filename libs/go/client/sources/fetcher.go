package sources

import (
	"context"
	"errors"
	"fmt"
	"time"

	taxhttp "github.com/cyphera/cyphera-tax/libs/go/client/http"
	"github.com/cyphera/cyphera-tax/libs/go/clock"
	"github.com/cyphera/cyphera-tax/libs/go/config"
	"github.com/cyphera/cyphera-tax/libs/go/logger"
	"github.com/cyphera/cyphera-tax/libs/go/taxerrors"
	"github.com/cyphera/cyphera-tax/libs/go/types/business"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const htmlAccept = "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8"

// Fetcher retrieves raw source documents. It never caches.
type Fetcher struct {
	client   *taxhttp.HTTPClient
	registry *Registry
	clock    clock.Clock
	log      *zap.Logger

	clientOptions []taxhttp.ClientOption
}

// FetcherOption configures a Fetcher
type FetcherOption func(*Fetcher)

// WithHTTPClient replaces the client built from config
func WithHTTPClient(client *taxhttp.HTTPClient) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithClientOptions adds options to the client built from config
func WithClientOptions(options ...taxhttp.ClientOption) FetcherOption {
	return func(f *Fetcher) {
		f.clientOptions = append(f.clientOptions, options...)
	}
}

func WithRegistry(registry *Registry) FetcherOption {
	return func(f *Fetcher) {
		f.registry = registry
	}
}

func WithClock(clk clock.Clock) FetcherOption {
	return func(f *Fetcher) {
		f.clock = clk
	}
}

func WithLogger(log *zap.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.log = log
	}
}

// NewHTTPClient builds the retrying client the fetcher uses from cfg
func NewHTTPClient(cfg config.Config, options ...taxhttp.ClientOption) *taxhttp.HTTPClient {
	retry := taxhttp.DefaultRetryConfig()
	retry.MaxRetries = cfg.MaxRetries
	retry.InitialInterval = cfg.InitialBackoff
	retry.MaxInterval = cfg.MaxBackoff

	base := []taxhttp.ClientOption{
		taxhttp.WithAttemptTimeout(cfg.Timeout),
		taxhttp.WithRetryConfig(retry),
		taxhttp.WithUserAgent(cfg.UserAgent),
		taxhttp.WithDefaultHeader("Accept", htmlAccept),
	}
	return taxhttp.NewHTTPClient(append(base, options...)...)
}

// NewFetcher creates a fetcher over the built-in registry unless one is given
func NewFetcher(cfg config.Config, options ...FetcherOption) *Fetcher {
	f := &Fetcher{
		clock: clock.Real(),
	}
	for _, option := range options {
		option(f)
	}
	if f.registry == nil {
		f.registry = DefaultRegistry()
	}
	if f.log == nil {
		f.log = logger.ForComponent(logger.Log, logger.ComponentFetcher)
	}
	if f.client == nil {
		base := []taxhttp.ClientOption{taxhttp.WithClock(f.clock), taxhttp.WithLogger(f.log)}
		f.client = NewHTTPClient(cfg, append(base, f.clientOptions...)...)
	}
	return f
}

// Supports reports whether any source publishes tables for the jurisdiction
func (f *Fetcher) Supports(j business.Jurisdiction) bool {
	return f.registry.Supports(j)
}

// Fetch resolves key to candidate URLs and returns the first document that
// downloads successfully. When every candidate fails the last failure is
// returned: a transport failure or timeout as a network error, an HTTP error
// status as source unavailable.
func (f *Fetcher) Fetch(ctx context.Context, key business.CacheKey) (*business.SourceDocument, error) {
	const op = "fetch"

	urls, err := f.registry.Resolve(key)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx, f.log).With(
		zap.String("cache_key", key.String()),
		zap.String("fetch_id", uuid.NewString()),
	)

	var lastErr error
	for i, url := range urls {
		start := time.Now()
		resp, err := f.client.GetBytes(ctx, url)
		if err == nil {
			log.Info("Fetched rate source",
				zap.String("url", url),
				zap.Int("candidate", i+1),
				zap.Int("attempts", resp.Attempts),
				zap.Int("bytes", len(resp.Body)),
				zap.Duration("duration", time.Since(start)))
			return &business.SourceDocument{
				Key:       key,
				URL:       url,
				Body:      resp.Body,
				FetchedAt: f.clock.Now(),
			}, nil
		}

		lastErr = classify(op, url, err)
		if ctx.Err() != nil {
			return nil, lastErr
		}
		log.Warn("Rate source candidate failed",
			zap.String("url", url),
			zap.Int("candidate", i+1),
			zap.Int("candidates", len(urls)),
			zap.Error(err))
	}

	return nil, lastErr
}

func classify(op, url string, err error) error {
	var httpErr *taxhttp.HTTPError
	if errors.As(err, &httpErr) {
		e := taxerrors.SourceUnavailable(op, httpErr.StatusCode, fmt.Sprintf("GET %s returned %d", url, httpErr.StatusCode))
		e.Err = err
		return e
	}
	return taxerrors.Network(op, fmt.Sprintf("GET %s failed", url), err)
}
