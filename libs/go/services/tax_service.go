package services

import (
	"context"

	taxhttp "github.com/cyphera/cyphera-tax/libs/go/client/http"
	"github.com/cyphera/cyphera-tax/libs/go/client/sources"
	"github.com/cyphera/cyphera-tax/libs/go/clock"
	"github.com/cyphera/cyphera-tax/libs/go/config"
	"github.com/cyphera/cyphera-tax/libs/go/helpers"
	"github.com/cyphera/cyphera-tax/libs/go/interfaces"
	"github.com/cyphera/cyphera-tax/libs/go/logger"
	"github.com/cyphera/cyphera-tax/libs/go/parser"
	"github.com/cyphera/cyphera-tax/libs/go/types/api/params"
	"github.com/cyphera/cyphera-tax/libs/go/types/api/responses"
	"github.com/cyphera/cyphera-tax/libs/go/types/business"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var _ interfaces.TaxService = (*TaxService)(nil)

// TaxService acquires rate schedules through a shared cache and computes
// progressive tax against them
type TaxService struct {
	fetcher    interfaces.RateFetcher
	cache      *RateCache
	calculator *TaxCalculator
	metrics    *taxhttp.CountingMetricsCollector
	clock      clock.Clock
	logger     *zap.Logger
}

type taxServiceOptions struct {
	fetcher interfaces.RateFetcher
	parser  interfaces.ScheduleParser
	clock   clock.Clock
	logger  *zap.Logger
}

// TaxServiceOption configures a TaxService
type TaxServiceOption func(*taxServiceOptions)

// WithFetcher replaces the HTTP fetcher built from config
func WithFetcher(fetcher interfaces.RateFetcher) TaxServiceOption {
	return func(o *taxServiceOptions) { o.fetcher = fetcher }
}

// WithParser replaces the default table and prose parser
func WithParser(p interfaces.ScheduleParser) TaxServiceOption {
	return func(o *taxServiceOptions) { o.parser = p }
}

func WithClock(clk clock.Clock) TaxServiceOption {
	return func(o *taxServiceOptions) { o.clock = clk }
}

func WithLogger(log *zap.Logger) TaxServiceOption {
	return func(o *taxServiceOptions) { o.logger = log }
}

// NewTaxService creates a new tax service. Invalid configuration is rejected
// with an invalid input error.
func NewTaxService(cfg config.Config, opts ...TaxServiceOption) (*TaxService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := taxServiceOptions{
		clock:  clock.Real(),
		logger: logger.Log,
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &TaxService{
		calculator: NewTaxCalculator(),
		metrics:    &taxhttp.CountingMetricsCollector{},
		clock:      o.clock,
		logger:     logger.ForComponent(o.logger, logger.ComponentService),
	}

	if o.fetcher == nil {
		registry := sources.DefaultRegistry()
		if cfg.SourcesFile != "" {
			loaded, err := sources.LoadRegistry(cfg.SourcesFile)
			if err != nil {
				return nil, err
			}
			registry = loaded
		}
		o.fetcher = sources.NewFetcher(cfg,
			sources.WithRegistry(registry),
			sources.WithClock(o.clock),
			sources.WithLogger(logger.ForComponent(o.logger, logger.ComponentFetcher)),
			sources.WithClientOptions(taxhttp.WithMetricsCollector(s.metrics)),
		)
	}
	if o.parser == nil {
		o.parser = parser.New()
	}

	s.fetcher = o.fetcher
	s.cache = NewRateCache(o.fetcher, o.parser,
		WithCacheTTL(cfg.CacheTTL),
		WithCacheClock(o.clock),
		WithCacheLogger(o.logger),
	)
	return s, nil
}

// FetchRates returns the schedule for the jurisdiction, entity type and year,
// fetching and parsing it only when no live cache entry exists
func (s *TaxService) FetchRates(ctx context.Context, jurisdiction business.Jurisdiction, entityType business.TaxEntityType, year int) (*business.RateSchedule, error) {
	key := business.NewCacheKey(jurisdiction, entityType, year)
	if err := key.Validate(s.clock.Now()); err != nil {
		return nil, err
	}
	return s.cache.GetOrFetch(ctx, key)
}

// CalculateTax computes tax owed on income under schedule
func (s *TaxService) CalculateTax(schedule *business.RateSchedule, income decimal.Decimal) (*responses.TaxResult, error) {
	return s.calculator.Compute(schedule, income)
}

// CalculateEntityTax fetches the schedule for the entity's filing and taxes
// its income net of deductions
func (s *TaxService) CalculateEntityTax(ctx context.Context, p params.TaxCalculationParams) (*responses.TaxCalculationResult, error) {
	entity := p.Entity()
	if err := entity.Validate(); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx, s.logger).With(
		zap.String("jurisdiction", p.Jurisdiction.String()),
		zap.String("entity_type", string(p.EntityType)),
		zap.Int("year", p.Year),
		zap.Int("deductions", len(p.Deductions)))

	var result *responses.TaxCalculationResult
	err := logger.LogOperation(log, "calculate_tax", func() error {
		var err error
		result, err = s.calculateEntityTax(ctx, p, entity)
		return err
	})
	return result, err
}

func (s *TaxService) calculateEntityTax(ctx context.Context, p params.TaxCalculationParams, entity *business.TaxEntity) (*responses.TaxCalculationResult, error) {
	schedule, err := s.FetchRates(ctx, p.Jurisdiction, p.EntityType, p.Year)
	if err != nil {
		return nil, err
	}

	result, err := s.calculator.ComputeForEntity(schedule, entity)
	if err != nil {
		return nil, err
	}

	return &responses.TaxCalculationResult{
		Jurisdiction:    schedule.Jurisdiction(),
		EntityType:      schedule.EntityType(),
		Year:            schedule.Year(),
		GrossIncome:     entity.Income,
		TotalDeductions: entity.TotalDeductions(),
		TaxableIncome:   entity.TaxableIncome(),
		Result:          *result,
		FormattedTax:    helpers.FormatCurrency(result.TaxOwed),
		FormattedRate:   helpers.FormatPercent(result.EffectiveRate),
		SourceURL:       schedule.SourceURL(),
		SourceDigest:    schedule.SourceDigest(),
		FetchedAt:       schedule.FetchedAt(),
	}, nil
}

// SupportsJurisdiction reports whether any source publishes tables for the jurisdiction
func (s *TaxService) SupportsJurisdiction(jurisdiction business.Jurisdiction) bool {
	return s.fetcher.Supports(jurisdiction)
}

func (s *TaxService) Invalidate(jurisdiction business.Jurisdiction, entityType business.TaxEntityType, year int) {
	s.cache.Invalidate(business.NewCacheKey(jurisdiction, entityType, year))
}

func (s *TaxService) ClearCache() {
	s.cache.Clear()
}

// CacheStats returns cache counters together with upstream request metrics
func (s *TaxService) CacheStats() responses.CacheStats {
	stats := s.cache.Stats()
	upstream := s.metrics.Snapshot()
	return responses.CacheStats{
		Entries:          stats.Entries,
		Expired:          stats.Expired,
		InFlight:         stats.InFlight,
		Hits:             stats.Hits,
		Misses:           stats.Misses,
		Fetches:          stats.Fetches,
		Failures:         stats.Failures,
		TTLSeconds:       stats.TTL.Seconds(),
		UpstreamRequests: upstream.Requests,
		UpstreamErrors:   upstream.Errors,
		UpstreamRetries:  upstream.Retries,
	}
}
