package responses

import (
	"time"

	"github.com/cyphera/cyphera-tax/libs/go/types/business"
	"github.com/shopspring/decimal"
)

// BracketTax is the share of income taxed within one bracket
type BracketTax struct {
	LowerBound    decimal.Decimal     `json:"lower_bound" swaggertype:"string"`
	UpperBound    decimal.NullDecimal `json:"upper_bound" swaggertype:"string"`
	Rate          decimal.Decimal     `json:"rate" swaggertype:"string"`
	TaxableAmount decimal.Decimal     `json:"taxable_amount" swaggertype:"string"`
	Tax           decimal.Decimal     `json:"tax" swaggertype:"string"`
}

// TaxResult is the outcome of a progressive calculation. TaxOwed is exact;
// EffectiveRate is rounded half away from zero to 10 decimal places.
type TaxResult struct {
	Income        decimal.Decimal `json:"income" swaggertype:"string"`
	TaxOwed       decimal.Decimal `json:"tax_owed" swaggertype:"string"`
	EffectiveRate decimal.Decimal `json:"effective_rate" swaggertype:"string"`
	MarginalRate  decimal.Decimal `json:"marginal_rate" swaggertype:"string"`
	Breakdown     []BracketTax    `json:"breakdown"`
}

// TaxCalculationResult is a TaxResult for an entity together with the schedule it used
type TaxCalculationResult struct {
	Jurisdiction    business.Jurisdiction  `json:"jurisdiction"`
	EntityType      business.TaxEntityType `json:"entity_type"`
	Year            int                    `json:"year"`
	GrossIncome     decimal.Decimal        `json:"gross_income" swaggertype:"string"`
	TotalDeductions decimal.Decimal        `json:"total_deductions" swaggertype:"string"`
	TaxableIncome   decimal.Decimal        `json:"taxable_income" swaggertype:"string"`
	Result          TaxResult              `json:"result"`
	FormattedTax    string                 `json:"formatted_tax_owed"`
	FormattedRate   string                 `json:"formatted_effective_rate"`
	SourceURL       string                 `json:"source_url"`
	SourceDigest    string                 `json:"source_digest"`
	FetchedAt       time.Time              `json:"fetched_at"`
}

// RateScheduleResponse wraps a schedule for the API
type RateScheduleResponse struct {
	Object   string                 `json:"object"`
	Schedule *business.RateSchedule `json:"schedule"`
}

// CacheStats describes the rate cache and upstream traffic
type CacheStats struct {
	Entries          int     `json:"entries"`
	Expired          int     `json:"expired"`
	InFlight         int64   `json:"in_flight"`
	Hits             int64   `json:"hits"`
	Misses           int64   `json:"misses"`
	Fetches          int64   `json:"fetches"`
	Failures         int64   `json:"failures"`
	TTLSeconds       float64 `json:"ttl_seconds"`
	UpstreamRequests int64   `json:"upstream_requests"`
	UpstreamErrors   int64   `json:"upstream_errors"`
	UpstreamRetries  int64   `json:"upstream_retries"`
}

// HealthResponse is returned by the health check endpoint
type HealthResponse struct {
	Status  string    `json:"status"`
	Service string    `json:"service"`
	Stage   string    `json:"stage"`
	Time    time.Time `json:"time"`
}
