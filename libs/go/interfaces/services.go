package interfaces

import (
	"context"

	"github.com/cyphera/cyphera-tax/libs/go/types/api/params"
	"github.com/cyphera/cyphera-tax/libs/go/types/api/responses"
	"github.com/cyphera/cyphera-tax/libs/go/types/business"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=services.go -destination=../mocks/mock_services.go -package=mocks

// TaxService acquires rate schedules and computes progressive tax against them
type TaxService interface {
	FetchRates(ctx context.Context, jurisdiction business.Jurisdiction, entityType business.TaxEntityType, year int) (*business.RateSchedule, error)
	CalculateTax(schedule *business.RateSchedule, income decimal.Decimal) (*responses.TaxResult, error)
	CalculateEntityTax(ctx context.Context, p params.TaxCalculationParams) (*responses.TaxCalculationResult, error)
	SupportsJurisdiction(jurisdiction business.Jurisdiction) bool
	Invalidate(jurisdiction business.Jurisdiction, entityType business.TaxEntityType, year int)
	ClearCache()
	CacheStats() responses.CacheStats
}
