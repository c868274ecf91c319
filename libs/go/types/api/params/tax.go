package params

import (
	"github.com/cyphera/cyphera-tax/libs/go/types/business"
	"github.com/shopspring/decimal"
)

// RateScheduleParams identifies a schedule to fetch or invalidate
type RateScheduleParams struct {
	Jurisdiction business.Jurisdiction
	EntityType   business.TaxEntityType
	Year         int
}

// Key returns the cache key for the schedule
func (p RateScheduleParams) Key() business.CacheKey {
	return business.NewCacheKey(p.Jurisdiction, p.EntityType, p.Year)
}

// TaxCalculationParams contains parameters for an entity tax calculation
type TaxCalculationParams struct {
	Jurisdiction business.Jurisdiction
	EntityType   business.TaxEntityType
	Year         int
	Income       decimal.Decimal
	Deductions   []business.Deduction
}

// Entity builds the taxpayer the calculation runs for
func (p TaxCalculationParams) Entity() *business.TaxEntity {
	entity := business.NewTaxEntity(p.EntityType, p.Income, p.Year)
	for _, d := range p.Deductions {
		entity.AddDeduction(d.Amount, d.Category)
	}
	return entity
}
