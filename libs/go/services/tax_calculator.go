package services

import (
	"github.com/cyphera/cyphera-tax/libs/go/taxerrors"
	"github.com/cyphera/cyphera-tax/libs/go/types/api/responses"
	"github.com/cyphera/cyphera-tax/libs/go/types/business"
	"github.com/shopspring/decimal"
)

// EffectiveRatePrecision is the number of decimal places kept in an effective rate
const EffectiveRatePrecision = 10

// TaxCalculator applies a rate schedule progressively. It holds no state and
// performs no I/O.
type TaxCalculator struct{}

// NewTaxCalculator creates a new tax calculator
func NewTaxCalculator() *TaxCalculator {
	return &TaxCalculator{}
}

// Compute taxes each bracket's portion of income at that bracket's rate.
// Bracket ranges are half-open, so income equal to an upper bound is taxed
// entirely below it and the bound's own bracket supplies the marginal rate.
func (c *TaxCalculator) Compute(schedule *business.RateSchedule, income decimal.Decimal) (*responses.TaxResult, error) {
	if err := checkSchedule(schedule); err != nil {
		return nil, err
	}
	if income.IsNegative() {
		return nil, taxerrors.InvalidInput("compute", "income must not be negative, got %s", income)
	}

	total := decimal.Zero
	marginal := schedule.TopBracket().Rate
	breakdown := make([]responses.BracketTax, 0, schedule.Len())
	for i := 0; i < schedule.Len(); i++ {
		b := schedule.Bracket(i)
		if b.Contains(income) {
			marginal = b.Rate
		}
		if !b.LowerBound.LessThan(income) {
			break
		}

		ceiling := income
		if !b.IsTop() && b.UpperBound.Decimal.LessThan(income) {
			ceiling = b.UpperBound.Decimal
		}
		portion := ceiling.Sub(b.LowerBound)
		tax := portion.Mul(b.Rate)
		total = total.Add(tax)

		breakdown = append(breakdown, responses.BracketTax{
			LowerBound:    b.LowerBound,
			UpperBound:    b.UpperBound,
			Rate:          b.Rate,
			TaxableAmount: portion,
			Tax:           tax,
		})
	}

	effective := decimal.Zero
	if income.IsPositive() {
		effective = total.DivRound(income, EffectiveRatePrecision)
	}

	return &responses.TaxResult{
		Income:        income,
		TaxOwed:       total,
		EffectiveRate: effective,
		MarginalRate:  marginal,
		Breakdown:     breakdown,
	}, nil
}

func checkSchedule(schedule *business.RateSchedule) error {
	if schedule == nil {
		return taxerrors.InvalidInput("compute", "rate schedule is required")
	}
	if schedule.Len() == 0 {
		return taxerrors.InvalidInput("compute", "rate schedule for %s has no brackets", schedule.Key())
	}
	return nil
}

// ComputeForEntity taxes an entity's taxable income. The entity must be valid
// and file for the schedule's year.
func (c *TaxCalculator) ComputeForEntity(schedule *business.RateSchedule, entity *business.TaxEntity) (*responses.TaxResult, error) {
	if err := checkSchedule(schedule); err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, taxerrors.InvalidInput("compute", "tax entity is required")
	}
	if err := entity.Validate(); err != nil {
		return nil, err
	}
	if entity.Year != schedule.Year() {
		return nil, taxerrors.InvalidInput("compute", "tax year mismatch: entity files for %d, schedule covers %d", entity.Year, schedule.Year())
	}
	if entity.EntityType != schedule.EntityType() {
		return nil, taxerrors.InvalidInput("compute", "entity type mismatch: entity is %s, schedule covers %s", entity.EntityType, schedule.EntityType())
	}
	return c.Compute(schedule, entity.TaxableIncome())
}
