package services_test

import (
	"math/rand"
	"testing"

	"github.com/cyphera/cyphera-tax/libs/go/services"
	"github.com/cyphera/cyphera-tax/libs/go/taxerrors"
	"github.com/cyphera/cyphera-tax/libs/go/types/business"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxCalculator_Compute(t *testing.T) {
	calc := services.NewTaxCalculator()
	schedule := scenarioSchedule(t)

	tests := []struct {
		name          string
		income        string
		wantTax       string
		wantEffective string
		wantMarginal  string
		wantBrackets  int
	}{
		{name: "zero income", income: "0", wantTax: "0", wantEffective: "0", wantMarginal: "0.10", wantBrackets: 0},
		{name: "inside first bracket", income: "5000", wantTax: "500", wantEffective: "0.1", wantMarginal: "0.10", wantBrackets: 1},
		{name: "exactly on first boundary", income: "10000", wantTax: "1000", wantEffective: "0.1", wantMarginal: "0.12", wantBrackets: 1},
		{name: "exactly on second boundary", income: "40000", wantTax: "4600", wantEffective: "0.115", wantMarginal: "0.22", wantBrackets: 2},
		{name: "reaches top bracket", income: "50000", wantTax: "6800", wantEffective: "0.136", wantMarginal: "0.22", wantBrackets: 3},
		{name: "fractional cents stay exact", income: "10000.01", wantTax: "1000.0012", wantEffective: "0.1000000200", wantMarginal: "0.12", wantBrackets: 2},
		{name: "repeating effective rate is rounded", income: "30000", wantTax: "3400", wantEffective: "0.1133333333", wantMarginal: "0.12", wantBrackets: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := calc.Compute(schedule, d(tt.income))
			require.NoError(t, err)

			assert.True(t, result.TaxOwed.Equal(d(tt.wantTax)), "tax owed %s", result.TaxOwed)
			assert.True(t, result.EffectiveRate.Equal(d(tt.wantEffective)), "effective rate %s", result.EffectiveRate)
			assert.True(t, result.MarginalRate.Equal(d(tt.wantMarginal)), "marginal rate %s", result.MarginalRate)
			assert.Len(t, result.Breakdown, tt.wantBrackets)

			sum := decimal.Zero
			for _, b := range result.Breakdown {
				sum = sum.Add(b.Tax)
			}
			assert.True(t, sum.Equal(result.TaxOwed), "breakdown sums to %s", sum)
		})
	}
}

func TestTaxCalculator_ScenarioBreakdown(t *testing.T) {
	result, err := services.NewTaxCalculator().Compute(scenarioSchedule(t), d("50000"))
	require.NoError(t, err)
	require.Len(t, result.Breakdown, 3)

	expected := []struct{ portion, tax string }{
		{"10000", "1000"},
		{"30000", "3600"},
		{"10000", "2200"},
	}
	for i, e := range expected {
		assert.True(t, result.Breakdown[i].TaxableAmount.Equal(d(e.portion)), "bracket %d portion", i)
		assert.True(t, result.Breakdown[i].Tax.Equal(d(e.tax)), "bracket %d tax", i)
	}
	assert.False(t, result.Breakdown[2].UpperBound.Valid)
}

func TestTaxCalculator_InvalidInput(t *testing.T) {
	calc := services.NewTaxCalculator()

	_, err := calc.Compute(nil, d("100"))
	assert.ErrorIs(t, err, taxerrors.ErrInvalidInput)

	_, err = calc.Compute(scenarioSchedule(t), d("-0.01"))
	assert.ErrorIs(t, err, taxerrors.ErrInvalidInput)

	empty := &business.RateSchedule{}
	assert.NotPanics(t, func() {
		_, err = calc.Compute(empty, d("100"))
	})
	assert.ErrorIs(t, err, taxerrors.ErrInvalidInput)

	assert.NotPanics(t, func() {
		_, err = calc.ComputeForEntity(empty, business.NewTaxEntity(business.EntityIndividual, d("100"), 2024))
	})
	assert.ErrorIs(t, err, taxerrors.ErrInvalidInput)
}

func TestTaxCalculator_ContinuousAtBoundaries(t *testing.T) {
	calc := services.NewTaxCalculator()
	schedule := scenarioSchedule(t)

	for i := 0; i < schedule.Len()-1; i++ {
		below := schedule.Bracket(i)
		boundary := below.UpperBound.Decimal
		for _, eps := range []string{"1", "0.01", "0.000001"} {
			epsilon := d(eps)
			at, err := calc.Compute(schedule, boundary)
			require.NoError(t, err)
			before, err := calc.Compute(schedule, boundary.Sub(epsilon))
			require.NoError(t, err)

			diff := at.TaxOwed.Sub(before.TaxOwed)
			assert.True(t, diff.Equal(epsilon.Mul(below.Rate)), "jump of %s at %s", diff, boundary)
		}
	}
}

func generatedSchedule(t *testing.T, r *rand.Rand) *business.RateSchedule {
	n := 1 + r.Intn(8)
	brackets := make([]business.TaxBracket, 0, n)
	lower := decimal.Zero
	rate := decimal.New(int64(r.Intn(20)), -2)
	for i := 0; i < n; i++ {
		if i == n-1 {
			brackets = append(brackets, business.NewTopBracket(lower, rate))
			break
		}
		upper := lower.Add(decimal.New(int64(1+r.Intn(5000000)), -2))
		brackets = append(brackets, business.NewBracket(lower, upper, rate))
		lower = upper
		rate = decimal.Min(decimal.NewFromInt(1), rate.Add(decimal.New(int64(r.Intn(10)), -2)))
	}
	return scheduleFor(t, scenarioKey(), brackets)
}

func TestTaxCalculator_GeneratedSchedules(t *testing.T) {
	calc := services.NewTaxCalculator()
	r := rand.New(rand.NewSource(99))

	for i := 0; i < 300; i++ {
		schedule := generatedSchedule(t, r)

		zero, err := calc.Compute(schedule, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, zero.TaxOwed.IsZero())
		assert.True(t, zero.EffectiveRate.IsZero())

		previous := decimal.Zero
		for j := 0; j < 10; j++ {
			income := decimal.New(int64(r.Intn(10000000)), -2).Add(previous)
			result, err := calc.Compute(schedule, income)
			require.NoError(t, err)

			assert.False(t, result.TaxOwed.IsNegative())
			assert.True(t, result.EffectiveRate.LessThanOrEqual(schedule.TopBracket().Rate))
			assert.True(t, result.TaxOwed.LessThanOrEqual(income.Mul(schedule.TopBracket().Rate)))
			previous = income
		}
	}
}

func TestTaxCalculator_TaxIsMonotonic(t *testing.T) {
	calc := services.NewTaxCalculator()
	schedule := scenarioSchedule(t)

	last := decimal.NewFromInt(-1)
	for income := int64(0); income <= 60000; income += 250 {
		result, err := calc.Compute(schedule, decimal.NewFromInt(income))
		require.NoError(t, err)
		assert.True(t, result.TaxOwed.GreaterThanOrEqual(last), "tax decreased at %d", income)
		last = result.TaxOwed
	}
}

func TestTaxCalculator_ComputeForEntity(t *testing.T) {
	calc := services.NewTaxCalculator()
	schedule := scenarioSchedule(t)

	tests := []struct {
		name    string
		entity  *business.TaxEntity
		wantTax string
		wantErr error
	}{
		{
			name: "deductions reduce taxable income",
			entity: func() *business.TaxEntity {
				e := business.NewTaxEntity(business.EntityIndividual, d("60000"), 2024)
				e.AddDeduction(d("7500"), business.DeductionPersonal)
				e.AddDeduction(d("2500"), business.DeductionCharitable)
				return e
			}(),
			wantTax: "6800",
		},
		{
			name: "deductions beyond income leave nothing taxable",
			entity: func() *business.TaxEntity {
				e := business.NewTaxEntity(business.EntityIndividual, d("1000"), 2024)
				e.AddDeduction(d("5000"), business.DeductionBusiness)
				return e
			}(),
			wantTax: "0",
		},
		{
			name:    "year mismatch",
			entity:  business.NewTaxEntity(business.EntityIndividual, d("1000"), 2023),
			wantErr: taxerrors.ErrInvalidInput,
		},
		{
			name:    "entity type mismatch",
			entity:  business.NewTaxEntity(business.EntityMarriedJoint, d("1000"), 2024),
			wantErr: taxerrors.ErrInvalidInput,
		},
		{
			name: "negative deduction",
			entity: func() *business.TaxEntity {
				e := business.NewTaxEntity(business.EntityIndividual, d("1000"), 2024)
				e.AddDeduction(d("-1"), business.DeductionBusiness)
				return e
			}(),
			wantErr: taxerrors.ErrInvalidInput,
		},
		{
			name:    "missing entity",
			entity:  nil,
			wantErr: taxerrors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := calc.ComputeForEntity(schedule, tt.entity)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.True(t, result.TaxOwed.Equal(d(tt.wantTax)), "tax owed %s", result.TaxOwed)
		})
	}
}
