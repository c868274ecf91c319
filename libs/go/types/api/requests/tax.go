package requests

import (
	"fmt"

	"github.com/cyphera/cyphera-tax/libs/go/helpers"
	"github.com/cyphera/cyphera-tax/libs/go/types/api/params"
	"github.com/cyphera/cyphera-tax/libs/go/types/business"
)

// CalculateTaxRequest is the body of a tax calculation. Amounts are strings so
// that currency notation such as "$1,234.56" is accepted without float rounding.
type CalculateTaxRequest struct {
	Country    string             `json:"country" binding:"required"`
	Region     string             `json:"region,omitempty"`
	EntityType string             `json:"entity_type" binding:"required"`
	Year       int                `json:"year" binding:"required"`
	Income     string             `json:"income" binding:"required"`
	Deductions []DeductionRequest `json:"deductions,omitempty"`
}

// DeductionRequest is a single deduction in a CalculateTaxRequest
type DeductionRequest struct {
	Category string `json:"category" binding:"required"`
	Amount   string `json:"amount" binding:"required"`
}

// ToParams parses the request into calculation parameters. Every failure is
// an invalid input error.
func (r CalculateTaxRequest) ToParams() (params.TaxCalculationParams, error) {
	jurisdiction, err := business.ParseJurisdiction(r.Country, r.Region)
	if err != nil {
		return params.TaxCalculationParams{}, err
	}
	entityType, err := business.ParseTaxEntityType(r.EntityType)
	if err != nil {
		return params.TaxCalculationParams{}, err
	}
	income, err := helpers.ParseCurrencyString(r.Income)
	if err != nil {
		return params.TaxCalculationParams{}, err
	}

	deductions := make([]business.Deduction, 0, len(r.Deductions))
	for i, d := range r.Deductions {
		amount, err := helpers.ParseCurrencyString(d.Amount)
		if err != nil {
			return params.TaxCalculationParams{}, fmt.Errorf("deduction %d: %w", i, err)
		}
		deductions = append(deductions, business.Deduction{
			Amount:   amount,
			Category: business.DeductionCategory(d.Category),
		})
	}

	return params.TaxCalculationParams{
		Jurisdiction: jurisdiction,
		EntityType:   entityType,
		Year:         r.Year,
		Income:       income,
		Deductions:   deductions,
	}, nil
}
