package business

import (
	"strings"

	"github.com/cyphera/cyphera-tax/libs/go/taxerrors"
	"github.com/shopspring/decimal"
)

// TaxEntityType is the taxpayer filing category that selects a bracket table
type TaxEntityType string

const (
	EntityIndividual      TaxEntityType = "individual"
	EntityMarriedJoint    TaxEntityType = "married_joint"
	EntityMarriedSeparate TaxEntityType = "married_separate"
	EntityHeadOfHousehold TaxEntityType = "head_of_household"
	EntityCorporation     TaxEntityType = "corporation"
	EntityPartnership     TaxEntityType = "partnership"
)

// AllTaxEntityTypes lists every known entity type in display order
var AllTaxEntityTypes = []TaxEntityType{
	EntityIndividual,
	EntityMarriedJoint,
	EntityMarriedSeparate,
	EntityHeadOfHousehold,
	EntityCorporation,
	EntityPartnership,
}

var entityAliases = map[string]TaxEntityType{
	"individual":                EntityIndividual,
	"single":                    EntityIndividual,
	"married_joint":             EntityMarriedJoint,
	"married_filing_jointly":    EntityMarriedJoint,
	"mfj":                       EntityMarriedJoint,
	"married_separate":          EntityMarriedSeparate,
	"married_filing_separately": EntityMarriedSeparate,
	"mfs":                       EntityMarriedSeparate,
	"head_of_household":         EntityHeadOfHousehold,
	"hoh":                       EntityHeadOfHousehold,
	"corporation":               EntityCorporation,
	"partnership":               EntityPartnership,
}

// ParseTaxEntityType maps a user-facing name to an entity type
func ParseTaxEntityType(s string) (TaxEntityType, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	if t, ok := entityAliases[normalized]; ok {
		return t, nil
	}
	return "", taxerrors.InvalidInput("parse_entity_type", "unknown entity type %q", s)
}

func (t TaxEntityType) IsValid() bool {
	for _, known := range AllTaxEntityTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t TaxEntityType) String() string {
	return string(t)
}

// DeductionCategory groups deductions for reporting
type DeductionCategory string

const (
	DeductionBusiness   DeductionCategory = "business"
	DeductionPersonal   DeductionCategory = "personal"
	DeductionCharitable DeductionCategory = "charitable"
)

func (c DeductionCategory) IsValid() bool {
	switch c {
	case DeductionBusiness, DeductionPersonal, DeductionCharitable:
		return true
	}
	return false
}

// Deduction is a single amount subtracted from gross income
type Deduction struct {
	Amount   decimal.Decimal   `json:"amount"`
	Category DeductionCategory `json:"category"`
}

// TaxEntity is a taxpayer with gross income and deductions for one year
type TaxEntity struct {
	EntityType TaxEntityType   `json:"entity_type"`
	Income     decimal.Decimal `json:"income"`
	Year       int             `json:"year"`
	Deductions []Deduction     `json:"deductions,omitempty"`
}

// NewTaxEntity creates an entity without deductions
func NewTaxEntity(entityType TaxEntityType, income decimal.Decimal, year int) *TaxEntity {
	return &TaxEntity{
		EntityType: entityType,
		Income:     income,
		Year:       year,
	}
}

func (e *TaxEntity) AddDeduction(amount decimal.Decimal, category DeductionCategory) {
	e.Deductions = append(e.Deductions, Deduction{Amount: amount, Category: category})
}

func (e *TaxEntity) TotalDeductions() decimal.Decimal {
	total := decimal.Zero
	for _, d := range e.Deductions {
		total = total.Add(d.Amount)
	}
	return total
}

// TaxableIncome is gross income less deductions, never below zero
func (e *TaxEntity) TaxableIncome() decimal.Decimal {
	taxable := e.Income.Sub(e.TotalDeductions())
	if taxable.IsNegative() {
		return decimal.Zero
	}
	return taxable
}

// Validate rejects negative amounts and unknown categories
func (e *TaxEntity) Validate() error {
	if !e.EntityType.IsValid() {
		return taxerrors.InvalidInput("validate_entity", "unknown entity type %q", e.EntityType)
	}
	if e.Income.IsNegative() {
		return taxerrors.InvalidInput("validate_entity", "income must not be negative, got %s", e.Income)
	}
	for i, d := range e.Deductions {
		if d.Amount.IsNegative() {
			return taxerrors.InvalidInput("validate_entity", "deduction %d amount must not be negative, got %s", i, d.Amount)
		}
		if !d.Category.IsValid() {
			return taxerrors.InvalidInput("validate_entity", "deduction %d has unknown category %q", i, d.Category)
		}
	}
	return nil
}
