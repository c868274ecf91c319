package business

import (
	"fmt"
	"strings"
	"time"

	"github.com/cyphera/cyphera-tax/libs/go/taxerrors"
)

// Country identifies a sovereign taxing authority
type Country string

const (
	CountryUSA    Country = "USA"
	CountryCanada Country = "Canada"
)

// ParseCountry accepts the common spellings of a supported country
func ParseCountry(s string) (Country, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "usa", "us", "united states", "united_states":
		return CountryUSA, nil
	case "canada", "ca", "can":
		return CountryCanada, nil
	}
	return "", taxerrors.InvalidInput("parse_country", "unknown country %q", s)
}

// JurisdictionLevel is the variant tag of a Jurisdiction
type JurisdictionLevel string

const (
	LevelFederal JurisdictionLevel = "federal"
	LevelState   JurisdictionLevel = "state"
)

// Jurisdiction identifies the taxing authority. It is comparable and safe to
// use as part of a map key.
type Jurisdiction struct {
	Level   JurisdictionLevel `json:"level" yaml:"level"`
	Country Country           `json:"country" yaml:"country"`
	// Region is the state or province code for LevelState, empty otherwise.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
}

// Federal returns the federal jurisdiction of a country
func Federal(country Country) Jurisdiction {
	return Jurisdiction{Level: LevelFederal, Country: country}
}

// State returns a sub-national jurisdiction. No source publishes state tables
// yet, so fetching one fails with an unsupported jurisdiction error.
func State(country Country, region string) Jurisdiction {
	return Jurisdiction{Level: LevelState, Country: country, Region: strings.ToUpper(region)}
}

// ParseJurisdiction builds a federal jurisdiction, or a state one when region is set
func ParseJurisdiction(country, region string) (Jurisdiction, error) {
	c, err := ParseCountry(country)
	if err != nil {
		return Jurisdiction{}, err
	}
	if region = strings.TrimSpace(region); region != "" {
		return State(c, region), nil
	}
	return Federal(c), nil
}

func (j Jurisdiction) IsFederal() bool {
	return j.Level == LevelFederal
}

func (j Jurisdiction) String() string {
	if j.Level == LevelState {
		return fmt.Sprintf("%s:%s-%s", j.Level, j.Country, j.Region)
	}
	return fmt.Sprintf("%s:%s", j.Level, j.Country)
}

// MinTaxYear is the earliest year accepted anywhere in the pipeline
const MinTaxYear = 1900

// ValidateTaxYear checks that year lies in [MinTaxYear, now.Year()+1]
func ValidateTaxYear(year int, now time.Time) error {
	maxYear := now.Year() + 1
	if year < MinTaxYear || year > maxYear {
		return taxerrors.InvalidInput("validate_year", "tax year %d outside %d..%d", year, MinTaxYear, maxYear)
	}
	return nil
}

// CacheKey is the identity of a rate schedule
type CacheKey struct {
	Jurisdiction Jurisdiction  `json:"jurisdiction"`
	EntityType   TaxEntityType `json:"entity_type"`
	Year         int           `json:"year"`
}

// NewCacheKey builds a key without validating it
func NewCacheKey(jurisdiction Jurisdiction, entityType TaxEntityType, year int) CacheKey {
	return CacheKey{Jurisdiction: jurisdiction, EntityType: entityType, Year: year}
}

// String is the canonical form, e.g. "federal:USA/individual/2024"
func (k CacheKey) String() string {
	return fmt.Sprintf("%s/%s/%d", k.Jurisdiction, k.EntityType, k.Year)
}

// Validate checks the entity type and year of the key
func (k CacheKey) Validate(now time.Time) error {
	if !k.EntityType.IsValid() {
		return taxerrors.InvalidInput("validate_key", "unknown entity type %q", k.EntityType)
	}
	if k.Jurisdiction.Country == "" {
		return taxerrors.InvalidInput("validate_key", "jurisdiction country is required")
	}
	return ValidateTaxYear(k.Year, now)
}

// SourceDocument is a raw document retrieved from a publishing source
type SourceDocument struct {
	Key       CacheKey
	URL       string
	Body      []byte
	FetchedAt time.Time
}
