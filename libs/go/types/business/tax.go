package business

import (
	"encoding/json"
	"time"

	"github.com/cyphera/cyphera-tax/libs/go/taxerrors"
	"github.com/shopspring/decimal"
)

// TaxBracket is a contiguous income range taxed at a single marginal rate.
// An invalid UpperBound marks the unbounded top bracket.
type TaxBracket struct {
	LowerBound decimal.Decimal     `json:"lower_bound" swaggertype:"string"`
	UpperBound decimal.NullDecimal `json:"upper_bound" swaggertype:"string"`
	Rate       decimal.Decimal     `json:"rate" swaggertype:"string"`
}

// NewBracket returns the bounded bracket [lower, upper) taxed at rate
func NewBracket(lower, upper, rate decimal.Decimal) TaxBracket {
	return TaxBracket{
		LowerBound: lower,
		UpperBound: decimal.NewNullDecimal(upper),
		Rate:       rate,
	}
}

// NewTopBracket returns the unbounded bracket [lower, ∞) taxed at rate
func NewTopBracket(lower, rate decimal.Decimal) TaxBracket {
	return TaxBracket{LowerBound: lower, Rate: rate}
}

func (b TaxBracket) IsTop() bool {
	return !b.UpperBound.Valid
}

// Contains reports whether amount lies in [LowerBound, UpperBound)
func (b TaxBracket) Contains(amount decimal.Decimal) bool {
	if amount.LessThan(b.LowerBound) {
		return false
	}
	return b.IsTop() || amount.LessThan(b.UpperBound.Decimal)
}

// ScheduleParams carries everything needed to build a RateSchedule
type ScheduleParams struct {
	Key          CacheKey
	Brackets     []TaxBracket
	FetchedAt    time.Time
	SourceURL    string
	SourceDigest string
}

// RateSchedule is a validated, immutable bracket table for one
// jurisdiction, entity type and year. It is safe to share between goroutines.
type RateSchedule struct {
	key          CacheKey
	brackets     []TaxBracket
	fetchedAt    time.Time
	sourceURL    string
	sourceDigest string
}

// NewRateSchedule validates the brackets and returns a schedule that owns a
// private copy of them. Any violation is reported as a schema mismatch.
func NewRateSchedule(p ScheduleParams) (*RateSchedule, error) {
	if err := ValidateBrackets(p.Brackets); err != nil {
		return nil, err
	}
	brackets := make([]TaxBracket, len(p.Brackets))
	copy(brackets, p.Brackets)
	return &RateSchedule{
		key:          p.Key,
		brackets:     brackets,
		fetchedAt:    p.FetchedAt,
		sourceURL:    p.SourceURL,
		sourceDigest: p.SourceDigest,
	}, nil
}

// ValidateBrackets checks that brackets start at zero, are contiguous, end in
// exactly one open bracket and carry non-decreasing rates within [0, 1].
func ValidateBrackets(brackets []TaxBracket) error {
	const op = "validate_brackets"

	if len(brackets) == 0 {
		return taxerrors.SchemaMismatch(op, "no brackets found")
	}
	if !brackets[0].LowerBound.IsZero() {
		return taxerrors.SchemaMismatch(op, "first bracket starts at %s, expected 0", brackets[0].LowerBound)
	}

	last := len(brackets) - 1
	for i, b := range brackets {
		if b.LowerBound.IsNegative() {
			return taxerrors.SchemaMismatch(op, "bracket %d has negative lower bound %s", i, b.LowerBound)
		}
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return taxerrors.SchemaMismatch(op, "bracket %d rate %s outside [0, 1]", i, b.Rate)
		}
		if i > 0 && b.Rate.LessThan(brackets[i-1].Rate) {
			return taxerrors.SchemaMismatch(op, "bracket %d rate %s is below previous rate %s", i, b.Rate, brackets[i-1].Rate)
		}

		if b.IsTop() {
			if i != last {
				return taxerrors.SchemaMismatch(op, "open bracket at position %d is not the last of %d", i, len(brackets))
			}
			continue
		}
		if !b.UpperBound.Decimal.GreaterThan(b.LowerBound) {
			return taxerrors.SchemaMismatch(op, "bracket %d is empty: [%s, %s)", i, b.LowerBound, b.UpperBound.Decimal)
		}
		if i == last {
			return taxerrors.SchemaMismatch(op, "missing open top bracket, last bracket ends at %s", b.UpperBound.Decimal)
		}
		if next := brackets[i+1].LowerBound; !b.UpperBound.Decimal.Equal(next) {
			return taxerrors.SchemaMismatch(op, "bracket %d ends at %s but bracket %d starts at %s", i, b.UpperBound.Decimal, i+1, next)
		}
	}
	return nil
}

func (s *RateSchedule) Key() CacheKey              { return s.key }
func (s *RateSchedule) Jurisdiction() Jurisdiction { return s.key.Jurisdiction }
func (s *RateSchedule) EntityType() TaxEntityType  { return s.key.EntityType }
func (s *RateSchedule) Year() int                  { return s.key.Year }
func (s *RateSchedule) FetchedAt() time.Time       { return s.fetchedAt }
func (s *RateSchedule) SourceURL() string          { return s.sourceURL }
func (s *RateSchedule) SourceDigest() string       { return s.sourceDigest }
func (s *RateSchedule) Len() int                   { return len(s.brackets) }
func (s *RateSchedule) Bracket(i int) TaxBracket   { return s.brackets[i] }
func (s *RateSchedule) TopBracket() TaxBracket     { return s.brackets[len(s.brackets)-1] }

// Brackets returns a copy of the ordered brackets
func (s *RateSchedule) Brackets() []TaxBracket {
	out := make([]TaxBracket, len(s.brackets))
	copy(out, s.brackets)
	return out
}

type rateScheduleJSON struct {
	Jurisdiction Jurisdiction  `json:"jurisdiction"`
	EntityType   TaxEntityType `json:"entity_type"`
	Year         int           `json:"year"`
	Brackets     []TaxBracket  `json:"brackets"`
	FetchedAt    time.Time     `json:"fetched_at"`
	SourceURL    string        `json:"source_url,omitempty"`
	SourceDigest string        `json:"source_digest,omitempty"`
}

func (s *RateSchedule) MarshalJSON() ([]byte, error) {
	return json.Marshal(rateScheduleJSON{
		Jurisdiction: s.key.Jurisdiction,
		EntityType:   s.key.EntityType,
		Year:         s.key.Year,
		Brackets:     s.brackets,
		FetchedAt:    s.fetchedAt,
		SourceURL:    s.sourceURL,
		SourceDigest: s.sourceDigest,
	})
}

// UnmarshalJSON decodes and re-validates a schedule, so a schedule read back
// from the wire upholds the same invariants as a parsed one.
func (s *RateSchedule) UnmarshalJSON(data []byte) error {
	var raw rateScheduleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return taxerrors.Wrap(taxerrors.KindSchemaMismatch, "decode_schedule", "invalid schedule json", err)
	}
	decoded, err := NewRateSchedule(ScheduleParams{
		Key:          NewCacheKey(raw.Jurisdiction, raw.EntityType, raw.Year),
		Brackets:     raw.Brackets,
		FetchedAt:    raw.FetchedAt,
		SourceURL:    raw.SourceURL,
		SourceDigest: raw.SourceDigest,
	})
	if err != nil {
		return err
	}
	*s = *decoded
	return nil
}
