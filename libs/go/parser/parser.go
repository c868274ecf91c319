// Package parser turns a raw bracket document into a validated RateSchedule.
//
// Extraction is split into strategies that each understand one publishing
// layout. Strategies only locate (threshold, rate) rows; closing open rows,
// ordering and invariant checks happen once in buildSchedule so every layout
// gets the same validation. Any shape problem is a schema mismatch.
package parser

import (
	"bytes"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cyphera/cyphera-tax/libs/go/helpers"
	"github.com/cyphera/cyphera-tax/libs/go/taxerrors"
	"github.com/cyphera/cyphera-tax/libs/go/types/business"
	"github.com/shopspring/decimal"
	"github.com/zeebo/blake3"
)

const op = "parse"

// Row is one extracted bracket line before contiguity is resolved
type Row struct {
	Lower decimal.Decimal
	// Upper is set when the document states the end of the range.
	Upper decimal.NullDecimal
	Rate  decimal.Decimal
	// Open marks a row the document explicitly describes as the top bracket.
	Open bool
}

// Strategy extracts rows for one entity type from a loaded document. It
// returns no rows and no error when the layout is not recognised.
type Strategy interface {
	Name() string
	Extract(doc *goquery.Document, entityType business.TaxEntityType) ([]Row, error)
}

// Parser runs its strategies in order; the first one that yields rows wins
type Parser struct {
	strategies []Strategy
}

// New returns a parser with the given strategies, or the default table then
// prose strategies when none are given
func New(strategies ...Strategy) *Parser {
	if len(strategies) == 0 {
		strategies = []Strategy{TableStrategy{}, ProseStrategy{}}
	}
	return &Parser{strategies: strategies}
}

// Parse extracts and validates the bracket table for entityType. It performs
// no I/O and returns the same schedule for the same bytes.
func (p *Parser) Parse(doc *business.SourceDocument, entityType business.TaxEntityType) (*business.RateSchedule, error) {
	if doc == nil || len(bytes.TrimSpace(doc.Body)) == 0 {
		return nil, taxerrors.SchemaMismatch(op, "empty source document")
	}
	if !entityType.IsValid() {
		return nil, taxerrors.InvalidInput(op, "unknown entity type %q", entityType)
	}

	html, err := goquery.NewDocumentFromReader(bytes.NewReader(doc.Body))
	if err != nil {
		return nil, taxerrors.Wrap(taxerrors.KindSchemaMismatch, op, "unreadable document", err)
	}

	for _, s := range p.strategies {
		rows, err := s.Extract(html, entityType)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			continue
		}
		brackets, err := buildBrackets(rows)
		if err != nil {
			return nil, err
		}
		return business.NewRateSchedule(business.ScheduleParams{
			Key:          business.NewCacheKey(doc.Key.Jurisdiction, entityType, doc.Key.Year),
			Brackets:     brackets,
			FetchedAt:    doc.FetchedAt,
			SourceURL:    doc.URL,
			SourceDigest: Digest(doc.Body),
		})
	}

	return nil, taxerrors.SchemaMismatch(op, "no %s brackets found in %s", entityType, doc.URL)
}

// Digest is the BLAKE3 hex digest recorded on every parsed schedule
func Digest(body []byte) string {
	sum := blake3.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// buildBrackets orders rows, closes rows that only state a lower bound with
// the next row's lower bound and requires the last row to be explicitly open
func buildBrackets(rows []Row) ([]business.TaxBracket, error) {
	rows = dedupe(rows)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Lower.LessThan(rows[j].Lower) })

	last := len(rows) - 1
	brackets := make([]business.TaxBracket, 0, len(rows))
	for i, r := range rows {
		switch {
		case r.Open:
			if i != last {
				return nil, taxerrors.SchemaMismatch(op, "top bracket at %s is followed by higher thresholds", r.Lower)
			}
			brackets = append(brackets, business.NewTopBracket(r.Lower, r.Rate))
		case r.Upper.Valid:
			brackets = append(brackets, business.NewBracket(r.Lower, r.Upper.Decimal, r.Rate))
		case i == last:
			return nil, taxerrors.SchemaMismatch(op, "missing open top bracket, last threshold is %s", r.Lower)
		default:
			brackets = append(brackets, business.NewBracket(r.Lower, rows[i+1].Lower, r.Rate))
		}
	}

	if err := business.ValidateBrackets(brackets); err != nil {
		return nil, err
	}
	return brackets, nil
}

// dedupe merges rows stating the same threshold and rate. Documents often
// repeat the top bracket as both an "over" line and a "top rate" sentence.
func dedupe(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		merged := false
		for i := range out {
			if !out[i].Lower.Equal(r.Lower) || !out[i].Rate.Equal(r.Rate) {
				continue
			}
			out[i].Open = out[i].Open || r.Open
			if !out[i].Upper.Valid {
				out[i].Upper = r.Upper
			}
			merged = true
			break
		}
		if !merged {
			out = append(out, r)
		}
	}
	return out
}

var spaceRe = regexp.MustCompile(`\s+`)

// normalizeText lower-cases and collapses whitespace, including no-break spaces
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(strings.ToLower(s), " "))
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := helpers.ParseCurrencyString(s)
	if err != nil {
		return decimal.Zero, taxerrors.SchemaMismatch(op, "unparsable amount %q", s)
	}
	return amount, nil
}

func parseRate(s string) (decimal.Decimal, error) {
	rate, err := helpers.ParsePercent(s)
	if err != nil {
		return decimal.Zero, taxerrors.SchemaMismatch(op, "unparsable rate %q", s)
	}
	return rate, nil
}

func schemaMismatchf(format string, args ...any) error {
	return taxerrors.SchemaMismatch(op, format, args...)
}
