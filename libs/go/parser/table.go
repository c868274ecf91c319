package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cyphera/cyphera-tax/libs/go/types/business"
	"github.com/shopspring/decimal"
)

var (
	tableNotOverRe = regexp.MustCompile(`^not\s+over\s+` + moneyPattern)
	tableBetweenRe = regexp.MustCompile(`^over\s+` + moneyPattern + `\s+but\s+not\s+over\s+` + moneyPattern)
	tableOverRe    = regexp.MustCompile(`^over\s+` + moneyPattern + `\s*$`)
	pctRe          = regexp.MustCompile(pctPattern)
)

// tableLabels is checked in order. "unmarried individuals (other than surviving
// spouses and heads of households)" must resolve to individual before the
// head of household labels are tried.
var tableLabels = []struct {
	entityType business.TaxEntityType
	phrases    []string
}{
	{business.EntityMarriedJoint, []string{"married individuals filing joint", "filing jointly"}},
	{business.EntityMarriedSeparate, []string{"married individuals filing separate", "filing separately"}},
	{business.EntityIndividual, []string{"unmarried individuals", "single"}},
	{business.EntityHeadOfHousehold, []string{"heads of households", "head of household"}},
	{business.EntityCorporation, []string{"corporations"}},
}

// TableStrategy reads revenue procedure tables: one table per filing status,
// labelled by a caption or the heading right before it, with rows such as
// "Over $11,600 but not over $47,150 | $1,160 plus 12% of the excess over $11,600".
type TableStrategy struct{}

func (TableStrategy) Name() string { return "table" }

func (TableStrategy) Extract(doc *goquery.Document, entityType business.TaxEntityType) ([]Row, error) {
	var rows []Row
	var firstErr error

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		if classifyLabel(tableLabel(table)) != entityType {
			return true
		}
		found, err := tableRows(table)
		if err != nil {
			firstErr = err
			return false
		}
		if len(found) == 0 {
			return true
		}
		rows = found
		return false
	})

	if firstErr != nil {
		return nil, firstErr
	}
	return rows, nil
}

func tableLabel(table *goquery.Selection) string {
	if caption := strings.TrimSpace(table.Find("caption").First().Text()); caption != "" {
		return normalizeText(caption)
	}
	return normalizeText(table.PrevAllFiltered("h1, h2, h3, h4, h5, h6, p").First().Text())
}

func classifyLabel(label string) business.TaxEntityType {
	if label == "" {
		return ""
	}
	for _, l := range tableLabels {
		for _, phrase := range l.phrases {
			if strings.Contains(label, phrase) {
				return l.entityType
			}
		}
	}
	return ""
}

func tableRows(table *goquery.Selection) ([]Row, error) {
	var rows []Row
	var firstErr error

	table.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		cells := tr.Find("td, th")
		if cells.Length() < 2 {
			return true
		}
		rangeText := normalizeText(cells.First().Text())
		rateText := normalizeText(cells.Slice(1, cells.Length()).Text())

		row, ok, err := tableRow(rangeText, rateText)
		if err != nil {
			firstErr = err
			return false
		}
		if ok {
			rows = append(rows, row)
		}
		return true
	})

	if firstErr != nil {
		return nil, firstErr
	}
	return rows, nil
}

// tableRow parses one row; ok is false for header and unrelated rows
func tableRow(rangeText, rateText string) (Row, bool, error) {
	var row Row

	switch {
	case tableNotOverRe.MatchString(rangeText):
		upper, err := parseAmount(tableNotOverRe.FindStringSubmatch(rangeText)[1])
		if err != nil {
			return Row{}, false, err
		}
		row = Row{Lower: decimal.Zero, Upper: decimal.NewNullDecimal(upper)}
	case tableBetweenRe.MatchString(rangeText):
		m := tableBetweenRe.FindStringSubmatch(rangeText)
		lower, err := parseAmount(m[1])
		if err != nil {
			return Row{}, false, err
		}
		upper, err := parseAmount(m[2])
		if err != nil {
			return Row{}, false, err
		}
		row = Row{Lower: lower, Upper: decimal.NewNullDecimal(upper)}
	case tableOverRe.MatchString(rangeText):
		lower, err := parseAmount(tableOverRe.FindStringSubmatch(rangeText)[1])
		if err != nil {
			return Row{}, false, err
		}
		row = Row{Lower: lower, Open: true}
	default:
		return Row{}, false, nil
	}

	// the marginal rate is the last percentage: "$1,160 plus 12% of the excess over $11,600"
	pcts := pctRe.FindAllStringSubmatch(rateText, -1)
	if len(pcts) == 0 {
		return Row{}, false, schemaMismatchf("row %q has no rate", rangeText)
	}
	rate, err := parseRate(pcts[len(pcts)-1][1])
	if err != nil {
		return Row{}, false, err
	}
	row.Rate = rate
	return row, true, nil
}
