package parser

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/cyphera/cyphera-tax/libs/go/types/business"
	"github.com/shopspring/decimal"
)

const (
	pctPattern   = `(\d+(?:\.\d+)?)\s?%`
	moneyPattern = `\$\s?([\d,]+(?:\.\d+)?)`
	jointPattern = `(?:\s*\(\s*` + moneyPattern + `\s+for\s+married\s+(?:couples|individuals)\s+filing\s+jointly\s*\))?`
)

var (
	// "35% for incomes over $243,725 ($487,450 for married couples filing jointly)"
	proseOverRe = regexp.MustCompile(pctPattern + `\s+for\s+incomes\s+over\s+` + moneyPattern + jointPattern)
	// "The top tax rate remains 37% for individual single taxpayers with incomes greater than $609,350 (...)"
	proseTopRe = regexp.MustCompile(`top\s+(?:tax\s+)?rate\s+(?:remains|is|will\s+be)\s+` + pctPattern +
		`[^$]*?incomes?\s+(?:greater\s+than|over|above)\s+` + moneyPattern + jointPattern)
	// "The lowest rate is 10% for incomes of single individuals with incomes of $11,600 or less (...)"
	proseLowestRe = regexp.MustCompile(`lowest\s+rate\s+is\s+` + pctPattern + `[^$]*?` + moneyPattern + `\s+or\s+less` + jointPattern)
)

// ProseStrategy reads the newsroom layout, where brackets are sentences in
// paragraphs and list items. Single filer thresholds come first in each
// sentence; joint filer thresholds follow in parentheses.
type ProseStrategy struct{}

func (ProseStrategy) Name() string { return "prose" }

func (ProseStrategy) Extract(doc *goquery.Document, entityType business.TaxEntityType) ([]Row, error) {
	// amount group within each match for the requested filer
	var group int
	switch entityType {
	case business.EntityIndividual:
		group = 2
	case business.EntityMarriedJoint:
		group = 3
	default:
		return nil, nil
	}

	var rows []Row
	var firstErr error
	doc.Find("p, li").Each(func(_ int, s *goquery.Selection) {
		if firstErr != nil {
			return
		}
		text := normalizeText(s.Text())

		add := func(m []string, build func(rate, amount decimal.Decimal) Row) {
			if firstErr != nil || m[group] == "" {
				return
			}
			rate, err := parseRate(m[1])
			if err != nil {
				firstErr = err
				return
			}
			amount, err := parseAmount(m[group])
			if err != nil {
				firstErr = err
				return
			}
			rows = append(rows, build(rate, amount))
		}

		for _, m := range proseLowestRe.FindAllStringSubmatch(text, -1) {
			add(m, func(rate, amount decimal.Decimal) Row {
				return Row{Lower: decimal.Zero, Upper: decimal.NewNullDecimal(amount), Rate: rate}
			})
		}
		for _, m := range proseOverRe.FindAllStringSubmatch(text, -1) {
			add(m, func(rate, amount decimal.Decimal) Row {
				return Row{Lower: amount, Rate: rate}
			})
		}
		for _, m := range proseTopRe.FindAllStringSubmatch(text, -1) {
			add(m, func(rate, amount decimal.Decimal) Row {
				return Row{Lower: amount, Rate: rate, Open: true}
			})
		}
	})

	if firstErr != nil {
		return nil, firstErr
	}
	return rows, nil
}
