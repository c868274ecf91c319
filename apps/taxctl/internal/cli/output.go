package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cyphera/cyphera-tax/libs/go/helpers"
	"github.com/cyphera/cyphera-tax/libs/go/taxerrors"
	"github.com/cyphera/cyphera-tax/libs/go/types/api/responses"
	"github.com/cyphera/cyphera-tax/libs/go/types/business"
)

func parseYear(s string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, taxerrors.InvalidInput("parse_year", "year must be an integer, got %q", s)
	}
	return year, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatUpper(b business.TaxBracket) string {
	if b.IsTop() {
		return "and above"
	}
	return helpers.FormatCurrency(b.UpperBound.Decimal)
}

func writeSchedule(w io.Writer, s *business.RateSchedule) error {
	fmt.Fprintf(w, "%s %s %d\n", s.Jurisdiction(), s.EntityType(), s.Year())
	fmt.Fprintf(w, "source: %s\n", s.SourceURL())
	fmt.Fprintf(w, "digest: %s\n\n", s.SourceDigest())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RATE\tFROM\tTO")
	for _, b := range s.Brackets() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", helpers.FormatPercent(b.Rate), helpers.FormatCurrency(b.LowerBound), formatUpper(b))
	}
	return tw.Flush()
}

func writeCalculation(w io.Writer, r *responses.TaxCalculationResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Jurisdiction\t%s\n", r.Jurisdiction)
	fmt.Fprintf(tw, "Entity type\t%s\n", r.EntityType)
	fmt.Fprintf(tw, "Year\t%d\n", r.Year)
	fmt.Fprintf(tw, "Gross income\t%s\n", helpers.FormatCurrency(r.GrossIncome))
	fmt.Fprintf(tw, "Deductions\t%s\n", helpers.FormatCurrency(r.TotalDeductions))
	fmt.Fprintf(tw, "Taxable income\t%s\n", helpers.FormatCurrency(r.TaxableIncome))
	fmt.Fprintf(tw, "Tax owed\t%s\n", r.FormattedTax)
	fmt.Fprintf(tw, "Effective rate\t%s\n", r.FormattedRate)
	fmt.Fprintf(tw, "Marginal rate\t%s\n", helpers.FormatPercent(r.Result.MarginalRate))
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Result.Breakdown) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RATE\tFROM\tTO\tTAXED\tTAX")
	for _, b := range r.Result.Breakdown {
		upper := "and above"
		if b.UpperBound.Valid {
			upper = helpers.FormatCurrency(b.UpperBound.Decimal)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			helpers.FormatPercent(b.Rate),
			helpers.FormatCurrency(b.LowerBound),
			upper,
			helpers.FormatCurrency(b.TaxableAmount),
			helpers.FormatCurrency(b.Tax),
		)
	}
	return tw.Flush()
}
