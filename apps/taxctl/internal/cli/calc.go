package cli

import (
	"context"
	"strings"

	"github.com/cyphera/cyphera-tax/libs/go/taxerrors"
	"github.com/cyphera/cyphera-tax/libs/go/types/api/requests"

	"github.com/spf13/cobra"
)

func newCalcCommand(opts *rootOptions) *cobra.Command {
	var (
		region     string
		deductions []string
	)

	cmd := &cobra.Command{
		Use:   "calc <country> <entity-type> <year> <income>",
		Short: "Compute the tax owed on an income",
		Example: `  taxctl calc usa individual 2024 '$85,000'
  taxctl calc usa individual 2024 85000 --deduction personal=14600 --deduction charitable=1200`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := parseYear(args[2])
			if err != nil {
				return err
			}
			req := requests.CalculateTaxRequest{
				Country:    args[0],
				Region:     region,
				EntityType: args[1],
				Year:       year,
				Income:     args[3],
			}
			for _, raw := range deductions {
				d, err := parseDeduction(raw)
				if err != nil {
					return err
				}
				req.Deductions = append(req.Deductions, d)
			}
			p, err := req.ToParams()
			if err != nil {
				return err
			}

			svc, err := opts.service()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			result, err := svc.CalculateEntityTax(ctx, p)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return writeCalculation(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "State or province code for a sub-national schedule")
	cmd.Flags().StringArrayVar(&deductions, "deduction", nil, "Deduction as category=amount, repeatable (business, personal, charitable)")
	return cmd
}

// parseDeduction splits "category=amount"
func parseDeduction(raw string) (requests.DeductionRequest, error) {
	category, amount, ok := strings.Cut(raw, "=")
	category = strings.ToLower(strings.TrimSpace(category))
	amount = strings.TrimSpace(amount)
	if !ok || category == "" || amount == "" {
		return requests.DeductionRequest{}, taxerrors.InvalidInput("parse_deduction", "deduction %q must be category=amount", raw)
	}
	return requests.DeductionRequest{Category: category, Amount: amount}, nil
}
