package cli

import (
	"context"

	"github.com/cyphera/cyphera-tax/libs/go/types/api/params"
	"github.com/cyphera/cyphera-tax/libs/go/types/business"

	"github.com/spf13/cobra"
)

func newRatesCommand(opts *rootOptions) *cobra.Command {
	var region string

	cmd := &cobra.Command{
		Use:   "rates <country> <entity-type> <year>",
		Short: "Fetch the bracket schedule for a jurisdiction, entity type and year",
		Example: `  taxctl rates usa individual 2024
  taxctl rates us married_joint 2024 --json`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := scheduleParams(args[0], region, args[1], args[2])
			if err != nil {
				return err
			}
			svc, err := opts.service()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			schedule, err := svc.FetchRates(ctx, p.Jurisdiction, p.EntityType, p.Year)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), schedule)
			}
			return writeSchedule(cmd.OutOrStdout(), schedule)
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "State or province code for a sub-national schedule")
	return cmd
}

func scheduleParams(country, region, entityType, year string) (params.RateScheduleParams, error) {
	jurisdiction, err := business.ParseJurisdiction(country, region)
	if err != nil {
		return params.RateScheduleParams{}, err
	}
	et, err := business.ParseTaxEntityType(entityType)
	if err != nil {
		return params.RateScheduleParams{}, err
	}
	y, err := parseYear(year)
	if err != nil {
		return params.RateScheduleParams{}, err
	}
	return params.RateScheduleParams{Jurisdiction: jurisdiction, EntityType: et, Year: y}, nil
}
