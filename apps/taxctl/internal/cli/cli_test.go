package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cyphera/cyphera-tax/libs/go/config"
	"github.com/cyphera/cyphera-tax/libs/go/interfaces"
	"github.com/cyphera/cyphera-tax/libs/go/logger"
	"github.com/cyphera/cyphera-tax/libs/go/mocks"
	"github.com/cyphera/cyphera-tax/libs/go/taxerrors"
	"github.com/cyphera/cyphera-tax/libs/go/types/api/params"
	"github.com/cyphera/cyphera-tax/libs/go/types/api/requests"
	"github.com/cyphera/cyphera-tax/libs/go/types/api/responses"
	"github.com/cyphera/cyphera-tax/libs/go/types/business"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	logger.InitLogger("test")
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testSchedule(t *testing.T) *business.RateSchedule {
	t.Helper()
	s, err := business.NewRateSchedule(business.ScheduleParams{
		Key: business.NewCacheKey(business.Federal(business.CountryUSA), business.EntityIndividual, 2024),
		Brackets: []business.TaxBracket{
			business.NewBracket(d("0"), d("10000"), d("0.10")),
			business.NewBracket(d("10000"), d("40000"), d("0.12")),
			business.NewTopBracket(d("40000"), d("0.22")),
		},
		FetchedAt:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		SourceURL:    "https://example.test/brackets",
		SourceDigest: "abc123",
	})
	require.NoError(t, err)
	return s
}

func run(t *testing.T, svc interfaces.TaxService, args ...string) (string, error) {
	t.Helper()
	factory := func(cfg config.Config) (interfaces.TaxService, error) {
		return svc, nil
	}
	cmd := NewRootCommand(factory)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRatesCommand(t *testing.T) {
	t.Setenv("TAX_SOURCES_FILE", "")

	t.Run("prints bracket table", func(t *testing.T) {
		svc := mocks.NewMockTaxServiceForTest(t)
		svc.EXPECT().
			FetchRates(gomock.Any(), business.Federal(business.CountryUSA), business.EntityIndividual, 2024).
			Return(testSchedule(t), nil)

		out, err := run(t, svc, "rates", "us", "single", "2024")
		require.NoError(t, err)
		assert.Contains(t, out, "federal:USA individual 2024")
		assert.Contains(t, out, "digest: abc123")
		assert.Contains(t, out, "10%")
		assert.Contains(t, out, "$10000.00")
		assert.Contains(t, out, "and above")
	})

	t.Run("json output round trips", func(t *testing.T) {
		svc := mocks.NewMockTaxServiceForTest(t)
		svc.EXPECT().FetchRates(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(testSchedule(t), nil)

		out, err := run(t, svc, "rates", "usa", "individual", "2024", "--json")
		require.NoError(t, err)

		var decoded business.RateSchedule
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, 3, decoded.Len())
		assert.Equal(t, "abc123", decoded.SourceDigest())
	})

	t.Run("region selects a state jurisdiction", func(t *testing.T) {
		svc := mocks.NewMockTaxServiceForTest(t)
		svc.EXPECT().
			FetchRates(gomock.Any(), business.State(business.CountryUSA, "CA"), business.EntityIndividual, 2024).
			Return(nil, taxerrors.UnsupportedJurisdiction("fetch", "no source for state:USA-CA"))

		_, err := run(t, svc, "rates", "usa", "individual", "2024", "--region", "ca")
		assert.ErrorIs(t, err, taxerrors.ErrUnsupportedJurisdiction)
	})

	t.Run("bad arguments never reach the service", func(t *testing.T) {
		tests := []struct {
			name string
			args []string
		}{
			{"unknown country", []string{"rates", "atlantis", "individual", "2024"}},
			{"unknown entity", []string{"rates", "usa", "trust", "2024"}},
			{"non numeric year", []string{"rates", "usa", "individual", "twenty"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := mocks.NewMockTaxServiceForTest(t)
				_, err := run(t, svc, tt.args...)
				assert.ErrorIs(t, err, taxerrors.ErrInvalidInput)
			})
		}
	})

	t.Run("wrong argument count", func(t *testing.T) {
		svc := mocks.NewMockTaxServiceForTest(t)
		_, err := run(t, svc, "rates", "usa", "individual")
		assert.Error(t, err)
	})
}

func TestCalcCommand(t *testing.T) {
	t.Setenv("TAX_SOURCES_FILE", "")

	result := &responses.TaxCalculationResult{
		Jurisdiction:    business.Federal(business.CountryUSA),
		EntityType:      business.EntityIndividual,
		Year:            2024,
		GrossIncome:     d("52000"),
		TotalDeductions: d("2000"),
		TaxableIncome:   d("50000"),
		Result: responses.TaxResult{
			Income:        d("50000"),
			TaxOwed:       d("6800"),
			EffectiveRate: d("0.136"),
			MarginalRate:  d("0.22"),
			Breakdown: []responses.BracketTax{
				{LowerBound: d("0"), UpperBound: decimal.NewNullDecimal(d("10000")), Rate: d("0.10"), TaxableAmount: d("10000"), Tax: d("1000")},
				{LowerBound: d("10000"), UpperBound: decimal.NewNullDecimal(d("40000")), Rate: d("0.12"), TaxableAmount: d("30000"), Tax: d("3600")},
				{LowerBound: d("40000"), Rate: d("0.22"), TaxableAmount: d("10000"), Tax: d("2200")},
			},
		},
		FormattedTax:  "$6800.00",
		FormattedRate: "13.6%",
	}

	t.Run("passes parsed income and deductions", func(t *testing.T) {
		svc := mocks.NewMockTaxServiceForTest(t)
		svc.EXPECT().
			CalculateEntityTax(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p params.TaxCalculationParams) (*responses.TaxCalculationResult, error) {
				assert.Equal(t, business.Federal(business.CountryUSA), p.Jurisdiction)
				assert.Equal(t, business.EntityIndividual, p.EntityType)
				assert.Equal(t, 2024, p.Year)
				assert.True(t, p.Income.Equal(d("52000")))
				require.Len(t, p.Deductions, 2)
				assert.Equal(t, business.DeductionPersonal, p.Deductions[0].Category)
				assert.True(t, p.Deductions[0].Amount.Equal(d("1500")))
				assert.Equal(t, business.DeductionCharitable, p.Deductions[1].Category)
				assert.True(t, p.Deductions[1].Amount.Equal(d("500")))
				return result, nil
			})

		out, err := run(t, svc, "calc", "usa", "individual", "2024", "$52,000",
			"--deduction", "personal=$1,500", "--deduction", "Charitable=500")
		require.NoError(t, err)
		assert.Contains(t, out, "$6800.00")
		assert.Contains(t, out, "13.6%")
		assert.Contains(t, out, "$50000.00")
		assert.Contains(t, out, "$2200.00")
	})

	t.Run("json output", func(t *testing.T) {
		svc := mocks.NewMockTaxServiceForTest(t)
		svc.EXPECT().CalculateEntityTax(gomock.Any(), gomock.Any()).Return(result, nil)

		out, err := run(t, svc, "calc", "usa", "individual", "2024", "50000", "--json")
		require.NoError(t, err)

		var decoded responses.TaxCalculationResult
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.True(t, decoded.Result.TaxOwed.Equal(d("6800")))
		assert.Equal(t, "$6800.00", decoded.FormattedTax)
	})

	t.Run("service errors propagate", func(t *testing.T) {
		svc := mocks.NewMockTaxServiceForTest(t)
		svc.EXPECT().
			CalculateEntityTax(gomock.Any(), gomock.Any()).
			Return(nil, taxerrors.SourceUnavailable("fetch", 503, "upstream returned 503"))

		_, err := run(t, svc, "calc", "usa", "individual", "2024", "50000")
		assert.ErrorIs(t, err, taxerrors.ErrSourceUnavailable)
	})

	t.Run("invalid input never reaches the service", func(t *testing.T) {
		tests := []struct {
			name string
			args []string
		}{
			{"bad income", []string{"calc", "usa", "individual", "2024", "lots"}},
			{"deduction without amount", []string{"calc", "usa", "individual", "2024", "50000", "--deduction", "personal"}},
			{"deduction bad amount", []string{"calc", "usa", "individual", "2024", "50000", "--deduction", "personal=abc"}},
			{"bad year", []string{"calc", "usa", "individual", "next", "50000"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := mocks.NewMockTaxServiceForTest(t)
				_, err := run(t, svc, tt.args...)
				assert.ErrorIs(t, err, taxerrors.ErrInvalidInput)
			})
		}
	})
}

func TestParseDeduction(t *testing.T) {
	tests := []struct {
		raw     string
		want    requests.DeductionRequest
		wantErr bool
	}{
		{raw: "business=1200", want: requests.DeductionRequest{Category: "business", Amount: "1200"}},
		{raw: " Personal = $1,000.50 ", want: requests.DeductionRequest{Category: "personal", Amount: "$1,000.50"}},
		{raw: "charitable=", wantErr: true},
		{raw: "=100", wantErr: true},
		{raw: "charitable", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseDeduction(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, taxerrors.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInvalidConfigFileFails(t *testing.T) {
	svc := mocks.NewMockTaxServiceForTest(t)
	_, err := run(t, svc, "rates", "usa", "individual", "2024", "--config", t.TempDir()+"/missing.yaml")
	require.Error(t, err)
	assert.False(t, errors.Is(err, taxerrors.ErrUnsupportedJurisdiction))
}

func TestLogFileFlag(t *testing.T) {
	t.Setenv("TAX_SOURCES_FILE", "")
	defer logger.InitLogger("test")

	t.Run("verbose logs go to the file as json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "taxctl.log")
		svc := mocks.NewMockTaxServiceForTest(t)
		svc.EXPECT().
			FetchRates(gomock.Any(), business.Federal(business.CountryUSA), business.EntityIndividual, 2024).
			Return(testSchedule(t), nil)

		out, err := run(t, svc, "rates", "usa", "individual", "2024", "-v", "--log-file", path)
		require.NoError(t, err)
		assert.NotContains(t, out, "Loaded tax pipeline configuration")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Loaded tax pipeline configuration")
		assert.Contains(t, string(data), `"app":"taxctl"`)
	})

	t.Run("unwritable log file fails before running", func(t *testing.T) {
		svc := mocks.NewMockTaxServiceForTest(t)
		path := filepath.Join(t.TempDir(), "missing", "taxctl.log")

		_, err := run(t, svc, "rates", "usa", "individual", "2024", "--log-file", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to build logger")
	})
}
