package services_test

import (
	"testing"
	"time"

	"github.com/cyphera/cyphera-tax/libs/go/logger"
	"github.com/cyphera/cyphera-tax/libs/go/types/business"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger("test")
}

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func scenarioKey() business.CacheKey {
	return business.NewCacheKey(business.Federal(business.CountryUSA), business.EntityIndividual, 2024)
}

func scenarioBrackets() []business.TaxBracket {
	return []business.TaxBracket{
		business.NewBracket(d("0"), d("10000"), d("0.10")),
		business.NewBracket(d("10000"), d("40000"), d("0.12")),
		business.NewTopBracket(d("40000"), d("0.22")),
	}
}

func scheduleFor(t *testing.T, key business.CacheKey, brackets []business.TaxBracket) *business.RateSchedule {
	t.Helper()
	s, err := business.NewRateSchedule(business.ScheduleParams{
		Key:          key,
		Brackets:     brackets,
		FetchedAt:    testNow,
		SourceURL:    "https://example.test/" + key.String(),
		SourceDigest: "digest",
	})
	require.NoError(t, err)
	return s
}

func scenarioSchedule(t *testing.T) *business.RateSchedule {
	return scheduleFor(t, scenarioKey(), scenarioBrackets())
}

func docFor(key business.CacheKey) *business.SourceDocument {
	return &business.SourceDocument{
		Key:       key,
		URL:       "https://example.test/" + key.String(),
		Body:      []byte("<html></html>"),
		FetchedAt: testNow,
	}
}
