package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/cyphera/cyphera-tax/libs/go/mocks"
	"github.com/cyphera/cyphera-tax/libs/go/taxerrors"
	"github.com/cyphera/cyphera-tax/libs/go/types/api/params"
	"github.com/cyphera/cyphera-tax/libs/go/types/api/responses"
	"github.com/cyphera/cyphera-tax/libs/go/types/business"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testSchedule(t *testing.T) *business.RateSchedule {
	t.Helper()
	d := decimal.RequireFromString
	s, err := business.NewRateSchedule(business.ScheduleParams{
		Key: business.NewCacheKey(business.Federal(business.CountryUSA), business.EntityIndividual, 2024),
		Brackets: []business.TaxBracket{
			business.NewBracket(d("0"), d("10000"), d("0.10")),
			business.NewBracket(d("10000"), d("40000"), d("0.12")),
			business.NewTopBracket(d("40000"), d("0.22")),
		},
		FetchedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		SourceURL: "https://example.test/2024",
	})
	require.NoError(t, err)
	return s
}

func TestTaxHandler_GetRates(t *testing.T) {
	usa := business.Federal(business.CountryUSA)

	tests := []struct {
		name           string
		path           string
		setupMocks     func(svc *mocks.MockTaxService, schedule *business.RateSchedule)
		expectedStatus int
		expectedKind   string
	}{
		{
			name: "returns schedule",
			path: "/api/v1/rates/usa/single/2024",
			setupMocks: func(svc *mocks.MockTaxService, schedule *business.RateSchedule) {
				svc.EXPECT().FetchRates(gomock.Any(), usa, business.EntityIndividual, 2024).Return(schedule, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "state region from query",
			path: "/api/v1/rates/usa/individual/2024?region=ca",
			setupMocks: func(svc *mocks.MockTaxService, _ *business.RateSchedule) {
				svc.EXPECT().FetchRates(gomock.Any(), business.State(business.CountryUSA, "CA"), business.EntityIndividual, 2024).
					Return(nil, taxerrors.UnsupportedJurisdiction("fetch", "no source publishes rates for state:USA-CA"))
			},
			expectedStatus: http.StatusNotFound,
			expectedKind:   "unsupported_jurisdiction",
		},
		{
			name:           "unknown country",
			path:           "/api/v1/rates/atlantis/individual/2024",
			setupMocks:     func(*mocks.MockTaxService, *business.RateSchedule) {},
			expectedStatus: http.StatusBadRequest,
			expectedKind:   "invalid_input",
		},
		{
			name:           "non numeric year",
			path:           "/api/v1/rates/usa/individual/next",
			setupMocks:     func(*mocks.MockTaxService, *business.RateSchedule) {},
			expectedStatus: http.StatusBadRequest,
			expectedKind:   "invalid_input",
		},
		{
			name: "upstream format changed",
			path: "/api/v1/rates/usa/individual/2024",
			setupMocks: func(svc *mocks.MockTaxService, _ *business.RateSchedule) {
				svc.EXPECT().FetchRates(gomock.Any(), usa, business.EntityIndividual, 2024).
					Return(nil, taxerrors.SchemaMismatch("parse", "no bracket table or rate prose found"))
			},
			expectedStatus: http.StatusBadGateway,
			expectedKind:   "schema_mismatch",
		},
		{
			name: "network failure",
			path: "/api/v1/rates/usa/individual/2024",
			setupMocks: func(svc *mocks.MockTaxService, _ *business.RateSchedule) {
				svc.EXPECT().FetchRates(gomock.Any(), usa, business.EntityIndividual, 2024).
					Return(nil, taxerrors.Network("fetch", "GET failed", context.DeadlineExceeded))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedKind:   "network_error",
		},
		{
			name: "cache bookkeeping failure hides details",
			path: "/api/v1/rates/usa/individual/2024",
			setupMocks: func(svc *mocks.MockTaxService, _ *business.RateSchedule) {
				svc.EXPECT().FetchRates(gomock.Any(), usa, business.EntityIndividual, 2024).
					Return(nil, taxerrors.Cache("get_or_fetch", "in-flight load produced no schedule"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedKind:   "cache_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := newTestRouter(t)
			tt.setupMocks(svc, testSchedule(t))

			w := performRequest(router, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusOK {
				body := decode[map[string]interface{}](t, w)
				assert.Equal(t, "rate_schedule", body["object"])
				schedule := body["schedule"].(map[string]interface{})
				assert.Len(t, schedule["brackets"], 3)
				return
			}
			errResp := decode[responses.ErrorResponse](t, w)
			assert.Equal(t, tt.expectedKind, errResp.Kind)
			assert.NotEmpty(t, errResp.CorrelationID)
			if tt.expectedStatus == http.StatusInternalServerError {
				assert.Equal(t, "Internal server error", errResp.Error)
			}
		})
	}
}

func TestTaxHandler_CalculateTax(t *testing.T) {
	t.Run("computes entity tax", func(t *testing.T) {
		router, svc := newTestRouter(t)
		schedule := testSchedule(t)

		svc.EXPECT().CalculateEntityTax(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p params.TaxCalculationParams) (*responses.TaxCalculationResult, error) {
				assert.Equal(t, business.Federal(business.CountryUSA), p.Jurisdiction)
				assert.Equal(t, business.EntityIndividual, p.EntityType)
				assert.True(t, p.Income.Equal(decimal.NewFromInt(52000)))
				require.Len(t, p.Deductions, 1)
				return &responses.TaxCalculationResult{
					Jurisdiction:  schedule.Jurisdiction(),
					EntityType:    schedule.EntityType(),
					Year:          schedule.Year(),
					TaxableIncome: decimal.NewFromInt(50000),
					Result: responses.TaxResult{
						TaxOwed:       decimal.NewFromInt(6800),
						EffectiveRate: decimal.RequireFromString("0.136"),
						MarginalRate:  decimal.RequireFromString("0.22"),
					},
					FormattedTax: "$6800.00",
				}, nil
			})

		w := performRequest(router, http.MethodPost, "/api/v1/tax/calculate", map[string]interface{}{
			"country":     "USA",
			"entity_type": "individual",
			"year":        2024,
			"income":      "$52,000",
			"deductions":  []map[string]string{{"category": "personal", "amount": "2000"}},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		result := decode[responses.TaxCalculationResult](t, w)
		assert.True(t, result.Result.TaxOwed.Equal(decimal.NewFromInt(6800)))
		assert.Equal(t, "$6800.00", result.FormattedTax)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		router, _ := newTestRouter(t)
		w := performRequest(router, http.MethodPost, "/api/v1/tax/calculate", `{"country":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		router, _ := newTestRouter(t)
		w := performRequest(router, http.MethodPost, "/api/v1/tax/calculate", map[string]interface{}{"country": "USA"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects unparseable income", func(t *testing.T) {
		router, _ := newTestRouter(t)
		w := performRequest(router, http.MethodPost, "/api/v1/tax/calculate", map[string]interface{}{
			"country": "USA", "entity_type": "individual", "year": 2024, "income": "plenty",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_input", decode[responses.ErrorResponse](t, w).Kind)
	})

	t.Run("service rejects year mismatch", func(t *testing.T) {
		router, svc := newTestRouter(t)
		svc.EXPECT().CalculateEntityTax(gomock.Any(), gomock.Any()).
			Return(nil, taxerrors.InvalidInput("compute", "tax year mismatch"))

		w := performRequest(router, http.MethodPost, "/api/v1/tax/calculate", map[string]interface{}{
			"country": "USA", "entity_type": "individual", "year": 2024, "income": "100",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTaxHandler_CacheManagement(t *testing.T) {
	t.Run("invalidate one schedule", func(t *testing.T) {
		router, svc := newTestRouter(t)
		svc.EXPECT().Invalidate(business.Federal(business.CountryUSA), business.EntityMarriedJoint, 2023)

		w := performRequest(router, http.MethodDelete, "/api/v1/rates/USA/mfj/2023", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "rate schedule invalidated", decode[responses.SuccessResponse](t, w).Message)
	})

	t.Run("clear", func(t *testing.T) {
		router, svc := newTestRouter(t)
		svc.EXPECT().ClearCache()

		w := performRequest(router, http.MethodDelete, "/api/v1/rates", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("stats", func(t *testing.T) {
		router, svc := newTestRouter(t)
		svc.EXPECT().CacheStats().Return(responses.CacheStats{Entries: 2, Hits: 10, Fetches: 2, TTLSeconds: 3600})

		w := performRequest(router, http.MethodGet, "/api/v1/rates/stats", nil)
		require.Equal(t, http.StatusOK, w.Code)
		stats := decode[responses.CacheStats](t, w)
		assert.Equal(t, 2, stats.Entries)
		assert.Equal(t, int64(10), stats.Hits)
	})
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", taxerrors.InvalidInput("x", "bad"), http.StatusBadRequest},
		{"unsupported", taxerrors.UnsupportedJurisdiction("x", "none"), http.StatusNotFound},
		{"schema", taxerrors.SchemaMismatch("x", "changed"), http.StatusBadGateway},
		{"unavailable", taxerrors.SourceUnavailable("x", 503, "down"), http.StatusBadGateway},
		{"network", taxerrors.Network("x", "timeout", context.DeadlineExceeded), http.StatusServiceUnavailable},
		{"cache", taxerrors.Cache("x", "broken"), http.StatusInternalServerError},
		{"caller cancelled", context.Canceled, StatusClientClosedRequest},
		{"caller deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusForError(tt.err))
		})
	}
}
