package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cyphera/cyphera-tax/libs/go/logger"
	"github.com/cyphera/cyphera-tax/libs/go/mocks"
	"github.com/cyphera/cyphera-tax/libs/go/taxerrors"
	"github.com/cyphera/cyphera-tax/libs/go/types/api/responses"
	"github.com/cyphera/cyphera-tax/libs/go/types/business"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func init() {
	logger.InitLogger("test")
	gin.SetMode(gin.TestMode)
}

func newServer(t *testing.T) (*gin.Engine, *mocks.MockTaxService) {
	t.Helper()
	svc := mocks.NewMockTaxServiceForTest(t)
	InitializeHandlersWithService("test", svc)

	router := gin.New()
	InitializeRoutes(router)
	t.Cleanup(Shutdown)
	return router, svc
}

func TestInitializeRoutes(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		setupMocks     func(svc *mocks.MockTaxService)
		expectedStatus int
	}{
		{
			name:           "health",
			method:         http.MethodGet,
			path:           "/health",
			setupMocks:     func(*mocks.MockTaxService) {},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "swagger ui",
			method:         http.MethodGet,
			path:           "/swagger/index.html",
			setupMocks:     func(*mocks.MockTaxService) {},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "stage prefixed health",
			method:         http.MethodGet,
			path:           "/dev/health",
			setupMocks:     func(*mocks.MockTaxService) {},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "stats",
			method: http.MethodGet,
			path:   "/api/v1/rates/stats",
			setupMocks: func(svc *mocks.MockTaxService) {
				svc.EXPECT().CacheStats().Return(responses.CacheStats{})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "clear",
			method: http.MethodDelete,
			path:   "/api/v1/rates",
			setupMocks: func(svc *mocks.MockTaxService) {
				svc.EXPECT().ClearCache()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "invalidate",
			method: http.MethodDelete,
			path:   "/api/v1/rates/usa/individual/2024",
			setupMocks: func(svc *mocks.MockTaxService) {
				svc.EXPECT().Invalidate(business.Federal(business.CountryUSA), business.EntityIndividual, 2024)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "rates for an unsupported jurisdiction",
			method: http.MethodGet,
			path:   "/api/v1/rates/canada/individual/2024",
			setupMocks: func(svc *mocks.MockTaxService) {
				svc.EXPECT().
					FetchRates(gomock.Any(), business.Federal(business.CountryCanada), business.EntityIndividual, 2024).
					Return(nil, taxerrors.UnsupportedJurisdiction("fetch", "no source for federal:Canada"))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "unknown route",
			method:         http.MethodGet,
			path:           "/api/v2/rates",
			setupMocks:     func(*mocks.MockTaxService) {},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := newServer(t)
			tt.setupMocks(svc)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
		})
	}
}

func TestSwaggerDocument(t *testing.T) {
	router, _ := newServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var doc struct {
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "/api/v1", doc.BasePath)
	for _, path := range []string{"/tax/calculate", "/rates/{country}/{entity_type}/{year}", "/rates/stats", "/rates"} {
		assert.Contains(t, doc.Paths, path)
	}
}

func TestCORS(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.test, https://admin.example.test")
	router, _ := newServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/tax/calculate", nil)
	req.Header.Set("Origin", "https://admin.example.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://admin.example.test", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/tax/calculate", nil)
	req.Header.Set("Origin", "https://evil.example.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitFromEnv(t *testing.T) {
	t.Setenv("TAX_API_RATE_LIMIT", "")
	assert.Equal(t, DefaultRateLimit, rateLimitFromEnv())

	t.Setenv("TAX_API_RATE_LIMIT", "5")
	assert.Equal(t, 5, rateLimitFromEnv())

	t.Setenv("TAX_API_RATE_LIMIT", "-3")
	assert.Equal(t, DefaultRateLimit, rateLimitFromEnv())
}

func TestEnvList(t *testing.T) {
	t.Setenv("CORS_ALLOWED_METHODS", "GET , POST")
	assert.Equal(t, []string{"GET", "POST"}, envList("CORS_ALLOWED_METHODS", nil))
	assert.Equal(t, []string{"x"}, envList("UNSET_FOR_TEST", []string{"x"}))
}
