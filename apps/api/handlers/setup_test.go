package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/cyphera/cyphera-tax/libs/go/logger"
	"github.com/cyphera/cyphera-tax/libs/go/middleware"
	"github.com/cyphera/cyphera-tax/libs/go/mocks"
	"github.com/gin-gonic/gin"
)

func init() {
	logger.InitLogger("test")
	gin.SetMode(gin.TestMode)
}

// newTestRouter wires a TaxHandler over a mock service on the production routes
func newTestRouter(t *testing.T) (*gin.Engine, *mocks.MockTaxService) {
	t.Helper()
	svc := mocks.NewMockTaxServiceForTest(t)
	handler := NewTaxHandler(NewCommonServices(CommonServicesConfig{TaxService: svc, Stage: "test"}))

	router := gin.New()
	router.Use(middleware.CorrelationIDMiddleware())
	v1 := router.Group("/api/v1")
	v1.GET("/rates/stats", handler.GetCacheStats)
	v1.GET("/rates/:country/:entity_type/:year", handler.GetRates)
	v1.DELETE("/rates/:country/:entity_type/:year", handler.InvalidateRates)
	v1.DELETE("/rates", handler.ClearRates)
	v1.POST("/tax/calculate", handler.CalculateTax)
	return router, svc
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

