package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHealthHandler(t *testing.T) {
	handler := NewHealthHandler("local")
	require.NotNil(t, handler)
	assert.IsType(t, &HealthHandler{}, handler)
}

func TestHealthHandler_Health(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		stage string
	}{
		{name: "local stage", stage: "local"},
		{name: "prod stage", stage: "prod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.stage)
			handler.now = func() time.Time { return fixed }

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

			handler.Health(c)

			assert.Equal(t, http.StatusOK, w.Code)
			response := decode[HealthResponse](t, w)
			assert.Equal(t, HealthResponse{
				Status:  "ok",
				Service: "cyphera-tax",
				Stage:   tt.stage,
				Time:    fixed,
			}, response)
		})
	}
}
