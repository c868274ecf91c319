package handlers

import (
	"net/http"
	"time"

	"github.com/cyphera/cyphera-tax/libs/go/constants"
	"github.com/cyphera/cyphera-tax/libs/go/types/api/responses"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	stage string
	now   func() time.Time
}

func NewHealthHandler(stage string) *HealthHandler {
	return &HealthHandler{stage: stage, now: time.Now}
}

// Use types from the centralized packages
type HealthResponse = responses.HealthResponse

// Health reports that the server is up. It does not reach upstream sources.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: constants.ServiceName,
		Stage:   h.stage,
		Time:    h.now().UTC(),
	})
}
