package handlers

import (
	"context"
	"errors"
	"net/http"

	apiconstants "github.com/cyphera/cyphera-tax/apps/api/constants"
	"github.com/cyphera/cyphera-tax/libs/go/interfaces"
	"github.com/cyphera/cyphera-tax/libs/go/logger"
	"github.com/cyphera/cyphera-tax/libs/go/middleware"
	"github.com/cyphera/cyphera-tax/libs/go/taxerrors"
	"github.com/cyphera/cyphera-tax/libs/go/types/api/responses"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatusClientClosedRequest is reported when the caller went away before a
// schedule became available
const StatusClientClosedRequest = 499

// CommonServices holds common dependencies used across handlers
type CommonServices struct {
	TaxService interfaces.TaxService
	stage      string
	logger     *zap.Logger
}

// CommonServicesConfig contains all dependencies needed to create CommonServices
type CommonServicesConfig struct {
	TaxService interfaces.TaxService
	Stage      string
	Logger     *zap.Logger
}

// NewCommonServices creates a new instance of CommonServices with interface dependencies
func NewCommonServices(config CommonServicesConfig) *CommonServices {
	if config.Logger == nil {
		config.Logger = logger.Log
	}
	return &CommonServices{
		TaxService: config.TaxService,
		stage:      config.Stage,
		logger:     logger.ForComponent(config.Logger, logger.ComponentAPI),
	}
}

func (s *CommonServices) GetLogger() *zap.Logger {
	return s.logger
}

// StatusForError maps a pipeline failure to the HTTP status reported for it
func StatusForError(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest
	case errors.Is(err, context.DeadlineExceeded) && taxerrors.KindOf(err) == taxerrors.KindUnknown:
		return http.StatusGatewayTimeout
	}

	switch taxerrors.KindOf(err) {
	case taxerrors.KindInvalidInput:
		return http.StatusBadRequest
	case taxerrors.KindUnsupportedJurisdiction:
		return http.StatusNotFound
	case taxerrors.KindSchemaMismatch, taxerrors.KindSourceUnavailable:
		return http.StatusBadGateway
	case taxerrors.KindNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// sendError writes a JSON error and attaches err to the context for the
// request logging middleware
func sendError(c *gin.Context, statusCode int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}

	response := responses.ErrorResponse{
		Error:         message,
		CorrelationID: middleware.GetCorrelationID(c),
	}
	if err != nil {
		if kind := taxerrors.KindOf(err); kind != taxerrors.KindUnknown {
			response.Kind = kind.String()
		}
	}
	c.AbortWithStatusJSON(statusCode, response)
}

// handleTaxError reports a service failure with the status for its kind.
// Internal failures hide their details from the caller.
func handleTaxError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	status := StatusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = apiconstants.InternalServerError
	}
	sendError(c, status, message, err)
}

// sendSuccess is a helper function that sends a success response
func sendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

func sendSuccessMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, responses.SuccessResponse{Message: message})
}
