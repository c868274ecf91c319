package handlers

import (
	"net/http"

	apiconstants "github.com/cyphera/cyphera-tax/apps/api/constants"
	"github.com/cyphera/cyphera-tax/libs/go/logger"
	"github.com/cyphera/cyphera-tax/libs/go/types/api/requests"
	"github.com/cyphera/cyphera-tax/libs/go/types/api/responses"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TaxHandler exposes rate schedules and tax calculations over HTTP
type TaxHandler struct {
	common *CommonServices
}

func NewTaxHandler(common *CommonServices) *TaxHandler {
	return &TaxHandler{common: common}
}

// GetRates returns the schedule for a country, entity type and year
// @Summary Get rate schedule
// @Description Returns the progressive bracket schedule for a country, entity type and tax year, fetching it from the published source on a cache miss
// @Tags rates
// @Produce json
// @Param country path string true "Country name or code, e.g. USA"
// @Param entity_type path string true "Filing entity, e.g. individual or married_joint"
// @Param year path int true "Tax year"
// @Param region query string false "State or province code"
// @Success 200 {object} responses.RateScheduleResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 502 {object} responses.ErrorResponse
// @Failure 503 {object} responses.ErrorResponse
// @Router /rates/{country}/{entity_type}/{year} [get]
func (h *TaxHandler) GetRates(c *gin.Context) {
	p, err := GetScheduleParams(c)
	if err != nil {
		handleTaxError(c, err)
		return
	}

	schedule, err := h.common.TaxService.FetchRates(c.Request.Context(), p.Jurisdiction, p.EntityType, p.Year)
	if err != nil {
		handleTaxError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, responses.RateScheduleResponse{
		Object:   apiconstants.RateScheduleObject,
		Schedule: schedule,
	})
}

// CalculateTax fetches the applicable schedule and taxes the given income net of deductions
// @Summary Calculate tax
// @Description Taxes income net of deductions against the applicable schedule using exact decimal arithmetic
// @Tags tax
// @Accept json
// @Produce json
// @Param request body requests.CalculateTaxRequest true "Income, deductions and schedule selection"
// @Success 200 {object} responses.TaxCalculationResult
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 502 {object} responses.ErrorResponse
// @Failure 503 {object} responses.ErrorResponse
// @Router /tax/calculate [post]
func (h *TaxHandler) CalculateTax(c *gin.Context) {
	var req requests.CalculateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, apiconstants.InvalidRequestBody, err)
		return
	}

	p, err := req.ToParams()
	if err != nil {
		handleTaxError(c, err)
		return
	}

	result, err := h.common.TaxService.CalculateEntityTax(c.Request.Context(), p)
	if err != nil {
		handleTaxError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, result)
}

// InvalidateRates drops one cached schedule
// @Summary Invalidate rate schedule
// @Tags rates
// @Produce json
// @Param country path string true "Country name or code"
// @Param entity_type path string true "Filing entity"
// @Param year path int true "Tax year"
// @Param region query string false "State or province code"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse
// @Router /rates/{country}/{entity_type}/{year} [delete]
func (h *TaxHandler) InvalidateRates(c *gin.Context) {
	p, err := GetScheduleParams(c)
	if err != nil {
		handleTaxError(c, err)
		return
	}

	h.common.TaxService.Invalidate(p.Jurisdiction, p.EntityType, p.Year)
	logger.FromContext(c.Request.Context(), h.common.GetLogger()).Info("Rate schedule invalidated",
		zap.String("cache_key", p.Key().String()))
	sendSuccessMessage(c, http.StatusOK, apiconstants.ScheduleInvalidated)
}

// ClearRates drops every cached schedule
// @Summary Clear rate cache
// @Tags rates
// @Produce json
// @Success 200 {object} responses.SuccessResponse
// @Router /rates [delete]
func (h *TaxHandler) ClearRates(c *gin.Context) {
	h.common.TaxService.ClearCache()
	sendSuccessMessage(c, http.StatusOK, apiconstants.CacheCleared)
}

// GetCacheStats reports cache and upstream counters
// @Summary Get cache statistics
// @Tags rates
// @Produce json
// @Success 200 {object} responses.CacheStats
// @Router /rates/stats [get]
func (h *TaxHandler) GetCacheStats(c *gin.Context) {
	sendSuccess(c, http.StatusOK, h.common.TaxService.CacheStats())
}
