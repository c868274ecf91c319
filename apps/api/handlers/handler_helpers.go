package handlers

import (
	"strconv"

	"github.com/cyphera/cyphera-tax/libs/go/taxerrors"
	"github.com/cyphera/cyphera-tax/libs/go/types/api/params"
	"github.com/cyphera/cyphera-tax/libs/go/types/business"
	"github.com/gin-gonic/gin"
)

// GetScheduleParams reads the country, entity_type and year path parameters
// and the optional region query parameter
func GetScheduleParams(c *gin.Context) (params.RateScheduleParams, error) {
	jurisdiction, err := business.ParseJurisdiction(c.Param("country"), c.Query("region"))
	if err != nil {
		return params.RateScheduleParams{}, err
	}
	entityType, err := business.ParseTaxEntityType(c.Param("entity_type"))
	if err != nil {
		return params.RateScheduleParams{}, err
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return params.RateScheduleParams{}, taxerrors.InvalidInput("parse_year", "year must be an integer, got %q", c.Param("year"))
	}
	return params.RateScheduleParams{
		Jurisdiction: jurisdiction,
		EntityType:   entityType,
		Year:         year,
	}, nil
}
