package taxclient

import (
	"context"
	"net/http"

	"github.com/cyphera/cyphera-tax/libs/go/types/api/requests"
	"github.com/cyphera/cyphera-tax/libs/go/types/api/responses"
)

func (c *TaxAPIClient) Calculate(ctx context.Context, req requests.CalculateTaxRequest) (*responses.TaxCalculationResult, error) {
	var result responses.TaxCalculationResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/tax/calculate", req, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *TaxAPIClient) Health(ctx context.Context) (*responses.HealthResponse, error) {
	var health responses.HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}
