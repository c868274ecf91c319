package taxclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cyphera/cyphera-tax/libs/go/types/api/params"
	"github.com/cyphera/cyphera-tax/libs/go/types/api/responses"
	"github.com/cyphera/cyphera-tax/libs/go/types/business"
)

func schedulePath(p params.RateScheduleParams) (string, url.Values) {
	path := fmt.Sprintf("/api/v1/rates/%s/%s/%s",
		url.PathEscape(string(p.Jurisdiction.Country)),
		url.PathEscape(string(p.EntityType)),
		strconv.Itoa(p.Year),
	)
	var query url.Values
	if !p.Jurisdiction.IsFederal() {
		query = url.Values{"region": {p.Jurisdiction.Region}}
	}
	return path, query
}

// GetRates fetches a schedule. The decoded schedule is re-validated.
func (c *TaxAPIClient) GetRates(ctx context.Context, p params.RateScheduleParams) (*business.RateSchedule, error) {
	path, query := schedulePath(p)
	var resp responses.RateScheduleResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, query, &resp); err != nil {
		return nil, err
	}
	return resp.Schedule, nil
}

// Invalidate drops one schedule from the server's cache
func (c *TaxAPIClient) Invalidate(ctx context.Context, p params.RateScheduleParams) error {
	path, query := schedulePath(p)
	_, _, err := c.doRequest(ctx, http.MethodDelete, path, nil, query)
	return err
}

// ClearCache drops every schedule from the server's cache
func (c *TaxAPIClient) ClearCache(ctx context.Context) error {
	_, _, err := c.doRequest(ctx, http.MethodDelete, "/api/v1/rates", nil, nil)
	return err
}

func (c *TaxAPIClient) CacheStats(ctx context.Context) (*responses.CacheStats, error) {
	var stats responses.CacheStats
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/rates/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
