package mocks

import (
	"testing"

	"go.uber.org/mock/gomock"
)

// NewMockRateFetcherForTest creates a new mock RateFetcher for testing
func NewMockRateFetcherForTest(t *testing.T) *MockRateFetcher {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockRateFetcher(ctrl)
}

// NewMockScheduleParserForTest creates a new mock ScheduleParser for testing
func NewMockScheduleParserForTest(t *testing.T) *MockScheduleParser {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockScheduleParser(ctrl)
}

// NewMockTaxServiceForTest creates a new mock TaxService for testing
func NewMockTaxServiceForTest(t *testing.T) *MockTaxService {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockTaxService(ctrl)
}
