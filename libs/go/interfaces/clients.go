package interfaces

import (
	"context"

	"github.com/cyphera/cyphera-tax/libs/go/types/business"
)

//go:generate mockgen -source=clients.go -destination=../mocks/mock_clients.go -package=mocks

// RateFetcher retrieves the raw document that publishes a rate schedule
type RateFetcher interface {
	Fetch(ctx context.Context, key business.CacheKey) (*business.SourceDocument, error)
	Supports(jurisdiction business.Jurisdiction) bool
}

// ScheduleParser turns a fetched document into a validated schedule for one entity type
type ScheduleParser interface {
	Parse(doc *business.SourceDocument, entityType business.TaxEntityType) (*business.RateSchedule, error)
}
