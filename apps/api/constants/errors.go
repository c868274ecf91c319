package constants

// Messages returned by the API handlers
const (
	InvalidRequestBody  = "Invalid request body"
	InternalServerError = "Internal server error"

	ScheduleInvalidated = "rate schedule invalidated"
	CacheCleared        = "rate cache cleared"

	RateScheduleObject = "rate_schedule"
)
