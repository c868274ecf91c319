package responses

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error         string `json:"error"`
	Kind          string `json:"kind,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string `json:"message"`
}
