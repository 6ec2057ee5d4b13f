package dto

// MessageResponse is the standard success envelope for mutations
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the standard error envelope
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}
