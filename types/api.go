package types

// APIResponse is the standardized envelope used by middleware responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError carries a machine-readable code alongside a human message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code, message string) *APIResponse {
	return &APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	}
}

// ErrorCodeRateLimited is returned by the rate limiter on 429 responses.
const ErrorCodeRateLimited = "RATE_LIMIT_EXCEEDED"
