package constants

// Upstream Client Error Codes
// These constants define specific failure scenarios for the aviation data provider

const (
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeNetworkError   = "NETWORK_ERROR"
	ErrCodeAPIError       = "API_ERROR"
)

// Error Messages
// Human-readable messages corresponding to error codes

var ClientErrorMessages = map[string]string{
	ErrCodeInvalidRequest: "The request was malformed and will not be retried",
	ErrCodeNotFound:       "No airport data exists for the requested identifier",
	ErrCodeRateLimited:    "Rate limit exceeded. Please try again later",
	ErrCodeNetworkError:   "Unable to reach the aviation data provider",
	ErrCodeAPIError:       "The aviation data provider returned an unexpected error",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := ClientErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
