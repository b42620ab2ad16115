package client

import (
	"errors"
	"fmt"
	"time"

	"flightops/aerodata/internal/constants"
)

// ClientError is the typed error taxonomy for upstream failures. Code is one
// of the constants.ErrCode* values; Retryable drives the backoff loop.
type ClientError struct {
	Code       string
	Message    string
	StatusCode int
	RetryAfter time.Duration
	Retryable  bool
}

func (e *ClientError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newInvalidRequest(msg string) *ClientError {
	return &ClientError{
		Code:    constants.ErrCodeInvalidRequest,
		Message: msg,
	}
}

func newNotFound(ident string) *ClientError {
	return &ClientError{
		Code:       constants.ErrCodeNotFound,
		Message:    "no airport data for " + ident,
		StatusCode: 404,
	}
}

func newRateLimited(retryAfter time.Duration) *ClientError {
	return &ClientError{
		Code:       constants.ErrCodeRateLimited,
		Message:    constants.GetErrorMessage(constants.ErrCodeRateLimited),
		StatusCode: 429,
		RetryAfter: retryAfter,
	}
}

func newNetworkError(err error) *ClientError {
	return &ClientError{
		Code:      constants.ErrCodeNetworkError,
		Message:   err.Error(),
		Retryable: true,
	}
}

func newAPIError(statusCode int, retryable bool) *ClientError {
	return &ClientError{
		Code:       constants.ErrCodeAPIError,
		Message:    fmt.Sprintf("unexpected upstream status %d", statusCode),
		StatusCode: statusCode,
		Retryable:  retryable,
	}
}

// asClientError coerces any error into the taxonomy, defaulting to a
// retryable network error.
func asClientError(err error) *ClientError {
	var cerr *ClientError
	if errors.As(err, &cerr) {
		return cerr
	}
	return newNetworkError(err)
}

// IsNotFound reports whether err is a not-found client error.
func IsNotFound(err error) bool {
	var cerr *ClientError
	return errors.As(err, &cerr) && cerr.Code == constants.ErrCodeNotFound
}

// IsRateLimited reports whether err is a rate-limit client error.
func IsRateLimited(err error) bool {
	var cerr *ClientError
	return errors.As(err, &cerr) && cerr.Code == constants.ErrCodeRateLimited
}

// IsInvalidRequest reports whether err is a malformed-request client error.
func IsInvalidRequest(err error) bool {
	var cerr *ClientError
	return errors.As(err, &cerr) && cerr.Code == constants.ErrCodeInvalidRequest
}
