package dto

import "net/http"

// APIError is the body of every error response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeNotFound      = "not_found"
	ErrCodeBadRequest    = "bad_request"
	ErrCodeInternalError = "internal_error"
	ErrCodeValidation    = "validation_error"
)

var statusByCode = map[string]int{
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeBadRequest:    http.StatusBadRequest,
	ErrCodeValidation:    http.StatusBadRequest,
	ErrCodeInternalError: http.StatusInternalServerError,
}

// Status returns the HTTP status for the error code; unknown codes are 500.
func (e APIError) Status() int {
	if status, ok := statusByCode[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NotFoundError reports a missing resource.
func NotFoundError(resource string) APIError {
	return APIError{Code: ErrCodeNotFound, Message: resource + " not found"}
}

// BadRequestError reports a request that could not be read.
func BadRequestError(message string) APIError {
	return APIError{Code: ErrCodeBadRequest, Message: message}
}

// ValidationError reports a well-formed request with invalid content.
func ValidationError(message string) APIError {
	return APIError{Code: ErrCodeValidation, Message: message}
}

// InternalError hides the cause from the client.
func InternalError() APIError {
	return APIError{Code: ErrCodeInternalError, Message: "an internal error occurred"}
}
