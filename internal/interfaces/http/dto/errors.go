package dto

import "net/http"

// Error code constants
// Format: ERR_<CATEGORY>_<DESCRIPTION>
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeBadRequest is used for malformed query parameters
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeValidation is used when request validation fails
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeNoData is used when no sales data has been ingested yet
	ErrCodeNoData = "ERR_NO_DATA"
	// ErrCodePrecondition is used when relations are loaded out of order
	ErrCodePrecondition = "ERR_PRECONDITION"
	// ErrCodeStoreAccess is used when the durable store is unreachable
	ErrCodeStoreAccess = "ERR_STORE_ACCESS"
)

// GetHTTPStatus maps an error code to its HTTP status code
func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeNoData, ErrCodePrecondition:
		return http.StatusConflict
	case ErrCodeStoreAccess, ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
