package dto

import (
	"net/http"
	"strings"
)

// Error codes returned in the response envelope.
// Format: ERR_<DESCRIPTION>
const (
	ErrCodeInternal            = "ERR_INTERNAL"
	ErrCodeValidation          = "ERR_VALIDATION"
	ErrCodeBadRequest          = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput        = "ERR_INVALID_INPUT"
	ErrCodeInvalidQuantity     = "ERR_INVALID_QUANTITY"
	ErrCodeUnauthorized        = "ERR_UNAUTHORIZED"
	ErrCodeForbidden           = "ERR_FORBIDDEN"
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeDuplicateRequest    = "ERR_DUPLICATE_REQUEST"
	ErrCodeInvalidState        = "ERR_INVALID_STATE_TRANSITION"
	ErrCodeInsufficientStock   = "ERR_INSUFFICIENT_STOCK"
	ErrCodePersistenceFailure  = "ERR_PERSISTENCE_FAILURE"
	ErrCodeExportNotConfigured = "ERR_EXPORT_NOT_CONFIGURED"
	ErrCodeRequestTooLarge     = "ERR_REQUEST_TOO_LARGE"
	ErrCodeRateLimited         = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidQuantity: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeDuplicateRequest:    http.StatusConflict,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,

	ErrCodePersistenceFailure:  http.StatusInternalServerError,
	ErrCodeExportNotConfigured: http.StatusServiceUnavailable,
	ErrCodeRequestTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:         http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status for an error code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainCodeMapping maps domain error codes to envelope codes
var DomainCodeMapping = map[string]string{
	"NOT_FOUND":                      ErrCodeNotFound,
	"ALREADY_EXISTS":                 ErrCodeAlreadyExists,
	"INVALID_INPUT":                  ErrCodeInvalidInput,
	"INVALID_QUANTITY":               ErrCodeInvalidQuantity,
	"INVALID_STATE_TRANSITION":       ErrCodeInvalidState,
	"UNAUTHORIZED":                   ErrCodeUnauthorized,
	"CONCURRENCY_CONFLICT":           ErrCodeConcurrencyConflict,
	"INSUFFICIENT_STOCK":             ErrCodeInsufficientStock,
	"UNEXPECTED_PERSISTENCE_FAILURE": ErrCodePersistenceFailure,
	"EXPORT_NOT_CONFIGURED":          ErrCodeExportNotConfigured,
}

// NormalizeErrorCode converts a domain error code to its envelope code.
// Field-level INVALID_* and DUPLICATE_* codes collapse to ERR_INVALID_INPUT;
// other unknown codes are returned unchanged.
func NormalizeErrorCode(code string) string {
	if c, ok := DomainCodeMapping[code]; ok {
		return c
	}
	if strings.HasPrefix(code, "INVALID_") || strings.HasPrefix(code, "DUPLICATE_") {
		return ErrCodeInvalidInput
	}
	return code
}
