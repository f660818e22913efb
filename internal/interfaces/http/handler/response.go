package handler

import "github.com/mfgerp/backend/internal/interfaces/http/dto"

// Shapes of the dto.Response envelope for the swagger annotations only.
// Handlers write responses through dto helpers, never through these types.

// APIResponse is a success envelope carrying T
type APIResponse[T any] struct {
	Success bool           `json:"success" example:"true"`
	Data    T              `json:"data,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// ErrorResponse is a failure envelope; error.code is one of the dto.ErrCode values
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error"`
}

// SuccessResponse is an envelope without data, used by deletes and state changes
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}
