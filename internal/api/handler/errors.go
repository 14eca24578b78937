package handler

import (
	"net/http"

	"github.com/jfellows/userdir/internal/api/apierr"
	"github.com/jfellows/userdir/internal/validate"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest = apierr.CodeInvalidRequest
	CodeUserNotFound   = apierr.CodeUserNotFound
	CodeEmptyStore     = apierr.CodeEmptyStore
	CodeInternalError  = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// WriteValidationError writes the 400 validation failure response
func WriteValidationError(w http.ResponseWriter, details []validate.FieldError) {
	apierr.WriteValidationError(w, details)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}
