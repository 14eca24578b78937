package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jfellows/userdir/internal/model"
	"github.com/jfellows/userdir/internal/validate"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeUserNotFound   = "USER_NOT_FOUND"
	CodeEmptyStore     = "EMPTY_STORE"
	CodeInternalError  = "INTERNAL_ERROR"
)

// ValidationResponse is the fixed body shape for rule-chain failures:
// a literal "Validation failed" marker plus every collected entry.
type ValidationResponse struct {
	Error   string                `json:"error"`
	Details []validate.FieldError `json:"details"`
}

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// WriteValidationError writes the 400 validation failure response. The
// handler must not run once this is written; validation is terminal for
// the request.
func WriteValidationError(w http.ResponseWriter, details []validate.FieldError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(ValidationResponse{
		Error:   "Validation failed",
		Details: details,
	})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrEmptyStore):
		return &httpError{http.StatusInternalServerError, APIError{CodeEmptyStore, "User store has no records to derive the next id from"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
